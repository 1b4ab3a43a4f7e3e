package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "constscan.dev/pkg/constscan/internal/model"
)

func startWatcher(t *testing.T, config WatcherConfig) *Watcher {
	t.Helper()

	w, err := NewWatcher(config)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	t.Cleanup(func() {
		cancel()
		_ = w.Close()
		for range w.Changes() {
		}
	})

	return w
}

func nextBatch(t *testing.T, w *Watcher) []m.Path {
	t.Helper()

	select {
	case batch := <-w.Changes():
		return batch
	case <-time.After(5 * time.Second):
		require.FailNow(t, "no change batch received")
	}

	return nil
}

func TestWatcher_ReportsSourceChanges(t *testing.T) {
	root := t.TempDir()
	generated := filepath.Join(root, "generated")
	require.NoError(t, os.Mkdir(generated, 0o755))

	w := startWatcher(t, WatcherConfig{
		Roots:      []m.Path{m.Path(root)},
		Extensions: []string{".kt", ".java"},
		Exclude:    []string{"generated"},
		Debounce:   20 * time.Millisecond,
	})

	writeTestFile(t, filepath.Join(root, "notes.txt"), "ignored\n")
	writeTestFile(t, filepath.Join(generated, "R.java"), "class R {}\n")
	writeTestFile(t, filepath.Join(root, "Keys.kt"), "object Keys\n")

	batch := nextBatch(t, w)
	assert.Equal(t, []m.Path{m.Path(filepath.Join(root, "Keys.kt"))}, batch)
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()

	w := startWatcher(t, WatcherConfig{
		Roots:      []m.Path{m.Path(root)},
		Extensions: []string{".java"},
		Debounce:   20 * time.Millisecond,
	})

	sub := filepath.Join(root, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))

	target := filepath.Join(sub, "Main.java")

	require.Eventually(t, func() bool {
		writeTestFile(t, target, "class Main {}\n")

		select {
		case batch := <-w.Changes():
			return len(batch) == 1 && batch[0] == m.Path(target)
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_CloseEndsRun(t *testing.T) {
	w, err := NewWatcher(WatcherConfig{Roots: []m.Path{m.Path(t.TempDir())}})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.config.Debounce)

	finished := make(chan struct{})

	go func() {
		w.Run(context.Background())
		close(finished)
	}()

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close is idempotent")

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}

	_, open := <-w.Changes()
	assert.False(t, open)
}

func TestNewWatcher_MissingRoot(t *testing.T) {
	_, err := NewWatcher(WatcherConfig{Roots: []m.Path{m.Path(filepath.Join(t.TempDir(), "missing"))}})
	assert.Error(t, err)
}

func TestWatcher_ReportsRemovedFiles(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "Keys.kt")
	writeTestFile(t, target, "object Keys\n")

	w := startWatcher(t, WatcherConfig{
		Roots:      []m.Path{m.Path(root)},
		Extensions: []string{".kt"},
		Debounce:   20 * time.Millisecond,
	})

	require.NoError(t, os.Remove(target))

	batch := nextBatch(t, w)
	assert.Equal(t, []m.Path{m.Path(target)}, batch)
}

func TestWatcher_SkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	hidden := filepath.Join(root, ".gradle")
	require.NoError(t, os.Mkdir(hidden, 0o755))

	w := startWatcher(t, WatcherConfig{
		Roots:      []m.Path{m.Path(root)},
		Extensions: []string{".kt"},
		Debounce:   20 * time.Millisecond,
	})

	writeTestFile(t, filepath.Join(hidden, "Gen.kt"), "object Gen\n")
	writeTestFile(t, filepath.Join(root, "Keys.kt"), "object Keys\n")

	batch := nextBatch(t, w)
	assert.Equal(t, []m.Path{m.Path(filepath.Join(root, "Keys.kt"))}, batch)
}
