package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	m "constscan.dev/pkg/constscan/internal/model"
)

// DefaultDebounce is used when WatcherConfig.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// WatcherConfig configures a source watcher.
type WatcherConfig struct {
	// Roots are the directories to watch recursively.
	Roots []m.Path

	// Extensions restricts events to source files, with the leading dot.
	Extensions []string

	// Exclude holds doublestar globs; matching directories are not watched and
	// matching files are ignored.
	Exclude []string

	// Debounce is how long changes accumulate before a batch is emitted.
	Debounce time.Duration
}

// ChangeSource delivers batches of changed source files.
type ChangeSource interface {
	Changes() <-chan []m.Path
	Run(ctx context.Context)
	Close() error
}

// Watcher reports batches of changed source files. A batch also carries
// files that were deleted or renamed away; they no longer exist on disk.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher

	pendingMu sync.Mutex
	pending   map[m.Path]struct{}

	changes chan []m.Path
	done    chan struct{}
}

// NewWatcher creates a watcher and registers every directory under the roots.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		config:  config,
		watcher: fsw,
		pending: make(map[m.Path]struct{}),
		changes: make(chan []m.Path, 16),
		done:    make(chan struct{}),
	}

	for _, root := range config.Roots {
		if err := w.addRecursive(string(root)); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", root, err)
		}
	}

	return w, nil
}

// Changes returns the channel of debounced batches. It is closed when Run
// returns.
func (w *Watcher) Changes() <-chan []m.Path {
	return w.changes
}

// Run processes filesystem events until ctx is cancelled or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.changes)

	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			slog.Error("Watcher error", "error", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// Close stops Run and releases the underlying watches.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
		close(w.done)
	}

	return w.watcher.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if path != root && skipDir(path, relativeTo(root, path, filepath.ToSlash(path)), w.config.Exclude) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			slog.Warn("Failed to watch directory", "path", path, "error", err)
		} else {
			slog.Debug("Watching directory", "path", path)
		}

		return nil
	})
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addRecursive(path); err != nil {
				slog.Warn("Failed to watch new directory", "path", path, "error", err)
			}

			return
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}

	if !hasExtension(path, w.config.Extensions) || w.excluded(path) {
		return
	}

	w.pendingMu.Lock()
	w.pending[m.Path(path)] = struct{}{}
	w.pendingMu.Unlock()

	slog.Debug("Source change detected", "path", path, "op", event.Op.String())
}

func (w *Watcher) excluded(path string) bool {
	for _, root := range w.config.Roots {
		rel, err := filepath.Rel(string(root), path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}

		if isExcluded(filepath.ToSlash(rel), w.config.Exclude) {
			return true
		}
	}

	return false
}

// flush emits the accumulated batch.
func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}

	batch := make([]m.Path, 0, len(w.pending))
	for path := range w.pending {
		batch = append(batch, path)
	}

	w.pending = make(map[m.Path]struct{})
	w.pendingMu.Unlock()

	sort.Slice(batch, func(i, j int) bool { return batch[i] < batch[j] })

	select {
	case <-ctx.Done():
	case w.changes <- batch:
	default:
		slog.Warn("Change channel full, dropping batch", "files", len(batch))
	}
}
