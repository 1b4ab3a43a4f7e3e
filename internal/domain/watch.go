package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"constscan.dev/pkg/constscan/internal/adapter"
	"constscan.dev/pkg/constscan/internal/controller"
	m "constscan.dev/pkg/constscan/internal/model"
)

// Watch runs a full check, then re-analyses changed files as they are
// saved. Each batch displays the findings of the changed files and refreshes
// the persisted report. It returns when ctx is cancelled.
func (w *workflow) Watch(ctx context.Context, args WatchArgs) error {
	if err := w.Start(ctx, controller.WithWatchMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	results, skippedFiles, err := w.scan(ctx, args.ScanArgs)
	if err != nil {
		return fmt.Errorf("analyse sources: %w", err)
	}

	state := newWatchState(results)

	if err := w.publish(ctx, args, w.buildReport(state.results(), skippedFiles), true); err != nil {
		return err
	}

	extensions := w.parsers.Extensions(args.Languages...)

	source, err := w.newWatcher(adapter.WatcherConfig{
		Roots:      adapter.WatchRoots(args.Paths),
		Extensions: extensions,
		Exclude:    args.Exclude,
		Debounce:   args.Debounce,
	})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	defer func() {
		if err := source.Close(); err != nil {
			slog.Warn("Failed to close watcher", "error", err)
		}
	}()

	go source.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-source.Changes():
			if !ok {
				return nil
			}

			if err := w.recheck(ctx, args, state, batch, extensions); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}

				return err
			}
		}
	}
}

// recheck re-analyses one batch. Paths that no longer exist drop their
// results from the watch state; a path that cannot be collected is skipped
// without affecting the rest of the batch.
func (w *workflow) recheck(ctx context.Context, args WatchArgs, state *watchState, batch []m.Path, extensions []string) error {
	var (
		files   []m.File
		removed int
	)

	for _, path := range batch {
		found, err := w.Get(ctx, []m.Path{path}, extensions, args.Exclude...)

		switch {
		case err == nil:
			files = append(files, found...)
		case errors.Is(err, fs.ErrNotExist):
			if state.remove(path) {
				slog.Debug("Dropped results of removed source", "path", path)

				removed++
			}
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			slog.Warn("Failed to collect changed source", "path", path, "error", err)
		}
	}

	if len(files) == 0 && removed == 0 {
		return nil
	}

	var (
		results      []m.FileResult
		skippedFiles int
	)

	if len(files) > 0 {
		for i, file := range files {
			if known, ok := state.byPath[file.FullPath]; ok {
				files[i].ShortPath = known.File.ShortPath
			}
		}

		var err error

		results, skippedFiles, err = w.analyze(ctx, files, args.Parallel)
		if err != nil {
			return fmt.Errorf("analyse changes: %w", err)
		}

		for _, result := range results {
			state.update(result)
		}
	}

	if err := w.publish(ctx, args, w.buildReport(state.results(), 0), false); err != nil {
		return err
	}

	// The batch view shows only what changed.
	return w.DisplayReport(ctx, w.buildReport(results, skippedFiles))
}

// publish persists report and, on the initial pass, displays it.
func (w *workflow) publish(ctx context.Context, args WatchArgs, report m.Report, display bool) error {
	if args.Output != "" {
		if err := w.SaveReport(args.Output, report); err != nil {
			slog.Error("Failed to save report", "output", args.Output, "error", err)
			return fmt.Errorf("save report: %w", err)
		}
	}

	if !display {
		return nil
	}

	if err := w.DisplayReport(ctx, report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

// watchState keeps the latest result per file between batches.
type watchState struct {
	byPath map[m.Path]m.FileResult
}

func newWatchState(results []m.FileResult) *watchState {
	state := &watchState{byPath: make(map[m.Path]m.FileResult, len(results))}
	for _, result := range results {
		state.update(result)
	}

	return state
}

func (s *watchState) update(result m.FileResult) {
	s.byPath[result.File.FullPath] = result
}

// remove forgets the result of a file that no longer exists. Watch batches
// may carry relative paths while results are keyed by absolute path.
func (s *watchState) remove(path m.Path) bool {
	key := path
	if abs, err := filepath.Abs(string(path)); err == nil {
		key = m.Path(abs)
	}

	if _, ok := s.byPath[key]; !ok {
		return false
	}

	delete(s.byPath, key)

	return true
}

func (s *watchState) results() []m.FileResult {
	out := make([]m.FileResult, 0, len(s.byPath))
	for _, result := range s.byPath {
		out = append(out, result)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].File.ShortPath < out[j].File.ShortPath })

	return out
}
