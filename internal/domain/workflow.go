// Package domain wires source discovery, analysis, persistence and display
// into the constscan workflows.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"constscan.dev/pkg/constscan/internal/adapter"
	"constscan.dev/pkg/constscan/internal/controller"
	"constscan.dev/pkg/constscan/internal/domain/rule"
	m "constscan.dev/pkg/constscan/internal/model"
)

// ErrViolationsFound is returned by callers that fail a run on violations.
var ErrViolationsFound = errors.New("constants-only units found")

// ScanArgs selects the files of a run.
type ScanArgs struct {
	Paths     []m.Path
	Exclude   []string
	Languages []m.Language
	Parallel  int
}

// CheckArgs contains the arguments for a check run.
type CheckArgs struct {
	ScanArgs
	// Output is the report directory; empty disables persistence.
	Output m.Path
}

// ListArgs contains the arguments for listing units.
type ListArgs struct {
	ScanArgs
}

// ViewArgs contains the arguments for showing a persisted report.
type ViewArgs struct {
	Output m.Path
}

// WatchArgs contains the arguments for watch mode.
type WatchArgs struct {
	CheckArgs
	Debounce time.Duration
}

// Workflow defines the CLI-facing operations.
type Workflow interface {
	Check(ctx context.Context, args CheckArgs) (m.Report, error)
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) (m.Report, error)
	Watch(ctx context.Context, args WatchArgs) error
}

// WatcherFactory creates the change source used by Watch.
type WatcherFactory func(config adapter.WatcherConfig) (adapter.ChangeSource, error)

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Analyzer

	parsers    adapter.ParserLookup
	newWatcher WatcherFactory
	now        func() time.Time
}

// Option customises a workflow.
type Option func(*workflow)

// WithWatcherFactory replaces the fsnotify watcher used by Watch.
func WithWatcherFactory(factory WatcherFactory) Option {
	return func(w *workflow) {
		w.newWatcher = factory
	}
}

// WithClock replaces the clock stamping reports.
func WithClock(now func() time.Time) Option {
	return func(w *workflow) {
		w.now = now
	}
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	analyzer Analyzer,
	parsers adapter.ParserLookup,
	options ...Option,
) Workflow {
	w := &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Analyzer:        analyzer,
		parsers:         parsers,
		newWatcher: func(config adapter.WatcherConfig) (adapter.ChangeSource, error) {
			return adapter.NewWatcher(config)
		},
		now: time.Now,
	}

	for _, option := range options {
		option(w)
	}

	return w
}

// Check analyses the selected files, persists the report when an output
// directory is set and displays the findings.
func (w *workflow) Check(ctx context.Context, args CheckArgs) (m.Report, error) {
	if err := w.Start(ctx, controller.WithCheckMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.Report{}, err
	}

	results, skippedFiles, err := w.scan(ctx, args.ScanArgs)
	if err != nil {
		w.Close(ctx)
		slog.Error("Failed to analyse sources", "error", err)

		return m.Report{}, fmt.Errorf("analyse sources: %w", err)
	}

	report := w.buildReport(results, skippedFiles)

	if args.Output != "" {
		if err := w.SaveReport(args.Output, report); err != nil {
			w.Close(ctx)
			slog.Error("Failed to save report", "output", args.Output, "error", err)

			return m.Report{}, fmt.Errorf("save report: %w", err)
		}
	}

	if err := w.DisplayReport(ctx, report); err != nil {
		w.Close(ctx)
		slog.Error("Failed to display report", "error", err)

		return m.Report{}, fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)
	w.Close(ctx)

	return report, nil
}

// List analyses the selected files and displays every unit with its verdict.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := w.Start(ctx, controller.WithListMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	results, _, err := w.scan(ctx, args.ScanArgs)
	if err != nil {
		w.Close(ctx)
		slog.Error("Failed to analyse sources", "error", err)

		return fmt.Errorf("analyse sources: %w", err)
	}

	if err := w.DisplayUnits(ctx, results); err != nil {
		w.Close(ctx)
		slog.Error("Failed to display units", "error", err)

		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)
	w.Close(ctx)

	return nil
}

// View displays the last persisted report without re-analysing.
func (w *workflow) View(ctx context.Context, args ViewArgs) (m.Report, error) {
	report, err := w.LoadReport(args.Output)
	if err != nil {
		return m.Report{}, fmt.Errorf("load report: %w", err)
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.Report{}, err
	}

	if err := w.DisplayReport(ctx, report); err != nil {
		w.Close(ctx)
		return m.Report{}, fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)
	w.Close(ctx)

	return report, nil
}

// scan discovers files and analyses them on a bounded worker pool. Files
// that fail to read or parse are logged, reported to the UI and counted as
// skipped; they never abort the run.
func (w *workflow) scan(ctx context.Context, args ScanArgs) ([]m.FileResult, int, error) {
	files, err := w.Get(ctx, args.Paths, w.parsers.Extensions(args.Languages...), args.Exclude...)
	if err != nil {
		return nil, 0, fmt.Errorf("get sources: %w", err)
	}

	return w.analyze(ctx, files, args.Parallel)
}

func (w *workflow) analyze(ctx context.Context, files []m.File, parallel int) ([]m.FileResult, int, error) {
	if parallel < 1 {
		parallel = 1
	}

	w.DisplayConcurrencyInfo(ctx, len(files), parallel)

	results := make([]m.FileResult, len(files))
	failed := make([]bool, len(files))

	var (
		skippedMu sync.Mutex
		skipped   int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)

	for i, file := range files {
		group.Go(func() error {
			result, err := w.AnalyzeFile(groupCtx, file)
			if err != nil {
				if ctxErr := groupCtx.Err(); ctxErr != nil {
					return ctxErr
				}

				slog.Warn("Skipping source file", "path", file.ShortPath, "error", err)

				skippedMu.Lock()
				skipped++
				skippedMu.Unlock()

				failed[i] = true

				w.DisplayFileResult(groupCtx, m.FileResult{File: file}, err)

				return nil
			}

			results[i] = result

			w.DisplayFileResult(groupCtx, result, nil)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, 0, err
	}

	analysed := make([]m.FileResult, 0, len(results))

	for i, result := range results {
		if !failed[i] {
			analysed = append(analysed, result)
		}
	}

	return analysed, skipped, nil
}

func (w *workflow) buildReport(results []m.FileResult, skippedFiles int) m.Report {
	report := m.Report{
		Created:  w.now().UTC(),
		Summary:  m.Summary{Files: len(results), SkippedFiles: skippedFiles},
		Findings: []m.Finding{},
	}

	for _, result := range results {
		report.Summary.Units += len(result.Units)
		report.Summary.SkippedUnits += result.Skipped

		for _, unit := range result.Units {
			if finding, ok := rule.Check(unit.Unit); ok {
				report.Findings = append(report.Findings, finding)
			}
		}
	}

	SortFindings(report.Findings)
	report.Summary.Violations = len(report.Findings)

	return report
}

// SortFindings orders findings by path, line and name.
func SortFindings(findings []m.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i].Identity, findings[j].Identity
		if a.Path != b.Path {
			return a.Path < b.Path
		}

		if a.Line != b.Line {
			return a.Line < b.Line
		}

		return a.Name < b.Name
	})
}
