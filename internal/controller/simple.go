package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	m "constscan.dev/pkg/constscan/internal/model"
)

// SimpleUI implements UI by printing to the command's output stream.
type SimpleUI struct {
	cmd    *cobra.Command
	format Format

	mu sync.Mutex
}

// NewSimpleUI creates a new SimpleUI rendering reports in format.
func NewSimpleUI(cmd *cobra.Command, format Format) *SimpleUI {
	if format == "" {
		format = FormatTable
	}

	return &SimpleUI{cmd: cmd, format: format}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if newStartConfig(options...).Mode() == ModeWatch {
		s.printf("Watching for changes, press Ctrl+C to stop\n")
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayConcurrencyInfo shows how many files are analysed and by how many workers.
func (s *SimpleUI) DisplayConcurrencyInfo(ctx context.Context, files int, parallel int) {
	if err := ctx.Err(); err != nil {
		return
	}

	// Structured output stays parseable.
	if s.format == FormatYAML {
		return
	}

	s.printf("Analysing %d file(s) with %d worker(s)\n", files, parallel)
}

// DisplayFileResult reports files that could not be analysed.
func (s *SimpleUI) DisplayFileResult(ctx context.Context, result m.FileResult, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return
	}

	if err != nil {
		s.errorf("skipped %s: %v\n", result.File.ShortPath, err)
	}
}

// DisplayReport prints the findings of a run.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := renderReport(report, s.format)
	if err != nil {
		return err
	}

	if s.format == FormatTable && len(report.Findings) > 0 {
		s.printf("\n")
	}

	s.printf("%s", out)

	return nil
}

// DisplayUnits prints every unit with its kind, member counts and verdict.
func (s *SimpleUI) DisplayUnits(ctx context.Context, results []m.FileResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderUnitsTable(results))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) errorf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), format, args...)
}
