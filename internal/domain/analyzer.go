package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"constscan.dev/pkg/constscan/internal/adapter"
	"constscan.dev/pkg/constscan/internal/domain/rule"
	m "constscan.dev/pkg/constscan/internal/model"
)

// ErrUnsupportedFile is returned for files no registered parser understands.
var ErrUnsupportedFile = errors.New("unsupported source file")

// Analyzer runs the rule over a single source file: read, parse, normalize
// into declaration units, evaluate each unit.
type Analyzer interface {
	AnalyzeFile(ctx context.Context, file m.File) (m.FileResult, error)
}

type analyzer struct {
	fsAdapter adapter.SourceFSAdapter
	parsers   adapter.ParserLookup
}

// NewAnalyzer constructs an Analyzer backed by the provided filesystem
// adapter and parser lookup.
func NewAnalyzer(fsAdapter adapter.SourceFSAdapter, parsers adapter.ParserLookup) Analyzer {
	return &analyzer{
		fsAdapter: fsAdapter,
		parsers:   parsers,
	}
}

func (a *analyzer) AnalyzeFile(ctx context.Context, file m.File) (m.FileResult, error) {
	if err := ctx.Err(); err != nil {
		return m.FileResult{}, err
	}

	parser, ok := a.parsers.ForPath(file.FullPath)
	if !ok {
		return m.FileResult{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, file.ShortPath)
	}

	content, err := a.fsAdapter.ReadFile(file.FullPath)
	if err != nil {
		return m.FileResult{}, fmt.Errorf("read %s: %w", file.ShortPath, err)
	}

	syntax, err := parser.Parse(ctx, reportPath(file), content)
	if err != nil {
		return m.FileResult{}, fmt.Errorf("parse %s: %w", file.ShortPath, err)
	}

	units, skipped := rule.Units(syntax)

	result := m.FileResult{
		File:    file,
		Units:   make([]m.UnitResult, 0, len(units)),
		Skipped: skipped,
	}

	for _, unit := range units {
		verdict := rule.Evaluate(unit)
		result.Units = append(result.Units, m.UnitResult{Unit: unit, Verdict: verdict})

		if verdict == m.Violation {
			slog.Debug("Unit contains only constants",
				"path", unit.Identity.Path, "unit", unit.Identity.Name, "kind", unit.Kind.String())
		}
	}

	return result, nil
}

// reportPath is the path units carry in their identity: the short path when
// known, so reports stay relative to the working directory.
func reportPath(file m.File) m.Path {
	if file.ShortPath != "" {
		return file.ShortPath
	}

	return file.FullPath
}
