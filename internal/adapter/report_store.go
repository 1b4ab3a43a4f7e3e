package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	m "constscan.dev/pkg/constscan/internal/model"
)

// ReportFileName is the file written inside the output directory.
const ReportFileName = "report.yaml"

// ErrNoReport is returned by LoadReport when nothing was persisted yet.
var ErrNoReport = errors.New("no report found")

// ReportStore persists the outcome of a check run.
type ReportStore interface {
	SaveReport(dir m.Path, report m.Report) error
	LoadReport(dir m.Path) (m.Report, error)
}

// YAMLReportStore keeps the latest report as YAML under the output directory.
type YAMLReportStore struct {
	now func() time.Time
}

// NewYAMLReportStore creates a store stamping reports with the wall clock.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{now: time.Now}
}

// SaveReport writes report to <dir>/report.yaml, replacing any previous run.
// A missing run id or creation time is filled in.
func (s *YAMLReportStore) SaveReport(dir m.Path, report m.Report) error {
	if report.RunID == "" {
		report.RunID = uuid.NewString()
	}

	if report.Created.IsZero() {
		report.Created = s.now().UTC()
	}

	if report.Findings == nil {
		report.Findings = []m.Finding{}
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	target := filepath.Join(string(dir), ReportFileName)

	tmp, err := os.CreateTemp(string(dir), ReportFileName+".*")
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write report: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close report: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace report: %w", err)
	}

	return nil
}

// LoadReport reads <dir>/report.yaml. Kinds are restored from their names.
func (s *YAMLReportStore) LoadReport(dir m.Path) (m.Report, error) {
	path := filepath.Join(string(dir), ReportFileName)

	// #nosec G304 - path is built from the configured output directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m.Report{}, fmt.Errorf("%w in %s", ErrNoReport, dir)
		}

		return m.Report{}, fmt.Errorf("read report: %w", err)
	}

	var report m.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("unmarshal report %s: %w", path, err)
	}

	for i := range report.Findings {
		kind, err := m.ParseKind(report.Findings[i].KindName)
		if err != nil {
			return m.Report{}, fmt.Errorf("report %s: %w", path, err)
		}

		report.Findings[i].Kind = kind
	}

	return report, nil
}
