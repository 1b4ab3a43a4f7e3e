package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	m "constscan.dev/pkg/constscan/internal/model"
)

// Format selects how reports are rendered.
type Format string

// Supported report formats.
const (
	FormatTable Format = "table"
	FormatText  Format = "text"
	FormatYAML  Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatText, FormatYAML}

// ParseFormat validates a format name. An empty name selects the table.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatText:
		return FormatText, nil
	case FormatYAML:
		return FormatYAML, nil
	}

	return "", fmt.Errorf("unknown format %q (want table, text or yaml)", name)
}

// renderReport renders report in the given format.
func renderReport(report m.Report, format Format) (string, error) {
	switch format {
	case FormatText:
		return renderFindingsText(report), nil
	case FormatYAML:
		out, err := yaml.Marshal(report)
		if err != nil {
			return "", fmt.Errorf("encode report: %w", err)
		}

		return string(out), nil
	case FormatTable:
		return renderFindingsTable(report), nil
	}

	return "", fmt.Errorf("unknown format %q", format)
}

// FindingLine is the one-line diagnostic of a finding.
func FindingLine(finding m.Finding) string {
	return fmt.Sprintf("%s: %s contains only constants", finding.Identity.Path, finding.Identity.Name)
}

func renderFindingsText(report m.Report) string {
	var b strings.Builder

	for _, finding := range report.Findings {
		b.WriteString(FindingLine(finding))
		b.WriteString("\n")
	}

	b.WriteString(summaryLine(report.Summary))
	b.WriteString("\n")

	return b.String()
}

func renderFindingsTable(report m.Report) string {
	if len(report.Findings) == 0 {
		return summaryLine(report.Summary) + "\n"
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Line", "Unit", "Kind", "Message"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	for _, finding := range report.Findings {
		table.Append([]string{
			string(finding.Identity.Path),
			lineLabel(finding.Identity.Line),
			finding.Identity.Name,
			finding.KindName,
			finding.Message,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Files %d", report.Summary.Files),
		"",
		fmt.Sprintf("Units %d", report.Summary.Units),
		"",
		fmt.Sprintf("Violations %d", report.Summary.Violations),
	})

	table.Render()

	return tableBuffer.String()
}

// renderUnitsTable lists every unit with its member counts per role.
func renderUnitsTable(results []m.FileResult) string {
	var tableBuffer bytes.Buffer

	header := []string{"Path", "Line", "Unit", "Kind"}
	for _, role := range m.Roles {
		header = append(header, role.String())
	}

	header = append(header, "Verdict")

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	alignment := []int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER}
	for range m.Roles {
		alignment = append(alignment, tablewriter.ALIGN_RIGHT)
	}

	table.SetColumnAlignment(append(alignment, tablewriter.ALIGN_CENTER))

	units, violations := 0, 0

	for _, result := range results {
		for _, unit := range result.Units {
			counts := unit.Unit.RoleCounts()

			row := []string{
				string(unit.Unit.Identity.Path),
				lineLabel(unit.Unit.Identity.Line),
				unit.Unit.Identity.Name,
				unit.Unit.Kind.String(),
			}
			for _, role := range m.Roles {
				row = append(row, fmt.Sprintf("%d", counts[role]))
			}

			table.Append(append(row, unit.Verdict.String()))

			units++

			if unit.Verdict == m.Violation {
				violations++
			}
		}
	}

	footer := []string{fmt.Sprintf("Total Files %d", len(results)), "", fmt.Sprintf("%d units", units), ""}
	for range m.Roles {
		footer = append(footer, "")
	}

	table.SetFooter(append(footer, fmt.Sprintf("%d violations", violations)))
	table.Render()

	return tableBuffer.String()
}

func summaryLine(summary m.Summary) string {
	line := fmt.Sprintf("%d violation(s) in %d unit(s) across %d file(s)", summary.Violations, summary.Units, summary.Files)

	if summary.SkippedFiles > 0 || summary.SkippedUnits > 0 {
		line += fmt.Sprintf(" (skipped %d file(s), %d unit(s))", summary.SkippedFiles, summary.SkippedUnits)
	}

	return line
}

func lineLabel(line int) string {
	if line <= 0 {
		return "-"
	}

	return fmt.Sprintf("%d", line)
}
