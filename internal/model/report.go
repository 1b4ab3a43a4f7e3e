package model

import "time"

// Verdict is the outcome of evaluating one unit.
type Verdict int

const (
	// Pass means the unit is justified and produces no output.
	Pass Verdict = iota
	// Violation means the unit only holds constants.
	Violation
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case Violation:
		return "violation"
	}

	return "unknown"
}

// RuleID names the single rule this tool implements.
const RuleID = "only-constants-in-type-or-file"

// Finding is a violation paired with the identity of the offending unit.
type Finding struct {
	Rule     string   `yaml:"rule"`
	Identity Identity `yaml:"identity"`
	Kind     Kind     `yaml:"-"`
	KindName string   `yaml:"kind"`
	Message  string   `yaml:"message"`
}

// UnitResult is the evaluated form of a unit, kept for listings.
type UnitResult struct {
	Unit    DeclarationUnit
	Verdict Verdict
}

// FileResult is the evaluation of every unit found in one source file.
type FileResult struct {
	File    File
	Units   []UnitResult
	Skipped int
}

// Violations returns the units of the file that failed the rule.
func (r FileResult) Violations() []DeclarationUnit {
	var out []DeclarationUnit

	for _, unit := range r.Units {
		if unit.Verdict == Violation {
			out = append(out, unit.Unit)
		}
	}

	return out
}

// Summary counts what a run looked at.
type Summary struct {
	Files        int `yaml:"files"`
	SkippedFiles int `yaml:"skipped_files"`
	Units        int `yaml:"units"`
	SkippedUnits int `yaml:"skipped_units"`
	Violations   int `yaml:"violations"`
}

// Report is the persisted outcome of a check run.
type Report struct {
	RunID    string    `yaml:"run_id"`
	Created  time.Time `yaml:"created"`
	Summary  Summary   `yaml:"summary"`
	Findings []Finding `yaml:"findings"`
}
