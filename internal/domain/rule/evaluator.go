package rule

import (
	"fmt"

	m "constscan.dev/pkg/constscan/internal/model"
)

// Evaluate decides whether a unit is a pure constant container. It is total
// and deterministic: the same unit always yields the same verdict.
func Evaluate(unit m.DeclarationUnit) m.Verdict {
	if IsExempt(unit.Kind) {
		return m.Pass
	}

	if justifyingMembers(unit.Members) > 0 {
		return m.Pass
	}

	return m.Violation
}

// Check evaluates a unit and, for violations, builds the finding that goes to
// the diagnostic sink. Passing units return false.
func Check(unit m.DeclarationUnit) (m.Finding, bool) {
	if Evaluate(unit) != m.Violation {
		return m.Finding{}, false
	}

	return m.Finding{
		Rule:     m.RuleID,
		Identity: unit.Identity,
		Kind:     unit.Kind,
		KindName: unit.Kind.String(),
		Message:  message(unit),
	}, true
}

func justifyingMembers(members []m.Member) int {
	count := 0

	for _, member := range members {
		if justifies(member.Role) {
			count++
		}
	}

	return count
}

func message(unit m.DeclarationUnit) string {
	name := unit.Identity.Name

	switch {
	case unit.Kind == m.FileScope:
		return fmt.Sprintf("file-level declarations of %s contain only constants; move them into the type that uses them", name)
	case len(unit.Members) == 0:
		return fmt.Sprintf("%s declares no members", name)
	case unit.Kind == m.SingletonObject:
		return fmt.Sprintf("object %s contains only constants; declare them at top level", name)
	default:
		return fmt.Sprintf("type %s contains only constants; declare them at top level", name)
	}
}
