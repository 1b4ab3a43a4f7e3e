// Package rule holds the only-constants rule: normalizing syntax trees into
// declaration units and deciding which units are pure constant containers.
package rule

import (
	m "constscan.dev/pkg/constscan/internal/model"
)

// IsExempt reports whether units of the given kind always pass, whatever
// their members are. Adding an exempt shape means adding a Kind and listing
// it here.
func IsExempt(kind m.Kind) bool {
	switch kind {
	case m.SealedBase, m.DataHolder, m.EnumType, m.InterfaceType:
		return true
	case m.OrdinaryType, m.SingletonObject, m.FileScope:
		return false
	}

	return false
}

// ExemptKinds returns the kinds IsExempt accepts, in declaration order.
func ExemptKinds() []m.Kind {
	kinds := make([]m.Kind, 0, len(m.Kinds))
	for _, kind := range m.Kinds {
		if IsExempt(kind) {
			kinds = append(kinds, kind)
		}
	}

	return kinds
}

// justifies reports whether a member role counts as behavior or state.
func justifies(role m.Role) bool {
	switch role {
	case m.InstanceField, m.Method, m.NestedType:
		return true
	case m.Constant:
		return false
	}

	// Unknown roles are treated as state so they never cause a report.
	return true
}
