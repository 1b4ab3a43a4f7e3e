package model

import (
	"fmt"
	"strings"
)

// Kind is the normalized shape of a declaration unit. It decides which
// exemptions apply.
type Kind int

const (
	// OrdinaryType is a plain class.
	OrdinaryType Kind = iota
	// SingletonObject is a Kotlin object.
	SingletonObject
	// SealedBase is a sealed class or interface.
	SealedBase
	// DataHolder is a data class, value class or record.
	DataHolder
	// EnumType is an enum.
	EnumType
	// InterfaceType is an interface or annotation type.
	InterfaceType
	// FileScope is the implicit unit of a file's top-level declarations.
	FileScope
)

var kindNames = [...]string{
	OrdinaryType:    "ordinary",
	SingletonObject: "object",
	SealedBase:      "sealed",
	DataHolder:      "data",
	EnumType:        "enum",
	InterfaceType:   "interface",
	FileScope:       "file",
}

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{OrdinaryType, SingletonObject, SealedBase, DataHolder, EnumType, InterfaceType, FileScope}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// ParseKind converts a name produced by Kind.String back into a Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kinds {
		if kindNames[k] == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("unknown unit kind %q", name)
}

// Role is the part a member plays inside its unit.
type Role int

const (
	// Constant is a static final field, const val, or singleton-scoped val.
	Constant Role = iota
	// InstanceField is any other field, including private ones.
	InstanceField
	// Method is a function, method, constructor with parameters, or initializer.
	Method
	// NestedType is a nested class, interface, enum or object.
	NestedType
)

var roleNames = [...]string{
	Constant:      "constant",
	InstanceField: "field",
	Method:        "method",
	NestedType:    "type",
}

// Roles lists every Role in declaration order.
var Roles = []Role{Constant, InstanceField, Method, NestedType}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("Role(%d)", int(r))
	}

	return roleNames[r]
}

// Member is a direct declaration owned by a unit.
type Member struct {
	Name string
	Role Role
}

// Identity points back to the source unit for reporting. It carries no
// semantic weight in the rule.
type Identity struct {
	Path Path   `yaml:"path"`
	Name string `yaml:"name"`
	Line int    `yaml:"line,omitempty"`
}

func (id Identity) String() string {
	if id.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", id.Path, id.Line, id.Name)
	}

	return fmt.Sprintf("%s: %s", id.Path, id.Name)
}

// DeclarationUnit is the language-neutral subject of evaluation.
type DeclarationUnit struct {
	Kind     Kind
	Members  []Member
	Identity Identity
}

// RoleCounts returns how many members the unit has per role.
func (u DeclarationUnit) RoleCounts() map[Role]int {
	counts := make(map[Role]int, len(Roles))
	for _, member := range u.Members {
		counts[member.Role]++
	}

	return counts
}
