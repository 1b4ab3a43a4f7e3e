package rule

import (
	"errors"
	"fmt"

	m "constscan.dev/pkg/constscan/internal/model"
)

// ErrUnclassifiableUnit is returned when a declaration's shape does not map to
// any unit kind. The unit is skipped, never reported.
var ErrUnclassifiableUnit = errors.New("unclassifiable unit")

// scope tells member classification where a declaration lives.
type scope int

const (
	// instanceScope is the body of a class, interface or enum.
	instanceScope scope = iota
	// singletonScope is the body of an object or companion, or a file's top level.
	singletonScope
	// contractScope is the body of a Java interface or annotation type,
	// where fields are implicitly static and final.
	contractScope
)

// memberClass is the outcome of classifying one declaration as a member.
type memberClass struct {
	role      m.Role
	include   bool // false for declarations that are not members (type aliases, no-arg constructors)
	malformed bool // contradictory qualifiers were down-classified
}

func member(role m.Role) memberClass {
	return memberClass{role: role, include: true}
}

func skip() memberClass {
	return memberClass{}
}

func malformed() memberClass {
	return memberClass{role: m.InstanceField, include: true, malformed: true}
}

// classifyKind picks the unit kind for a nominal type declaration.
func classifyKind(lang m.Language, decl m.Decl) (m.Kind, error) {
	if decl.Name == "" {
		return 0, fmt.Errorf("%w: %s without a name", ErrUnclassifiableUnit, decl.Form)
	}

	if decl.HasModifier("sealed") && (decl.Form == m.FormClass || decl.Form == m.FormInterface) {
		return m.SealedBase, nil
	}

	//nolint:exhaustive // member forms fall through to the error below
	switch decl.Form {
	case m.FormObject:
		return m.SingletonObject, nil
	case m.FormEnum:
		return m.EnumType, nil
	case m.FormInterface, m.FormAnnotation:
		return m.InterfaceType, nil
	case m.FormRecord:
		return m.DataHolder, nil
	case m.FormClass:
		if isDataHolder(lang, decl) {
			return m.DataHolder, nil
		}

		return m.OrdinaryType, nil
	case m.FormCompanion:
		return 0, fmt.Errorf("%w: companion %s outside a class", ErrUnclassifiableUnit, decl.Name)
	}

	return 0, fmt.Errorf("%w: %s %s", ErrUnclassifiableUnit, decl.Form, decl.Name)
}

// isDataHolder reports whether a class exists to carry state: Kotlin data and
// value classes, or a class whose primary constructor only declares
// properties and which has no body of its own.
func isDataHolder(lang m.Language, decl m.Decl) bool {
	if lang != m.LanguageKotlin {
		return false
	}

	if decl.HasModifier("data") || decl.HasModifier("value") || decl.HasModifier("inline") {
		return true
	}

	ctor := decl.PrimaryConstructor
	if ctor == nil || len(ctor.Members) == 0 || len(decl.Members) > 0 {
		return false
	}

	return ctor.Params == len(ctor.Members)
}

// classifyMember maps one direct declaration to its member role.
func classifyMember(lang m.Language, sc scope, decl m.Decl) memberClass {
	switch decl.Form {
	case m.FormField:
		return classifyField(sc, decl)
	case m.FormProperty:
		return classifyProperty(lang, sc, decl)
	case m.FormFunction, m.FormInitializer:
		return member(m.Method)
	case m.FormConstructor:
		if decl.Params > 0 {
			return member(m.Method)
		}

		return skip()
	case m.FormTypeAlias:
		return skip()
	case m.FormUnknown:
		return malformed()
	case m.FormClass, m.FormInterface, m.FormObject, m.FormCompanion, m.FormEnum, m.FormRecord, m.FormAnnotation:
		return member(m.NestedType)
	}

	return malformed()
}

// classifyField handles Java fields: static final is a constant, interface
// fields are implicitly static final, anything else is state.
func classifyField(sc scope, decl m.Decl) memberClass {
	if decl.HasModifier("volatile") && (decl.HasModifier("final") || sc == contractScope) {
		return malformed()
	}

	if sc == contractScope {
		return member(m.Constant)
	}

	if decl.HasModifier("static") && decl.HasModifier("final") {
		return member(m.Constant)
	}

	return member(m.InstanceField)
}

// classifyProperty handles Kotlin properties.
func classifyProperty(lang m.Language, sc scope, decl m.Decl) memberClass {
	isConst := decl.HasModifier("const")
	lateinit := decl.HasModifier("lateinit")
	immutable := decl.Binding == "val"

	if isConst && (!immutable || lateinit || decl.HasAccessors || sc != singletonScope) {
		return malformed()
	}

	if decl.HasAccessors {
		return member(m.Method)
	}

	if isConst {
		return member(m.Constant)
	}

	if lang == m.LanguageKotlin && sc == singletonScope && immutable && !lateinit {
		return member(m.Constant)
	}

	return member(m.InstanceField)
}
