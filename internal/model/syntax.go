package model

// Form is the syntactic shape of a declaration as reported by a front end.
type Form int

const (
	// FormUnknown marks a declaration the front end could not recognise.
	FormUnknown Form = iota
	// FormClass is a class declaration (Java or Kotlin).
	FormClass
	// FormInterface is an interface declaration.
	FormInterface
	// FormObject is a Kotlin object declaration.
	FormObject
	// FormCompanion is a Kotlin companion object.
	FormCompanion
	// FormEnum is an enum declaration (Java enum, Kotlin enum class).
	FormEnum
	// FormRecord is a Java record declaration.
	FormRecord
	// FormAnnotation is an annotation type declaration.
	FormAnnotation
	// FormField is a Java field.
	FormField
	// FormProperty is a Kotlin property.
	FormProperty
	// FormFunction is a method or function.
	FormFunction
	// FormConstructor is a constructor (Java constructor, Kotlin primary or secondary constructor).
	FormConstructor
	// FormInitializer is an initializer block (Java static/instance block, Kotlin init).
	FormInitializer
	// FormTypeAlias is a Kotlin typealias.
	FormTypeAlias
)

var formNames = map[Form]string{
	FormUnknown:     "unknown",
	FormClass:       "class",
	FormInterface:   "interface",
	FormObject:      "object",
	FormCompanion:   "companion",
	FormEnum:        "enum",
	FormRecord:      "record",
	FormAnnotation:  "annotation",
	FormField:       "field",
	FormProperty:    "property",
	FormFunction:    "function",
	FormConstructor: "constructor",
	FormInitializer: "initializer",
	FormTypeAlias:   "typealias",
}

func (f Form) String() string {
	if name, ok := formNames[f]; ok {
		return name
	}

	return formNames[FormUnknown]
}

// IsType reports whether the form declares a nominal type.
func (f Form) IsType() bool {
	switch f {
	case FormClass, FormInterface, FormObject, FormCompanion, FormEnum, FormRecord, FormAnnotation:
		return true
	case FormUnknown, FormField, FormProperty, FormFunction, FormConstructor, FormInitializer, FormTypeAlias:
		return false
	}

	return false
}

// Decl is one declaration in a front end's syntax tree. Only the structure the
// rule needs is kept: no expressions, types or imports.
type Decl struct {
	Form Form
	Name string
	Line int

	// Modifiers holds structural qualifiers in source order, lower-cased
	// (e.g. "public", "static", "final", "const", "sealed", "data", "lateinit").
	Modifiers []string
	// Annotations holds annotation names without the leading '@'.
	Annotations []string
	// Supertypes holds the simple names of extended or implemented types,
	// without type arguments.
	Supertypes []string

	// Binding is "val" or "var" for Kotlin properties and constructor properties.
	Binding string
	// Params is the declared parameter count of functions and constructors.
	Params int
	// HasAccessors is set for Kotlin properties with a custom getter or setter.
	HasAccessors bool

	// PrimaryConstructor is the Kotlin primary constructor, when present.
	// Its Members are the val/var constructor properties.
	PrimaryConstructor *Decl

	Members []Decl
}

// HasModifier reports whether the declaration carries the given qualifier.
func (d Decl) HasModifier(modifier string) bool {
	for _, m := range d.Modifiers {
		if m == modifier {
			return true
		}
	}

	return false
}

// Extends reports whether the declaration names the given simple type name
// among its supertypes.
func (d Decl) Extends(name string) bool {
	for _, supertype := range d.Supertypes {
		if supertype == name {
			return true
		}
	}

	return false
}

// SyntaxFile is the front end's view of one source file.
type SyntaxFile struct {
	Path     Path
	Language Language
	Package  string
	Decls    []Decl
}
