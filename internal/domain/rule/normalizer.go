package rule

import (
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	m "constscan.dev/pkg/constscan/internal/model"
)

// Normalize converts a syntax tree into declaration units: one per nominal
// type, plus one FileScope unit when the file has top-level declarations
// outside any type. Units are produced lazily and the sequence can be
// abandoned at any point.
//
// A non-nil error wraps ErrUnclassifiableUnit; the declaration (and anything
// nested in it) is skipped and the paired unit is the zero value. Unparsable
// top-level regions are reported the same way.
func Normalize(file m.SyntaxFile) iter.Seq2[m.DeclarationUnit, error] {
	return func(yield func(m.DeclarationUnit, error) bool) {
		n := normalizer{file: file, yield: yield}

		for _, decl := range file.Decls {
			if decl.Form == m.FormUnknown {
				err := fmt.Errorf("%s:%d: %w: syntax error", file.Path, decl.Line, ErrUnclassifiableUnit)
				if !yield(m.DeclarationUnit{}, err) {
					return
				}

				continue
			}

			if !decl.Form.IsType() {
				continue
			}

			if !n.unit(decl, file.Package, nil) {
				return
			}
		}

		n.fileScope()
	}
}

// Units drains Normalize, dropping unclassifiable declarations. It returns the
// units together with the number of skipped declarations.
func Units(file m.SyntaxFile) ([]m.DeclarationUnit, int) {
	var (
		units   []m.DeclarationUnit
		skipped int
	)

	for unit, err := range Normalize(file) {
		if err != nil {
			slog.Warn("Skipping unclassifiable declaration", "path", file.Path, "error", err)

			skipped++

			continue
		}

		units = append(units, unit)
	}

	return units, skipped
}

type normalizer struct {
	file  m.SyntaxFile
	yield func(m.DeclarationUnit, error) bool
}

// sealedParent is the enclosing sealed base of a nested declaration.
type sealedParent struct {
	name string
}

// unit emits the unit for decl and then for every type nested in it,
// including types declared inside its companion. It returns false once the
// consumer stops.
func (n *normalizer) unit(decl m.Decl, outer string, parent *sealedParent) bool {
	kind, err := classifyKind(n.file.Language, decl)
	if err != nil {
		return n.yield(m.DeclarationUnit{}, fmt.Errorf("%s: %w", n.file.Path, err))
	}

	// Subtypes declared inside their sealed base belong to the closed hierarchy.
	if parent != nil && decl.Extends(parent.name) && (kind == m.OrdinaryType || kind == m.SingletonObject) {
		kind = m.SealedBase
	}

	name := qualify(outer, decl.Name)

	unit := m.DeclarationUnit{
		Kind:     kind,
		Members:  n.members(decl),
		Identity: m.Identity{Path: n.file.Path, Name: name, Line: decl.Line},
	}

	if !n.yield(unit, nil) {
		return false
	}

	var inner *sealedParent
	if kind == m.SealedBase && decl.HasModifier("sealed") {
		inner = &sealedParent{name: decl.Name}
	}

	for _, nested := range nestedTypes(decl) {
		if !n.unit(nested, name, inner) {
			return false
		}
	}

	return true
}

// members classifies the direct members of a type, folding any companion
// object's members in with their own roles.
func (n *normalizer) members(decl m.Decl) []m.Member {
	sc := bodyScope(n.file.Language, decl)
	members := make([]m.Member, 0, len(decl.Members))

	if ctor := decl.PrimaryConstructor; ctor != nil {
		for _, property := range ctor.Members {
			members = n.appendMember(members, instanceScope, property)
		}

		members = n.appendMember(members, instanceScope, *ctor)
	}

	for _, child := range decl.Members {
		if child.Form == m.FormCompanion {
			for _, folded := range child.Members {
				members = n.appendMember(members, singletonScope, folded)
			}

			continue
		}

		members = n.appendMember(members, sc, child)
	}

	return members
}

func (n *normalizer) appendMember(members []m.Member, sc scope, decl m.Decl) []m.Member {
	class := classifyMember(n.file.Language, sc, decl)
	if !class.include {
		return members
	}

	if class.malformed {
		slog.Debug("Down-classified member with conflicting qualifiers",
			"path", n.file.Path, "member", decl.Name, "modifiers", decl.Modifiers)
	}

	return append(members, m.Member{Name: decl.Name, Role: class.role})
}

// fileScope emits the implicit unit made of the file's top-level non-type
// declarations, if there are any.
func (n *normalizer) fileScope() {
	var members []m.Member

	for _, decl := range n.file.Decls {
		if decl.Form.IsType() || decl.Form == m.FormUnknown {
			continue
		}

		members = n.appendMember(members, singletonScope, decl)
	}

	if len(members) == 0 {
		return
	}

	n.yield(m.DeclarationUnit{
		Kind:     m.FileScope,
		Members:  members,
		Identity: m.Identity{Path: n.file.Path, Name: qualify(n.file.Package, FacadeName(n.file.Path))},
	}, nil)
}

// bodyScope returns the scope of a type's own body.
func bodyScope(lang m.Language, decl m.Decl) scope {
	if decl.Form == m.FormObject || decl.Form == m.FormCompanion {
		return singletonScope
	}

	if lang == m.LanguageJava && (decl.Form == m.FormInterface || decl.Form == m.FormAnnotation) {
		return contractScope
	}

	return instanceScope
}

// nestedTypes lists the types declared in decl's body, looking through a
// companion object since it never forms a unit of its own.
func nestedTypes(decl m.Decl) []m.Decl {
	var nested []m.Decl

	for _, child := range decl.Members {
		if child.Form == m.FormCompanion {
			nested = append(nested, nestedTypes(child)...)
			continue
		}

		if child.Form.IsType() {
			nested = append(nested, child)
		}
	}

	return nested
}

// FacadeName is the synthetic class name of a file's top-level scope,
// following the Kotlin convention: "string_utils.kt" becomes "String_utilsKt".
func FacadeName(path m.Path) string {
	base := filepath.Base(string(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	r, size := utf8.DecodeRuneInString(base)
	if r == utf8.RuneError {
		return "FileKt"
	}

	return string(unicode.ToUpper(r)) + base[size:] + "Kt"
}

func qualify(outer, name string) string {
	if outer == "" {
		return name
	}

	return outer + "." + name
}
