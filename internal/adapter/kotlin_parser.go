package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"

	m "constscan.dev/pkg/constscan/internal/model"
)

// KotlinParser builds declaration trees from Kotlin sources and scripts with
// tree-sitter.
type KotlinParser struct {
	language *sitter.Language
}

// NewKotlinParser creates a Kotlin front end.
func NewKotlinParser() *KotlinParser {
	return &KotlinParser{language: kotlin.GetLanguage()}
}

// Language returns m.LanguageKotlin.
func (p *KotlinParser) Language() m.Language {
	return m.LanguageKotlin
}

// Extensions returns the Kotlin source and script extensions.
func (p *KotlinParser) Extensions() []string {
	return []string{".kt", ".kts"}
}

// Parse builds the declaration tree of one Kotlin file.
func (p *KotlinParser) Parse(ctx context.Context, path m.Path, content []byte) (m.SyntaxFile, error) {
	tree, err := parseTree(ctx, p.language, content)
	if err != nil {
		return m.SyntaxFile{}, fmt.Errorf("parse kotlin file %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		slog.Debug("Kotlin source has syntax errors", "path", path)
	}

	w := kotlinWalker{content: content}
	file := m.SyntaxFile{Path: path, Language: m.LanguageKotlin}

	var body []*sitter.Node

	for _, child := range namedChildren(root) {
		if child.Type() == "package_header" {
			if name := firstChildOfType(child, "identifier"); name != nil {
				file.Package = strings.Join(strings.Fields(nodeText(name, content)), "")
			}

			continue
		}

		body = append(body, child)
	}

	if root.Type() == errorNodeType {
		file.Decls = []m.Decl{unknownDecl(root)}

		return file, nil
	}

	file.Decls = w.decls(body)

	return file, nil
}

type kotlinWalker struct {
	content []byte
}

// decls converts a sequence of body-level nodes. The grammar emits a custom
// getter or setter as a sibling following its property_declaration.
func (w kotlinWalker) decls(nodes []*sitter.Node) []m.Decl {
	var decls []m.Decl

	for _, node := range nodes {
		switch node.Type() {
		case "getter", "setter":
			if last := len(decls) - 1; last >= 0 && decls[last].Form == m.FormProperty {
				decls[last].HasAccessors = true
			}

			continue
		case errorNodeType:
			decls = append(decls, unknownDecl(node))

			continue
		}

		if decl, ok := w.decl(node); ok {
			decls = append(decls, decl)
		}
	}

	return decls
}

func (w kotlinWalker) decl(node *sitter.Node) (m.Decl, bool) {
	switch node.Type() {
	case "class_declaration":
		return w.classDecl(node), true
	case "object_declaration":
		form := m.FormObject
		if w.modifiers(node).has("companion") {
			form = m.FormCompanion
		}

		return w.typeDecl(node, form), true
	case "companion_object":
		return w.typeDecl(node, m.FormCompanion), true
	case "property_declaration":
		return w.property(node), true
	case "function_declaration":
		return w.callable(node, m.FormFunction, firstChildOfType(node, "simple_identifier")), true
	case "secondary_constructor":
		return w.callable(node, m.FormConstructor, nil), true
	case "anonymous_initializer":
		return m.Decl{Form: m.FormInitializer, Name: "init", Line: nodeLine(node)}, true
	case "type_alias":
		return m.Decl{
			Form: m.FormTypeAlias,
			Name: nodeText(firstChildOfType(node, "type_identifier"), w.content),
			Line: nodeLine(node),
		}, true
	}

	return m.Decl{}, false
}

// classDecl distinguishes class, interface, enum and annotation class. The
// enum keyword appears either as a modifier or as a token of the declaration
// depending on the grammar revision.
func (w kotlinWalker) classDecl(node *sitter.Node) m.Decl {
	mods := w.modifiers(node)

	form := m.FormClass

	switch {
	case hasToken(node, "interface"):
		form = m.FormInterface
	case hasToken(node, "enum") || mods.has("enum") || firstChildOfType(node, "enum_class_body") != nil:
		form = m.FormEnum
	case mods.has("annotation"):
		form = m.FormAnnotation
	}

	decl := w.typeDecl(node, form)

	if ctor := firstChildOfType(node, "primary_constructor"); ctor != nil {
		primary := w.primaryConstructor(ctor)
		decl.PrimaryConstructor = &primary
	}

	return decl
}

func (w kotlinWalker) typeDecl(node *sitter.Node, form m.Form) m.Decl {
	mods := w.modifiers(node)

	decl := m.Decl{
		Form:        form,
		Name:        nodeText(firstChildOfType(node, "type_identifier", "simple_identifier"), w.content),
		Line:        nodeLine(node),
		Modifiers:   mods.words,
		Annotations: mods.annotations,
		Supertypes:  w.supertypes(node),
	}

	if form == m.FormCompanion && decl.Name == "" {
		decl.Name = "Companion"
	}

	decl.Members = w.decls(namedChildren(firstChildOfType(node, "class_body", "enum_class_body")))
	decl.Members = append(decl.Members, errorDecls(node)...)

	return decl
}

// supertypes returns the simple names of the delegation specifiers after ':'.
func (w kotlinWalker) supertypes(node *sitter.Node) []string {
	var names []string

	var collect func(n *sitter.Node)
	collect = func(n *sitter.Node) {
		for _, child := range namedChildren(n) {
			switch child.Type() {
			case "delegation_specifiers":
				collect(child)
			case "delegation_specifier", "annotated_delegation_specifier":
				if name := w.userTypeName(findDescendant(child, "user_type")); name != "" {
					names = append(names, name)
				}
			}
		}
	}

	collect(node)

	return names
}

// userTypeName returns the last segment of a possibly qualified user type:
// "a.b.Base<T>" becomes "Base".
func (w kotlinWalker) userTypeName(node *sitter.Node) string {
	children := namedChildren(node)
	for i := len(children) - 1; i >= 0; i-- {
		if children[i].Type() == "type_identifier" {
			return nodeText(children[i], w.content)
		}
	}

	return ""
}

func (w kotlinWalker) primaryConstructor(node *sitter.Node) m.Decl {
	mods := w.modifiers(node)

	ctor := m.Decl{
		Form:        m.FormConstructor,
		Name:        "<init>",
		Line:        nodeLine(node),
		Modifiers:   mods.words,
		Annotations: mods.annotations,
	}

	for _, param := range classParameters(node) {
		ctor.Params++

		binding := w.binding(param)
		if binding == "" {
			continue
		}

		paramMods := w.modifiers(param)

		ctor.Members = append(ctor.Members, m.Decl{
			Form:        m.FormProperty,
			Name:        nodeText(firstChildOfType(param, "simple_identifier"), w.content),
			Line:        nodeLine(param),
			Modifiers:   paramMods.words,
			Annotations: paramMods.annotations,
			Binding:     binding,
		})
	}

	return ctor
}

// classParameters finds the class_parameter nodes of a primary constructor,
// whether or not the grammar wraps them in a class_parameters node.
func classParameters(node *sitter.Node) []*sitter.Node {
	var params []*sitter.Node

	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "class_parameter":
			params = append(params, child)
		case "class_parameters":
			params = append(params, classParameters(child)...)
		}
	}

	return params
}

func (w kotlinWalker) property(node *sitter.Node) m.Decl {
	mods := w.modifiers(node)

	name := ""
	if variable := firstChildOfType(node, "variable_declaration"); variable != nil {
		name = nodeText(firstChildOfType(variable, "simple_identifier"), w.content)
	} else if multi := firstChildOfType(node, "multi_variable_declaration"); multi != nil {
		name = nodeText(multi, w.content)
	}

	return m.Decl{
		Form:         m.FormProperty,
		Name:         name,
		Line:         nodeLine(node),
		Modifiers:    mods.words,
		Annotations:  mods.annotations,
		Binding:      w.binding(node),
		HasAccessors: firstChildOfType(node, "getter", "setter") != nil,
	}
}

// binding returns "val" or "var" for a property or constructor parameter.
func (w kotlinWalker) binding(node *sitter.Node) string {
	if kind := firstChildOfType(node, "binding_pattern_kind"); kind != nil {
		return strings.TrimSpace(nodeText(kind, w.content))
	}

	switch {
	case hasToken(node, "val"):
		return "val"
	case hasToken(node, "var"):
		return "var"
	}

	return ""
}

func (w kotlinWalker) callable(node *sitter.Node, form m.Form, name *sitter.Node) m.Decl {
	mods := w.modifiers(node)

	decl := m.Decl{
		Form:        form,
		Name:        nodeText(name, w.content),
		Line:        nodeLine(node),
		Modifiers:   mods.words,
		Annotations: mods.annotations,
	}

	if form == m.FormConstructor {
		decl.Name = "constructor"
	}

	for _, param := range namedChildren(firstChildOfType(node, "function_value_parameters")) {
		switch param.Type() {
		case "parameter", "function_value_parameter":
			decl.Params++
		}
	}

	return decl
}

type kotlinModifiers struct {
	words       []string
	annotations []string
}

func (k kotlinModifiers) has(word string) bool {
	for _, w := range k.words {
		if w == word {
			return true
		}
	}

	return false
}

func (w kotlinWalker) modifiers(node *sitter.Node) kotlinModifiers {
	words, annotations := modifierWords(firstChildOfType(node, "modifiers", "parameter_modifiers"), w.content)

	return kotlinModifiers{words: words, annotations: annotations}
}
