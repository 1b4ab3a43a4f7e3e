package adapter

import (
	"context"
	"fmt"
	"log/slog"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	m "constscan.dev/pkg/constscan/internal/model"
)

// JavaParser builds declaration trees from Java sources with tree-sitter.
type JavaParser struct {
	language *sitter.Language
}

// NewJavaParser creates a Java front end.
func NewJavaParser() *JavaParser {
	return &JavaParser{language: java.GetLanguage()}
}

// Language returns m.LanguageJava.
func (p *JavaParser) Language() m.Language {
	return m.LanguageJava
}

// Extensions returns the Java source extension.
func (p *JavaParser) Extensions() []string {
	return []string{".java"}
}

// Parse builds the declaration tree of one Java compilation unit. Syntax
// errors inside the file do not fail the parse; unparsable regions become
// m.FormUnknown declarations.
func (p *JavaParser) Parse(ctx context.Context, path m.Path, content []byte) (m.SyntaxFile, error) {
	tree, err := parseTree(ctx, p.language, content)
	if err != nil {
		return m.SyntaxFile{}, fmt.Errorf("parse java file %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		slog.Debug("Java source has syntax errors", "path", path)
	}

	w := javaWalker{content: content}
	file := m.SyntaxFile{Path: path, Language: m.LanguageJava}

	for _, child := range namedChildren(root) {
		if child.Type() == "package_declaration" {
			if name := firstChildOfType(child, "scoped_identifier", "identifier"); name != nil {
				file.Package = nodeText(name, content)
			}

			continue
		}

		file.Decls = append(file.Decls, w.decls(child)...)
	}

	if root.Type() == errorNodeType {
		file.Decls = []m.Decl{unknownDecl(root)}
	}

	return file, nil
}

type javaWalker struct {
	content []byte
}

// decls converts one body-level node. Field declarations yield one Decl per
// declarator, everything else at most one.
func (w javaWalker) decls(node *sitter.Node) []m.Decl {
	switch node.Type() {
	case "class_declaration":
		return []m.Decl{w.typeDecl(node, m.FormClass)}
	case "interface_declaration":
		return []m.Decl{w.typeDecl(node, m.FormInterface)}
	case "enum_declaration":
		return []m.Decl{w.typeDecl(node, m.FormEnum)}
	case "record_declaration":
		return []m.Decl{w.typeDecl(node, m.FormRecord)}
	case "annotation_type_declaration":
		return []m.Decl{w.typeDecl(node, m.FormAnnotation)}
	case "field_declaration", "constant_declaration":
		return w.fields(node)
	case "method_declaration", "annotation_type_element_declaration":
		return []m.Decl{w.callable(node, m.FormFunction)}
	case "constructor_declaration", "compact_constructor_declaration":
		return []m.Decl{w.callable(node, m.FormConstructor)}
	case "static_initializer", "block":
		return []m.Decl{{Form: m.FormInitializer, Name: "<init>", Line: nodeLine(node)}}
	case errorNodeType:
		return []m.Decl{unknownDecl(node)}
	}

	return nil
}

func (w javaWalker) typeDecl(node *sitter.Node, form m.Form) m.Decl {
	modifiers, annotations := modifierWords(firstChildOfType(node, "modifiers"), w.content)

	decl := m.Decl{
		Form:        form,
		Name:        nodeText(node.ChildByFieldName("name"), w.content),
		Line:        nodeLine(node),
		Modifiers:   modifiers,
		Annotations: annotations,
		Supertypes:  w.supertypes(node),
	}

	body := node.ChildByFieldName("body")
	for _, child := range namedChildren(body) {
		if child.Type() == "enum_body_declarations" {
			for _, inner := range namedChildren(child) {
				decl.Members = append(decl.Members, w.decls(inner)...)
			}

			continue
		}

		decl.Members = append(decl.Members, w.decls(child)...)
	}

	decl.Members = append(decl.Members, errorDecls(node)...)

	return decl
}

// supertypes collects the simple names in extends, implements and interface
// extends clauses.
func (w javaWalker) supertypes(node *sitter.Node) []string {
	var names []string

	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "superclass":
			for _, t := range namedChildren(child) {
				if name := w.simpleTypeName(t); name != "" {
					names = append(names, name)
				}
			}
		case "super_interfaces", "extends_interfaces":
			for _, t := range namedChildren(firstChildOfType(child, "type_list")) {
				if name := w.simpleTypeName(t); name != "" {
					names = append(names, name)
				}
			}
		}
	}

	return names
}

// simpleTypeName returns the unqualified name of a type reference without
// type arguments: "java.util.List<String>" becomes "List".
func (w javaWalker) simpleTypeName(node *sitter.Node) string {
	switch node.Type() {
	case "type_identifier", "identifier":
		return nodeText(node, w.content)
	case "generic_type":
		if base := firstChildOfType(node, "type_identifier", "scoped_type_identifier"); base != nil {
			return w.simpleTypeName(base)
		}
	case "scoped_type_identifier":
		children := namedChildren(node)
		for i := len(children) - 1; i >= 0; i-- {
			if children[i].Type() == "type_identifier" {
				return nodeText(children[i], w.content)
			}
		}
	}

	return ""
}

func (w javaWalker) fields(node *sitter.Node) []m.Decl {
	modifiers, annotations := modifierWords(firstChildOfType(node, "modifiers"), w.content)

	var decls []m.Decl

	for _, child := range namedChildren(node) {
		if child.Type() != "variable_declarator" {
			continue
		}

		decls = append(decls, m.Decl{
			Form:        m.FormField,
			Name:        nodeText(child.ChildByFieldName("name"), w.content),
			Line:        nodeLine(child),
			Modifiers:   modifiers,
			Annotations: annotations,
		})
	}

	return decls
}

func (w javaWalker) callable(node *sitter.Node, form m.Form) m.Decl {
	modifiers, annotations := modifierWords(firstChildOfType(node, "modifiers"), w.content)

	params := 0

	for _, param := range namedChildren(node.ChildByFieldName("parameters")) {
		switch param.Type() {
		case "formal_parameter", "spread_parameter":
			params++
		}
	}

	return m.Decl{
		Form:        form,
		Name:        nodeText(node.ChildByFieldName("name"), w.content),
		Line:        nodeLine(node),
		Modifiers:   modifiers,
		Annotations: annotations,
		Params:      params,
	}
}
