package adapter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	m "constscan.dev/pkg/constscan/internal/model"
)

// parseTree runs a fresh tree-sitter parser over content. sitter.Parser is not
// safe for concurrent use, so each call gets its own.
func parseTree(ctx context.Context, lang *sitter.Language, content []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return tree, nil
}

// errorNodeType is the type tree-sitter gives to regions it could not parse.
const errorNodeType = "ERROR"

// unknownDecl stands in for an unparsable region.
func unknownDecl(node *sitter.Node) m.Decl {
	return m.Decl{Form: m.FormUnknown, Name: "<error>", Line: nodeLine(node)}
}

// errorDecls returns one unknown declaration per ERROR child of a type
// declaration found outside its body.
func errorDecls(node *sitter.Node) []m.Decl {
	var decls []m.Decl

	for _, child := range namedChildren(node) {
		if child.Type() == errorNodeType {
			decls = append(decls, unknownDecl(child))
		}
	}

	return decls
}

func nodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}

	return node.Content(content)
}

func nodeLine(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// namedChildren returns the named children of node.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	count := int(node.NamedChildCount())
	children := make([]*sitter.Node, 0, count)

	for i := 0; i < count; i++ {
		children = append(children, node.NamedChild(i))
	}

	return children
}

// hasToken reports whether node has a direct anonymous child with the given
// keyword (e.g. "interface", "val").
func hasToken(node *sitter.Node, keyword string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.IsNamed() && child.Type() == keyword {
			return true
		}
	}

	return false
}

// firstChildOfType returns the first direct named child of one of the types.
func firstChildOfType(node *sitter.Node, types ...string) *sitter.Node {
	for _, child := range namedChildren(node) {
		for _, t := range types {
			if child.Type() == t {
				return child
			}
		}
	}

	return nil
}

// findDescendant returns the first node of the given type in a pre-order walk
// below node, or nil.
func findDescendant(node *sitter.Node, nodeType string) *sitter.Node {
	for _, child := range namedChildren(node) {
		if child.Type() == nodeType {
			return child
		}

		if found := findDescendant(child, nodeType); found != nil {
			return found
		}
	}

	return nil
}

// modifierWords splits a modifiers node into lower-cased qualifier words and
// annotation names. Annotations never count as qualifiers.
func modifierWords(modifiers *sitter.Node, content []byte) ([]string, []string) {
	if modifiers == nil {
		return nil, nil
	}

	var words, annotations []string

	for i := 0; i < int(modifiers.ChildCount()); i++ {
		child := modifiers.Child(i)

		switch child.Type() {
		case "annotation", "marker_annotation", "file_annotation":
			annotations = append(annotations, annotationName(nodeText(child, content)))
		default:
			for _, word := range strings.Fields(nodeText(child, content)) {
				words = append(words, strings.ToLower(word))
			}
		}
	}

	return words, annotations
}

// annotationName strips the '@', use-site target and arguments from an
// annotation's source text: "@get:JvmName(\"x\")" becomes "JvmName".
func annotationName(text string) string {
	text = strings.TrimPrefix(strings.TrimSpace(text), "@")

	if i := strings.IndexAny(text, "(\n "); i >= 0 {
		text = text[:i]
	}

	if i := strings.LastIndex(text, ":"); i >= 0 {
		text = text[i+1:]
	}

	return text
}
