package adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	m "constscan.dev/pkg/constscan/internal/model"
)

// SyntaxParser turns the bytes of one source file into the language-neutral
// declaration tree consumed by the rule. Implementations must be safe for
// concurrent use.
type SyntaxParser interface {
	// Language returns the grammar this parser understands.
	Language() m.Language

	// Extensions returns the file extensions handled, with the leading dot.
	Extensions() []string

	// Parse builds the declaration tree for path from content.
	Parse(ctx context.Context, path m.Path, content []byte) (m.SyntaxFile, error)
}

// ParserLookup resolves parsers for the workflow.
type ParserLookup interface {
	ForPath(path m.Path) (SyntaxParser, bool)
	Extensions(langs ...m.Language) []string
}

// ParserRegistry maps file extensions to syntax parsers. The first parser
// registered for an extension wins.
type ParserRegistry struct {
	mu      sync.RWMutex
	parsers map[m.Language]SyntaxParser
	extMap  map[string]m.Language
}

// NewParserRegistry creates an empty registry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{
		parsers: make(map[m.Language]SyntaxParser),
		extMap:  make(map[string]m.Language),
	}
}

// NewDefaultParserRegistry returns a registry with the Java and Kotlin
// front ends.
func NewDefaultParserRegistry() *ParserRegistry {
	registry := NewParserRegistry()
	registry.Register(NewJavaParser())
	registry.Register(NewKotlinParser())

	return registry
}

// Register adds a parser for all of its extensions.
func (r *ParserRegistry) Register(parser SyntaxParser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.parsers[parser.Language()] = parser

	for _, ext := range parser.Extensions() {
		ext = strings.ToLower(ext)
		if _, exists := r.extMap[ext]; !exists {
			r.extMap[ext] = parser.Language()
		}
	}
}

// ForPath returns the parser registered for the file's extension.
func (r *ParserRegistry) ForPath(path m.Path) (SyntaxParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lang, ok := r.extMap[strings.ToLower(filepath.Ext(string(path)))]
	if !ok {
		return nil, false
	}

	parser, ok := r.parsers[lang]

	return parser, ok
}

// Parser returns the parser for a language.
func (r *ParserRegistry) Parser(lang m.Language) (SyntaxParser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parser, ok := r.parsers[lang]
	if !ok {
		return nil, fmt.Errorf("no parser registered for language %q", lang)
	}

	return parser, nil
}

// Extensions returns the registered extensions for the given languages, or
// for every language when none are given. The result is sorted.
func (r *ParserRegistry) Extensions(langs ...m.Language) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[m.Language]bool, len(langs))
	for _, lang := range langs {
		wanted[lang] = true
	}

	extensions := make([]string, 0, len(r.extMap))
	for ext, lang := range r.extMap {
		if len(wanted) == 0 || wanted[lang] {
			extensions = append(extensions, ext)
		}
	}

	sort.Strings(extensions)

	return extensions
}

// Languages returns the registered languages, sorted.
func (r *ParserRegistry) Languages() []m.Language {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]m.Language, 0, len(r.parsers))
	for lang := range r.parsers {
		langs = append(langs, lang)
	}

	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })

	return langs
}
