// Package model defines the data structures shared by the analysis layers.
package model

// Path represents a file system path.
type Path string

// Language identifies the grammar a source file is written in.
type Language string

const (
	// LanguageJava covers .java sources.
	LanguageJava Language = "java"
	// LanguageKotlin covers .kt and .kts sources.
	LanguageKotlin Language = "kotlin"
)

// File represents a source file discovered for analysis.
type File struct {
	FullPath  Path
	ShortPath Path
	Hash      string
	Language  Language
}
