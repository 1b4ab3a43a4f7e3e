// Package adapter contains the parsing, filesystem and persistence adapters
// behind the constscan CLI.
package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	m "constscan.dev/pkg/constscan/internal/model"
)

// recursiveSuffix marks a path argument that should be walked recursively,
// following the go tool convention ("./...", "src/...").
const recursiveSuffix = "..."

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning user projects. It hides direct `os` access so the
// workflow logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation limits itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// Get resolves path arguments into source files with one of the given
	// extensions, skipping anything matched by an exclude glob. The result is
	// sorted by short path and free of duplicates.
	Get(ctx context.Context, paths []m.Path, extensions []string, exclude ...string) ([]m.File, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the disk-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// Get expands path arguments. A trailing "/..." walks the directory
// recursively, a plain directory is scanned one level deep, and a file is
// taken as is when its extension matches.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, paths []m.Path, extensions []string, exclude ...string) ([]m.File, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	if len(paths) == 0 {
		paths = []m.Path{m.Path("." + string(filepath.Separator) + recursiveSuffix)}
	}

	seen := make(map[m.Path]bool)

	var files []m.File

	for _, arg := range paths {
		root, recursive := splitRecursive(string(arg))

		err := a.Walk(m.Path(root), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			short := filepath.ToSlash(filepath.Clean(path))
			rel := relativeTo(root, path, short)

			if info.IsDir() {
				if path != root && skipDir(path, rel, exclude) {
					return filepath.SkipDir
				}

				return nil
			}

			if !hasExtension(path, extensions) || isExcluded(rel, exclude) {
				return nil
			}

			file, err := a.describe(path, short)
			if err != nil {
				return err
			}

			if seen[file.FullPath] {
				return nil
			}

			seen[file.FullPath] = true
			files = append(files, file)

			return nil
		})
		if err != nil {
			slog.Error("Failed to collect sources", "path", arg, "error", err)
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ShortPath < files[j].ShortPath })

	return files, nil
}

func (a *LocalSourceFSAdapter) describe(path, short string) (m.File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return m.File{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	hash, err := a.HashFile(m.Path(path))
	if err != nil {
		return m.File{}, fmt.Errorf("hash %s: %w", path, err)
	}

	return m.File{
		FullPath:  m.Path(abs),
		ShortPath: m.Path(short),
		Hash:      hash,
		Language:  LanguageOf(m.Path(path)),
	}, nil
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// LanguageOf guesses the language of a source file from its extension.
func LanguageOf(path m.Path) m.Language {
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".java":
		return m.LanguageJava
	case ".kt", ".kts":
		return m.LanguageKotlin
	}

	return ""
}

// splitRecursive strips a trailing "..." segment and reports whether it was
// present. "./..." becomes ".", "src/..." becomes "src".
func splitRecursive(arg string) (string, bool) {
	slashed := filepath.ToSlash(arg)
	if slashed != recursiveSuffix && !strings.HasSuffix(slashed, "/"+recursiveSuffix) {
		return arg, false
	}

	root := strings.TrimSuffix(strings.TrimSuffix(slashed, recursiveSuffix), "/")
	if root == "" {
		root = "."
	}

	return filepath.FromSlash(root), true
}

// WatchRoots returns the directories to watch for the given path arguments:
// the pattern root for "dir/..." and plain directories, the parent directory
// for files. The result is deduplicated and keeps argument order.
func WatchRoots(paths []m.Path) []m.Path {
	if len(paths) == 0 {
		paths = []m.Path{m.Path("." + string(filepath.Separator) + recursiveSuffix)}
	}

	seen := make(map[string]bool)

	var roots []m.Path

	for _, arg := range paths {
		root, _ := splitRecursive(string(arg))

		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}

		root = filepath.Clean(root)
		if seen[root] {
			continue
		}

		seen[root] = true
		roots = append(roots, m.Path(root))
	}

	return roots
}

// relativeTo returns path relative to the walk root, slash separated, so
// exclude globs behave the same for "./..." and absolute arguments.
func relativeTo(root, path, fallback string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return fallback
	}

	return filepath.ToSlash(rel)
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}

	return false
}

// skipDir reports whether a directory below a walk root is left out of both
// scans and watches: hidden directories such as .git or .gradle, and anything
// an exclude glob matches.
func skipDir(path, rel string, exclude []string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}

	return isExcluded(rel, exclude)
}

// isExcluded matches a slash-separated path against doublestar globs. A
// pattern without a separator also matches the base name, so "*Test.java"
// excludes test classes anywhere.
func isExcluded(path string, patterns []string) bool {
	base := filepath.Base(filepath.FromSlash(path))

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}

		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}

	return false
}
