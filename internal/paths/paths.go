// Package paths provides canonical helpers for relating rule file paths to
// the mod and vanilla roots, so discovery, watching and reporting agree on
// what a path means.
package paths

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a path does not live under the given root.
var ErrOutsideRoot = errors.New("path is outside root")

// DataDir is the per-mod directory holding oxcheck's own state.
const DataDir = ".oxcheck"

// ignoredDirs are never scanned or watched.
var ignoredDirs = map[string]struct{}{
	DataDir:        {},
	".git":         {},
	".svn":         {},
	"node_modules": {},
	"__MACOSX":     {},
}

// Clean returns an absolute, cleaned path. Relative paths are resolved
// against the working directory.
func Clean(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Rel returns p relative to root using forward slashes, the form glob
// patterns are matched against.
func Rel(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", ErrOutsideRoot
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", ErrOutsideRoot
	}
	return strings.TrimPrefix(rel, "./"), nil
}

// Within reports whether p is root or lives below it.
func Within(root, p string) bool {
	if root == "" {
		return false
	}
	_, err := Rel(root, p)
	return err == nil
}

// IsIgnoredDir reports whether a directory name is skipped by discovery and
// watching.
func IsIgnoredDir(name string) bool {
	_, ok := ignoredDirs[name]
	return ok
}

// HasIgnoredDir reports whether any directory between root and p is ignored.
func HasIgnoredDir(root, p string) bool {
	rel, err := Rel(root, p)
	if err != nil {
		return false
	}
	parts := strings.Split(rel, "/")
	for _, part := range parts[:len(parts)-1] {
		if IsIgnoredDir(part) {
			return true
		}
	}
	return false
}

// Display shortens p for output: relative to root when inside it, else as is.
func Display(root, p string) string {
	if rel, err := Rel(root, p); err == nil && rel != "." {
		return rel
	}
	return p
}
