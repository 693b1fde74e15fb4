// Package pathutil provides utilities for converting between absolute and relative paths.
//
// todoview keys results by absolute path internally. User-facing output uses
// paths relative to the project root, or to the home directory as a fallback,
// for readability. This package is the conversion layer at output boundaries.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
//   - ToRelative("src/main.go", "/home/user/project") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	// Handle empty inputs
	if absPath == "" || rootDir == "" {
		return absPath
	}

	// If path is already relative, return as-is
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// A path outside the root stays absolute
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return absPath
	}

	return relPath
}

// ToDisplay picks the shortest readable form of path: relative to the first
// root containing it, else "~"-relative under the home directory, else as is.
func ToDisplay(path string, roots []string) string {
	for _, root := range roots {
		if rel := ToRelative(path, root); rel != path || !filepath.IsAbs(path) {
			return rel
		}
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if rel := ToRelative(path, home); rel != path {
			return filepath.Join("~", rel)
		}
	}
	return path
}
