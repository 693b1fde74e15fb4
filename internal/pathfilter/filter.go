// Package pathfilter decides which candidate files are excluded from scanning.
package pathfilter

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/todoview/internal/debug"
)

// Rules holds the three exclusion lists, checked in the order folder, binary, file
type Rules struct {
	FolderExclude []string `json:"folder_exclude"`
	BinaryFile    []string `json:"binary_file"`
	FileExclude   []string `json:"file_exclude"`
}

// IsWildcard reports whether pattern is matched as a glob rather than a substring
func IsWildcard(pattern string) bool {
	return strings.Contains(pattern, "*")
}

// ShouldIgnore reports whether path matches any exclusion rule. The first
// matching rule wins. Patterns containing '*' are globs that may match anywhere
// in the path; other patterns match by substring containment.
func ShouldIgnore(path string, rules Rules) bool {
	for _, list := range [][]string{rules.FolderExclude, rules.BinaryFile, rules.FileExclude} {
		for _, pattern := range list {
			if matches(pattern, path) {
				return true
			}
		}
	}
	return false
}

func matches(pattern, path string) bool {
	if pattern == "" {
		return false
	}
	if !IsWildcard(pattern) {
		return strings.Contains(path, pattern)
	}
	return globAnywhere(pattern, filepath.ToSlash(path))
}

// globAnywhere matches pattern anywhere in path, so "*.pyc" matches
// "/src/pkg/mod.pyc" and "build/*.js" matches "/a/build/x.js". A pattern
// without '/' can only match one segment and is tried against each segment;
// others are tried against every contiguous run of segments.
func globAnywhere(pattern, path string) bool {
	segments := strings.Split(path, "/")
	if !strings.Contains(pattern, "/") {
		for _, segment := range segments {
			if matched, ok := globMatch(pattern, segment); !ok || matched {
				return matched
			}
		}
		return false
	}
	for i := 0; i < len(segments); i++ {
		for j := len(segments); j > i; j-- {
			if matched, ok := globMatch(pattern, strings.Join(segments[i:j], "/")); !ok || matched {
				return matched
			}
		}
	}
	return false
}

// globMatch reports a match; ok is false for an invalid pattern
func globMatch(pattern, name string) (matched bool, ok bool) {
	matched, err := doublestar.Match(pattern, name)
	if err != nil {
		debug.LogScan("invalid exclusion pattern %q: %v\n", pattern, err)
		return false, false
	}
	return matched, true
}

// Ignorer is an additional, root-relative exclusion source such as a .gitignore
type Ignorer interface {
	ShouldIgnore(path string, isDir bool) bool
}

type rootIgnorer struct {
	root    string
	ignorer Ignorer
}

// Filter combines Rules with optional per-root ignorers. A Filter is immutable
// once built and safe for concurrent use.
type Filter struct {
	rules    Rules
	ignorers []rootIgnorer
}

// NewFilter creates a filter for the given rules
func NewFilter(rules Rules) *Filter {
	return &Filter{rules: rules}
}

// WithIgnorer returns a copy of f that also consults ig for paths under root
func (f *Filter) WithIgnorer(root string, ig Ignorer) *Filter {
	next := &Filter{
		rules:    f.rules,
		ignorers: make([]rootIgnorer, len(f.ignorers), len(f.ignorers)+1),
	}
	copy(next.ignorers, f.ignorers)
	next.ignorers = append(next.ignorers, rootIgnorer{root: filepath.Clean(root), ignorer: ig})
	return next
}

// Rules returns the exclusion rules
func (f *Filter) Rules() Rules {
	return f.rules
}

// ShouldIgnore applies the rules first, then any ignorer whose root contains path
func (f *Filter) ShouldIgnore(path string) bool {
	if f == nil {
		return false
	}
	if ShouldIgnore(path, f.rules) {
		return true
	}
	for _, ri := range f.ignorers {
		rel, err := filepath.Rel(ri.root, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		if ri.ignorer.ShouldIgnore(filepath.ToSlash(rel), false) {
			return true
		}
	}
	return false
}
