package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser handles parsing and matching .gitignore files. It satisfies
// pathfilter.Ignorer for paths relative to the directory it was loaded from.
type GitignoreParser struct {
	patterns []GitignorePattern
}

type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool // trailing slash: matches directories only
	Anchored  bool // leading or inner slash: matches from the root only
}

// NewGitignoreParser creates a new gitignore parser
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{
		patterns: make([]GitignorePattern, 0),
	}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing file is not an error.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return gp.scanAndParsePatterns(file)
}

// scanAndParsePatterns parses each line of r as a pattern
func (gp *GitignoreParser) scanAndParsePatterns(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		gp.AddPattern(scanner.Text())
	}
	return scanner.Err()
}

// AddPattern adds a single pattern line; blank lines and comments are ignored
func (gp *GitignoreParser) AddPattern(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	pattern := gp.parsePattern(line)
	if pattern.Pattern == "" {
		return
	}
	gp.patterns = append(gp.patterns, pattern)
}

// Len returns the number of patterns loaded
func (gp *GitignoreParser) Len() int {
	return len(gp.patterns)
}

// parsePattern extracts the modifiers (!, trailing /, leading or inner /)
func (gp *GitignoreParser) parsePattern(line string) GitignorePattern {
	pattern := GitignorePattern{}

	if strings.HasPrefix(line, "!") {
		pattern.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		pattern.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		pattern.Anchored = true
		line = line[1:]
	} else if strings.Contains(line, "/") {
		pattern.Anchored = true
	}

	pattern.Pattern = line
	return pattern
}

// ShouldIgnore reports whether a slash-separated path relative to the
// gitignore's directory is excluded. Anything below an excluded directory is
// excluded as well.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)

	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		if gp.evaluate(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return gp.evaluate(path, isDir)
}

// evaluate applies every pattern in order; the last matching pattern decides
func (gp *GitignoreParser) evaluate(path string, isDir bool) bool {
	ignored := false
	for _, pattern := range gp.patterns {
		if gp.matchesPattern(pattern, path, isDir) {
			ignored = !pattern.Negate
		}
	}
	return ignored
}

// matchesPattern checks a single pattern against path, ignoring negation
func (gp *GitignoreParser) matchesPattern(pattern GitignorePattern, path string, isDir bool) bool {
	if pattern.Directory && !isDir {
		return false
	}
	if pattern.Anchored {
		matched, _ := doublestar.Match(pattern.Pattern, path)
		return matched
	}
	// Unanchored patterns match the last path component at any depth
	matched, _ := doublestar.Match(pattern.Pattern, path[strings.LastIndex(path, "/")+1:])
	return matched
}
