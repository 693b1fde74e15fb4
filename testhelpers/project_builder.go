// Package testhelpers provides shared utilities for testing todoview
package testhelpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ProjectBuilder writes a throwaway project tree under t.TempDir()
//
//	root := testhelpers.NewProjectBuilder(t).
//		AddFile("main.go", "// TODO: wire flags").
//		AddAnnotated("pkg/a.go", "FIXME", "bob", "tighten bounds").
//		Build()
type ProjectBuilder struct {
	t     testing.TB
	root  string
	files map[string]string
	order []string
}

// NewProjectBuilder creates a builder rooted in a fresh temp directory
func NewProjectBuilder(t testing.TB) *ProjectBuilder {
	t.Helper()
	return &ProjectBuilder{
		t:     t,
		root:  t.TempDir(),
		files: make(map[string]string),
	}
}

// AddFile adds a file with the given slash-separated relative name and content
func (pb *ProjectBuilder) AddFile(name, content string) *ProjectBuilder {
	if _, ok := pb.files[name]; !ok {
		pb.order = append(pb.order, name)
	}
	pb.files[name] = content
	return pb
}

// AddLines adds a file whose content is lines joined by newlines
func (pb *ProjectBuilder) AddLines(name string, lines ...string) *ProjectBuilder {
	return pb.AddFile(name, strings.Join(lines, "\n")+"\n")
}

// AddAnnotated adds a Go file with a single annotation comment on its third line
func (pb *ProjectBuilder) AddAnnotated(name, category, assignee, message string) *ProjectBuilder {
	heading := category
	if assignee != "" {
		heading += "(" + assignee + ")"
	}
	return pb.AddLines(name, "package p", "", "// "+heading+": "+message)
}

// AddBinary adds a file containing bytes that are not valid UTF-8
func (pb *ProjectBuilder) AddBinary(name string) *ProjectBuilder {
	return pb.AddFile(name, "TODO: \xff\xfe\x00binary")
}

// Build writes every file and returns the project root
func (pb *ProjectBuilder) Build() string {
	pb.t.Helper()
	for _, name := range pb.order {
		path := pb.Path(name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			pb.t.Fatalf("create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(pb.files[name]), 0644); err != nil {
			pb.t.Fatalf("write %s: %v", name, err)
		}
	}
	return pb.root
}

// Root returns the project root
func (pb *ProjectBuilder) Root() string {
	return pb.root
}

// Path returns the absolute path of a relative file name
func (pb *ProjectBuilder) Path(name string) string {
	return filepath.Join(pb.root, filepath.FromSlash(name))
}
