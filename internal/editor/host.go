// Package editor defines the host environment the scanner reads editor state
// from, and a filesystem-backed implementation used by the CLI and MCP server.
package editor

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/standardbeagle/todoview/internal/debug"
	"github.com/standardbeagle/todoview/internal/source"
)

// Host exposes the editor state a query needs
type Host interface {
	// ActiveSource returns the buffer being edited, if any
	ActiveSource() (source.Source, bool)
	// OpenSources returns every open buffer in the editor's order
	OpenSources() []source.Source
	// ProjectRoots returns the directories of the current project
	ProjectRoots() []string
}

// Workspace is a Host backed by the filesystem. Open paths are loaded from disk
// into buffers on each call unless an in-memory override has been set with
// SetBuffer, which models unsaved edits.
type Workspace struct {
	mu        sync.RWMutex
	active    string
	open      []string
	overrides map[string]string
	roots     func() []string
}

// WorkspaceOptions configures a Workspace
type WorkspaceOptions struct {
	Active string   // path of the active buffer
	Open   []string // paths of open buffers, in order
	// Roots is consulted on every call so reloaded configuration is picked up
	Roots func() []string
}

// NewWorkspace creates a filesystem-backed host
func NewWorkspace(opts WorkspaceOptions) *Workspace {
	roots := opts.Roots
	if roots == nil {
		roots = func() []string { return nil }
	}
	return &Workspace{
		active:    absOrSelf(opts.Active),
		open:      absAll(opts.Open),
		overrides: make(map[string]string),
		roots:     roots,
	}
}

// SetBuffer replaces the contents of an open buffer with text. The path is
// added to the open list if it is not there yet.
func (w *Workspace) SetBuffer(path, text string) {
	path = absOrSelf(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.overrides[path] = text
	for _, p := range w.open {
		if p == path {
			return
		}
	}
	w.open = append(w.open, path)
}

// SetActive changes the active buffer path
func (w *Workspace) SetActive(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = absOrSelf(path)
}

// ActiveSource implements Host
func (w *Workspace) ActiveSource() (source.Source, bool) {
	w.mu.RLock()
	active := w.active
	w.mu.RUnlock()

	if active == "" {
		return nil, false
	}
	return w.load(active)
}

// OpenSources implements Host
func (w *Workspace) OpenSources() []source.Source {
	w.mu.RLock()
	paths := make([]string, len(w.open))
	copy(paths, w.open)
	w.mu.RUnlock()

	sources := make([]source.Source, 0, len(paths))
	for _, p := range paths {
		if src, ok := w.load(p); ok {
			sources = append(sources, src)
		}
	}
	return sources
}

// ProjectRoots implements Host
func (w *Workspace) ProjectRoots() []string {
	return w.roots()
}

// load returns a buffer for path. A file that cannot be read is not open as far
// as the editor is concerned.
func (w *Workspace) load(path string) (source.Source, bool) {
	w.mu.RLock()
	text, ok := w.overrides[path]
	w.mu.RUnlock()

	if !ok {
		content, err := os.ReadFile(path)
		if err != nil {
			debug.LogScan("workspace: cannot open buffer %s: %v\n", path, err)
			return nil, false
		}
		text = string(content)
	}
	return source.NewBuffer(path, source.NewStringBuffer(text)), true
}

func absOrSelf(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func absAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		out = append(out, absOrSelf(p))
	}
	return out
}

// StaticRoots returns a root provider for a fixed list of directories
func StaticRoots(roots ...string) func() []string {
	abs := absAll(roots)
	return func() []string {
		out := make([]string, len(abs))
		copy(out, abs)
		return out
	}
}
