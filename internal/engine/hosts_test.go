package engine

import (
	"github.com/standardbeagle/todoview/internal/source"
)

// countingHost records how often editor state is requested
type countingHost struct {
	calls int
}

func (h *countingHost) ActiveSource() (source.Source, bool) { h.calls++; return nil, false }
func (h *countingHost) OpenSources() []source.Source        { h.calls++; return nil }
func (h *countingHost) ProjectRoots() []string              { h.calls++; return nil }

// fixedHost serves open buffers from memory, allowing the same path twice
type fixedHost struct {
	open  []string
	texts map[string]string
}

func (h *fixedHost) ActiveSource() (source.Source, bool) { return nil, false }
func (h *fixedHost) ProjectRoots() []string              { return nil }
func (h *fixedHost) OpenSources() []source.Source {
	out := make([]source.Source, 0, len(h.open))
	for _, p := range h.open {
		out = append(out, source.NewBuffer(p, source.NewStringBuffer(h.texts[p])))
	}
	return out
}
