package mcp

import (
	"path/filepath"

	"github.com/standardbeagle/todoview/internal/editor"
	"github.com/standardbeagle/todoview/internal/source"
)

// overlayHost layers buffers supplied with a single call over the server's
// host. Buffers replace open sources of the same path and are appended to
// the open list otherwise.
type overlayHost struct {
	base   editor.Host
	active string
	texts  map[string]string
	order  []string
}

func newOverlayHost(base editor.Host, active string, buffers []BufferParam) *overlayHost {
	h := &overlayHost{base: base, texts: make(map[string]string, len(buffers))}
	if active != "" {
		h.active = absPath(active)
	}
	for _, b := range buffers {
		if b.Path == "" {
			continue
		}
		p := absPath(b.Path)
		if _, dup := h.texts[p]; !dup {
			h.order = append(h.order, p)
		}
		h.texts[p] = b.Text
	}
	return h
}

func (h *overlayHost) source(path string) source.Source {
	if text, ok := h.texts[path]; ok {
		return source.NewBuffer(path, source.NewStringBuffer(text))
	}
	return source.NewFile(path)
}

func (h *overlayHost) ActiveSource() (source.Source, bool) {
	if h.active != "" {
		return h.source(h.active), true
	}
	src, ok := h.base.ActiveSource()
	if ok && src != nil {
		if _, replaced := h.texts[src.Path()]; replaced {
			return h.source(src.Path()), true
		}
	}
	return src, ok
}

func (h *overlayHost) OpenSources() []source.Source {
	base := h.base.OpenSources()
	out := make([]source.Source, 0, len(base)+len(h.order))
	seen := make(map[string]bool, len(base))
	for _, src := range base {
		if _, replaced := h.texts[src.Path()]; replaced {
			src = h.source(src.Path())
		}
		seen[src.Path()] = true
		out = append(out, src)
	}
	for _, p := range h.order {
		if !seen[p] {
			out = append(out, h.source(p))
		}
	}
	return out
}

func (h *overlayHost) ProjectRoots() []string {
	return h.base.ProjectRoots()
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
