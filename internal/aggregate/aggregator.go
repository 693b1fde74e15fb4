// Package aggregate resolves a query scope into the ordered list of sources to scan.
package aggregate

import (
	"context"
	"os"
	"path/filepath"

	"github.com/standardbeagle/todoview/internal/debug"
	"github.com/standardbeagle/todoview/internal/editor"
	"github.com/standardbeagle/todoview/internal/pathfilter"
	"github.com/standardbeagle/todoview/internal/query"
	"github.com/standardbeagle/todoview/internal/source"
)

// Aggregator enumerates sources from the editor host
type Aggregator struct {
	host editor.Host
}

// New creates an aggregator reading editor state from host
func New(host editor.Host) *Aggregator {
	return &Aggregator{host: host}
}

// Aggregate returns the sources for scope in scan order. Every returned source
// has a path that filter does not ignore. The only error is ctx's.
func (a *Aggregator) Aggregate(ctx context.Context, scope query.Scope, filter *pathfilter.Filter) ([]source.Source, error) {
	switch scope {
	case query.ScopeFile:
		src, ok := a.host.ActiveSource()
		if !ok || !keep(src.Path(), filter) {
			return nil, nil
		}
		return []source.Source{src}, nil

	case query.ScopeOpen:
		var sources []source.Source
		for _, src := range a.host.OpenSources() {
			if keep(src.Path(), filter) {
				sources = append(sources, src)
			}
		}
		return sources, nil

	default:
		var sources []source.Source
		for _, root := range a.host.ProjectRoots() {
			err := walk(ctx, root, func(path string) {
				if keep(path, filter) {
					sources = append(sources, source.NewFile(path))
				}
			})
			if err != nil {
				return nil, err
			}
		}
		return sources, nil
	}
}

// keep reports whether a source with path belongs in a result. Pathless
// buffers cannot be keyed in a result set.
func keep(path string, filter *pathfilter.Filter) bool {
	if path == "" {
		return false
	}
	if filter.ShouldIgnore(path) {
		debug.LogScan("excluded %s\n", path)
		return false
	}
	return true
}

// walk visits every file under dir depth first: a directory's files in name
// order, then each subdirectory. No directory is pruned. Symlinked
// directories are not followed; symlinked files, including broken links, are
// visited and fail later as missing files.
func walk(ctx context.Context, dir string, visit func(path string)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		debug.LogScan("cannot read directory %s: %v\n", dir, err)
		return nil
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			subdirs = append(subdirs, path)
		case entry.Type()&os.ModeSymlink != 0:
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				continue
			}
			visit(path)
		default:
			visit(path)
		}
	}

	for _, sub := range subdirs {
		if err := walk(ctx, sub, visit); err != nil {
			return err
		}
	}
	return nil
}
