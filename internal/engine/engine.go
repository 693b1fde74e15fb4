// Package engine runs queries: it resolves the scope to sources, extracts
// annotations from each, filters them and groups the result by source.
package engine

import (
	"context"
	"time"

	"github.com/standardbeagle/todoview/internal/aggregate"
	"github.com/standardbeagle/todoview/internal/annotation"
	"github.com/standardbeagle/todoview/internal/config"
	"github.com/standardbeagle/todoview/internal/debug"
	"github.com/standardbeagle/todoview/internal/editor"
	"github.com/standardbeagle/todoview/internal/extract"
	"github.com/standardbeagle/todoview/internal/query"
)

// SettingsProvider hands out the current configuration snapshot
type SettingsProvider interface {
	Current() *config.Settings
}

// Engine executes queries against an editor host. Queries share no mutable
// state, so an Engine may serve concurrent callers.
type Engine struct {
	settings   SettingsProvider
	aggregator *aggregate.Aggregator
}

// New creates an engine
func New(settings SettingsProvider, host editor.Host) *Engine {
	return &Engine{
		settings:   settings,
		aggregator: aggregate.New(host),
	}
}

// RunQuery parses s and runs it. A malformed query returns a ParseError and
// no scan is performed.
func (e *Engine) RunQuery(ctx context.Context, s string) (*ResultSet, error) {
	snapshot := e.settings.Current()
	q, err := snapshot.Parser.Parse(s)
	if err != nil {
		debug.LogQuery("rejected query %q: %v\n", s, err)
		return nil, err
	}
	return e.run(ctx, snapshot, q)
}

// Run executes an already parsed query
func (e *Engine) Run(ctx context.Context, q *query.Query) (*ResultSet, error) {
	return e.run(ctx, e.settings.Current(), q)
}

// Settings returns the snapshot the next query would use
func (e *Engine) Settings() *config.Settings {
	return e.settings.Current()
}

func (e *Engine) run(ctx context.Context, s *config.Settings, q *query.Query) (*ResultSet, error) {
	start := time.Now()

	sources, err := e.aggregator.Aggregate(ctx, q.Scope, s.Filter)
	if err != nil {
		return nil, err
	}

	ex := extract.New(s.Pattern, s.Formatter())

	// A path scanned twice keeps its first position and the later matches
	var order []string
	found := make(map[string][]annotation.Match)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matches := ex.ExtractOrSkip(src)
		if len(matches) == 0 {
			continue
		}
		if _, seen := found[src.Path()]; !seen {
			order = append(order, src.Path())
		}
		found[src.Path()] = matches
	}

	opts := s.MatchOptions()
	rs := &ResultSet{
		Query:    q,
		Groups:   make([]Group, 0, len(order)),
		Warnings: query.Lint(q, s.Pattern.Categories()),
	}
	for _, path := range order {
		var kept []annotation.Match
		for _, m := range found[path] {
			if q.Accepts(m.Category, m.Assignee, opts) {
				kept = append(kept, m)
			}
		}
		if len(kept) > 0 {
			rs.Groups = append(rs.Groups, Group{Path: path, Matches: kept})
		}
	}
	sortGroups(rs.Groups, q.SortBy)

	debug.LogQuery("%q: %d sources, %d groups, %d matches in %v\n",
		q.Raw, len(sources), len(rs.Groups), rs.Total(), time.Since(start))
	return rs, nil
}
