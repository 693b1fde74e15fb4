// Package display renders query results for people and tools: a quick-panel
// style listing, grep-style locations, JSON and a standalone HTML document.
package display

import (
	"fmt"
	"strconv"

	"github.com/standardbeagle/todoview/internal/annotation"
	"github.com/standardbeagle/todoview/internal/engine"
	"github.com/standardbeagle/todoview/pkg/pathutil"
)

// Status lines shown alongside a result
const (
	StatusNoMatches    = "no matches found"
	StatusInvalidQuery = "invalid query"
)

// Options controls rendering
type Options struct {
	Format        string   // "text", "locations", "json", "html"
	Roots         []string // project roots used for display paths
	RelativePaths bool     // show paths relative to Roots (or ~) instead of absolute
}

// Item is one quick-panel row. Target is the navigation location of the
// match and always uses the absolute path.
type Item struct {
	Heading     string `json:"heading"`
	Message     string `json:"message"`
	DisplayPath string `json:"display_path"`
	Target      string `json:"target"`
}

// Report is the presentation model shared by every renderer
type Report struct {
	Query       string        `json:"query"`
	Status      string        `json:"status"`
	Total       int           `json:"total"`
	Fingerprint string        `json:"fingerprint,omitempty"`
	Groups      []ReportGroup `json:"groups"`
	Warnings    []string      `json:"warnings,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// ReportGroup is one source with its matches
type ReportGroup struct {
	Path        string        `json:"path"`
	DisplayPath string        `json:"display_path"`
	Matches     []ReportMatch `json:"matches"`
}

// ReportMatch is a match with its rendered heading and navigation target
type ReportMatch struct {
	annotation.Match
	Heading string `json:"heading"`
	Target  string `json:"target"`
}

// NewReport builds the presentation model of rs
func NewReport(rs *engine.ResultSet, opts Options) Report {
	rep := Report{Groups: []ReportGroup{}}
	if rs == nil {
		rep.Status = StatusNoMatches
		return rep
	}
	if rs.Query != nil {
		rep.Query = rs.Query.String()
	}
	rep.Total = rs.Total()
	rep.Status = Status(rs)
	rep.Fingerprint = strconv.FormatUint(rs.Fingerprint(), 16)
	rep.Warnings = rs.Warnings

	for _, g := range rs.Groups {
		rg := ReportGroup{
			Path:        g.Path,
			DisplayPath: displayPath(g.Path, opts),
			Matches:     make([]ReportMatch, 0, len(g.Matches)),
		}
		for _, m := range g.Matches {
			rg.Matches = append(rg.Matches, ReportMatch{
				Match:   m,
				Heading: m.Heading(),
				Target:  m.Location(g.Path),
			})
		}
		rep.Groups = append(rep.Groups, rg)
	}
	return rep
}

// NewErrorReport describes a rejected query
func NewErrorReport(raw string, err error) Report {
	rep := Report{Query: raw, Status: StatusInvalidQuery, Groups: []ReportGroup{}}
	if err != nil {
		rep.Error = err.Error()
	}
	return rep
}

// Status summarizes rs in one neutral line
func Status(rs *engine.ResultSet) string {
	if rs == nil || rs.Empty() {
		return StatusNoMatches
	}
	return fmt.Sprintf("%s in %s", plural(rs.Total(), "match", "matches"), plural(len(rs.Groups), "file", "files"))
}

// PanelItems flattens rs into quick-panel rows in group order
func PanelItems(rs *engine.ResultSet, opts Options) []Item {
	return NewReport(rs, opts).Items()
}

// Items flattens the report into quick-panel rows
func (r Report) Items() []Item {
	var items []Item
	for _, g := range r.Groups {
		for _, m := range g.Matches {
			items = append(items, Item{
				Heading:     m.Heading,
				Message:     m.Message,
				DisplayPath: g.DisplayPath,
				Target:      m.Target,
			})
		}
	}
	return items
}

func displayPath(path string, opts Options) string {
	if !opts.RelativePaths {
		return path
	}
	return pathutil.ToDisplay(path, opts.Roots)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
