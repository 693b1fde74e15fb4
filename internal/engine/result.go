package engine

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/todoview/internal/annotation"
	"github.com/standardbeagle/todoview/internal/query"
)

// Group is the filtered matches of one source, in document order
type Group struct {
	Path    string             `json:"path"`
	Matches []annotation.Match `json:"matches"`
}

// ResultSet is the grouped outcome of one query. Group order is discovery
// order unless the query asked for a sort. Groups are never empty.
type ResultSet struct {
	Query    *query.Query `json:"query"`
	Groups   []Group      `json:"groups"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Total returns the number of matches across all groups
func (rs *ResultSet) Total() int {
	n := 0
	for _, g := range rs.Groups {
		n += len(g.Matches)
	}
	return n
}

// Empty reports whether the query found nothing
func (rs *ResultSet) Empty() bool {
	return len(rs.Groups) == 0
}

// Get returns the group for path
func (rs *ResultSet) Get(path string) (Group, bool) {
	for _, g := range rs.Groups {
		if g.Path == path {
			return g, true
		}
	}
	return Group{}, false
}

// Paths returns the group paths in order
func (rs *ResultSet) Paths() []string {
	out := make([]string, len(rs.Groups))
	for i, g := range rs.Groups {
		out[i] = g.Path
	}
	return out
}

// Fingerprint hashes the groups and matches in order. Equal result sets have
// equal fingerprints.
func (rs *ResultSet) Fingerprint() uint64 {
	h := xxhash.New()
	var buf []byte
	for _, g := range rs.Groups {
		buf = append(buf[:0], g.Path...)
		buf = append(buf, 0)
		for _, m := range g.Matches {
			buf = strconv.AppendInt(buf, int64(m.Position.Row), 10)
			buf = append(buf, ':')
			buf = strconv.AppendInt(buf, int64(m.Position.Column), 10)
			buf = append(buf, 0)
			buf = append(buf, m.Category...)
			buf = append(buf, 0)
			buf = append(buf, m.Assignee...)
			buf = append(buf, 0)
			buf = append(buf, m.Message...)
			buf = append(buf, 0)
		}
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

// sortGroups orders groups by key, keeping discovery order for ties
func sortGroups(groups []Group, key query.SortKey) {
	var field func(g Group) string
	switch key {
	case query.SortPath:
		field = func(g Group) string { return g.Path }
	case query.SortCategory:
		field = func(g Group) string { return g.Matches[0].Category }
	case query.SortAssignee:
		field = func(g Group) string { return g.Matches[0].Assignee }
	default:
		return
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return field(groups[i]) < field(groups[j])
	})
}
