package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tverrors "github.com/standardbeagle/todoview/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		scope      Scope
		categories Filter
		assignees  Filter
		sort       SortKey
	}{
		{"file scope", "file:TODO:*", ScopeFile, Filter{"TODO"}, Filter{"*"}, SortNone},
		{"short file scope", "f:TODO,FIXME:alice", ScopeFile, Filter{"TODO", "FIXME"}, Filter{"alice"}, SortNone},
		{"open scope", "o:*:*", ScopeOpen, Filter{"*"}, Filter{"*"}, SortNone},
		{"unknown scope is all", "project:*:bob,carol", ScopeAll, Filter{"*"}, Filter{"bob", "carol"}, SortNone},
		{"sort by file", "*:*:*:file", ScopeAll, Filter{"*"}, Filter{"*"}, SortPath},
		{"sort by type", "all:*:*:type", ScopeAll, Filter{"*"}, Filter{"*"}, SortCategory},
		{"sort by category", "all:*:*:category", ScopeAll, Filter{"*"}, Filter{"*"}, SortCategory},
		{"sort by assignee", "all:*:*:assignee", ScopeAll, Filter{"*"}, Filter{"*"}, SortAssignee},
		{"unknown sort is unsorted", "all:*:*:size", ScopeAll, Filter{"*"}, Filter{"*"}, SortNone},
		{"empty assignee element", "file:TODO:", ScopeFile, Filter{"TODO"}, Filter{""}, SortNone},
		{"empty query default", "", ScopeAll, Filter{"*"}, Filter{"*"}, SortNone},
		{"scope is case sensitive", "FILE:*:*", ScopeAll, Filter{"*"}, Filter{"*"}, SortNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.input, q.Raw)
			assert.Equal(t, tt.scope, q.Scope)
			assert.Equal(t, tt.categories, q.Categories)
			assert.Equal(t, tt.assignees, q.Assignees)
			assert.Equal(t, tt.sort, q.SortBy)
		})
	}
}

func TestParse_WrongFieldCount(t *testing.T) {
	for _, input := range []string{"bad-query", "file:TODO", "a:b:c:d:e"} {
		q, err := Parse(input)
		assert.Nil(t, q, input)
		require.Error(t, err, input)
		assert.True(t, tverrors.IsParseError(err), input)
		assert.True(t, errors.Is(err, tverrors.ErrFieldCount), input)
	}
}

func TestParser_EmptyQueryDisabled(t *testing.T) {
	p := &Parser{}
	_, err := p.Parse("")
	assert.True(t, tverrors.IsParseError(err))

	custom := &Parser{EmptyQuery: "open:TODO:*"}
	q, err := custom.Parse("")
	require.NoError(t, err)
	assert.Equal(t, ScopeOpen, q.Scope)
	assert.Equal(t, Filter{"TODO"}, q.Categories)
}

func TestQuery_String(t *testing.T) {
	q, err := Parse("f:TODO,NOTE:*:assignee")
	require.NoError(t, err)
	assert.Equal(t, "f:TODO,NOTE:*:assignee", q.String())
	assert.Equal(t, "file", q.Scope.String())
	assert.Equal(t, "assignee", q.SortBy.String())
}

func TestAccepts(t *testing.T) {
	on := Options{EmptyAssigneeMatchesUnassigned: true}
	off := Options{EmptyAssigneeMatchesUnassigned: false}

	tests := []struct {
		query    string
		category string
		assignee string
		opts     Options
		want     bool
	}{
		{"*:TODO:*", "TODO", "", on, true},
		{"*:TODO:*", "FIXME", "", on, false},
		{"*:TODO,*:*", "FIXME", "", on, true},
		{"*:*:alice", "NOTE", "alice", on, true},
		{"*:*:alice", "NOTE", "bob", on, false},
		{"*:*:alice,*", "NOTE", "bob", on, true},
		{"*:*:alice", "NOTE", "", on, false},
		{"*:*:", "NOTE", "", on, true},
		{"*:*:", "NOTE", "", off, false},
		{"*:*:,alice", "NOTE", "alice", off, true},
		{"*:*:", "NOTE", "alice", on, false},
		{"*:*:*", "NOTE", "", off, true},
	}

	for _, tt := range tests {
		q, err := Parse(tt.query)
		require.NoError(t, err)
		assert.Equal(t, tt.want, q.Accepts(tt.category, tt.assignee, tt.opts),
			"%s accepts %s(%s) with %+v", tt.query, tt.category, tt.assignee, tt.opts)
	}
}

func TestLint(t *testing.T) {
	categories := []string{"TODO", "FIXME", "NOTE"}

	q, err := Parse("*:TODO,FIXEM,WHATEVER:*:assigne")
	require.NoError(t, err)

	warnings := Lint(q, categories)
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "did you mean 'FIXME'")
	assert.Equal(t, "unknown category 'WHATEVER'", warnings[1])
	assert.Contains(t, warnings[2], "did you mean 'assignee'")

	clean, err := Parse("*:*:*:file")
	require.NoError(t, err)
	assert.Empty(t, Lint(clean, categories))
}
