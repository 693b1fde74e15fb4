package annotation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tverrors "github.com/standardbeagle/todoview/internal/errors"
)

func TestCompile_EmptyCategories(t *testing.T) {
	for _, cats := range [][]string{nil, {}, {""}} {
		p, err := Compile(cats)
		assert.Nil(t, p)
		require.Error(t, err)
		assert.True(t, tverrors.IsConfigError(err), "expected ConfigError, got %T", err)
		assert.ErrorIs(t, err, tverrors.ErrNoCategories)
	}
}

func TestCompile_KeepsOrder(t *testing.T) {
	p, err := Compile([]string{"TODO", "FIXME", "NOTE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"TODO", "FIXME", "NOTE"}, p.Categories())
	assert.Equal(t, `\b(TODO|FIXME|NOTE)(?:\((.+)\))?: (.+)$`, p.String())
}

func TestCompile_QuotesKeywords(t *testing.T) {
	p, err := Compile([]string{"C++"})
	require.NoError(t, err)

	f, ok := p.Match("// C++: prefer references")
	require.True(t, ok)
	assert.Equal(t, "C++", f.Category)

	_, ok = p.Match("// CCC: nope")
	assert.False(t, ok)
}

func TestPattern_Match(t *testing.T) {
	p, err := Compile([]string{"TODO", "FIXME", "NOTE"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		line     string
		ok       bool
		start    int
		category string
		assignee string
		message  string
	}{
		{
			name:     "plain",
			line:     "// TODO: fix this",
			ok:       true,
			start:    3,
			category: "TODO",
			message:  "fix this",
		},
		{
			name:     "assignee",
			line:     "# FIXME(alice): refactor",
			ok:       true,
			start:    2,
			category: "FIXME",
			assignee: "alice",
			message:  "refactor",
		},
		{
			name: "word boundary",
			line: "XTODO: not an annotation",
			ok:   false,
		},
		{
			name: "unicode letter prefix",
			line: "éTODO: not an annotation",
			ok:   false,
		},
		{
			name: "cjk prefix",
			line: "修复TODO: not an annotation",
			ok:   false,
		},
		{
			name: "underscore prefix",
			line: "_TODO: not an annotation",
			ok:   false,
		},
		{
			name: "digit prefix",
			line: "2TODO: not an annotation",
			ok:   false,
		},
		{
			name:     "unicode punctuation prefix",
			line:     "«TODO: quoted",
			ok:       true,
			start:    len("«"),
			category: "TODO",
			message:  "quoted",
		},
		{
			name: "missing space after colon",
			line: "TODO:no space",
			ok:   false,
		},
		{
			name: "missing message",
			line: "TODO: ",
			ok:   false,
		},
		{
			name: "unknown keyword",
			line: "// HACK: nope",
			ok:   false,
		},
		{
			name:     "leftmost wins",
			line:     "NOTE: see TODO: later",
			ok:       true,
			start:    0,
			category: "NOTE",
			message:  "see TODO: later",
		},
		{
			name:     "greedy assignee",
			line:     "TODO(a): b (c): d",
			ok:       true,
			category: "TODO",
			assignee: "a): b (c",
			message:  "d",
		},
		{
			name:     "keyword after underscore is not a word start",
			line:     "x_TODO: no; TODO: yes",
			ok:       true,
			start:    12,
			category: "TODO",
			message:  "yes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := p.Match(tt.line)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.start, f.Start)
			assert.Equal(t, tt.category, f.Category)
			assert.Equal(t, tt.assignee, f.Assignee)
			assert.Equal(t, tt.message, f.Message)
		})
	}
}

func TestPattern_FindAll(t *testing.T) {
	p, err := Compile([]string{"TODO", "FIXME"})
	require.NoError(t, err)

	text := strings.Join([]string{
		"package main",
		"// TODO: first",
		"func f() {} // FIXME(bob): second",
		"// nothing here",
		"// TODO: third",
	}, "\n")

	found := p.FindAll(text)
	require.Len(t, found, 3)

	assert.Equal(t, "first", found[0].Message)
	assert.Equal(t, "bob", found[1].Assignee)
	assert.Equal(t, "second", found[1].Message)
	assert.Equal(t, "third", found[2].Message)

	// Offsets are absolute and point at the keyword
	for _, f := range found {
		assert.True(t, strings.HasPrefix(text[f.Start:], f.Category))
	}

	assert.Empty(t, p.FindAll("no annotations\nat all"))
}

func TestColumn(t *testing.T) {
	line := "// é TODO: accent before"
	p, err := Compile([]string{"TODO"})
	require.NoError(t, err)

	f, ok := p.Match(line)
	require.True(t, ok)
	assert.Equal(t, 6, f.Start, "byte offset counts the two-byte rune")
	assert.Equal(t, 5, Column(line, f.Start), "column counts characters")
	assert.Equal(t, utf8Len(line), Column(line, len(line)+10))
}

func utf8Len(s string) int {
	return len([]rune(s))
}
