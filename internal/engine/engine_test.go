package engine

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/todoview/internal/annotation"
	"github.com/standardbeagle/todoview/internal/editor"
	tverrors "github.com/standardbeagle/todoview/internal/errors"
	"github.com/standardbeagle/todoview/internal/query"
	"github.com/standardbeagle/todoview/testhelpers"
)

const refactorMessage = "refactor this module because it is overly complex and fragile"

func TestRunQuery_EndToEnd(t *testing.T) {
	pb := testhelpers.NewProjectBuilder(t).AddLines("module.go",
		"package module",
		"",
		"import \"fmt\"",
		"",
		"// TODO(alice): "+refactorMessage,
		"// TODO(bob): someone else",
		"// FIXME(alice): another category",
	)
	root := pb.Build()

	host := editor.NewWorkspace(editor.WorkspaceOptions{Active: pb.Path("module.go")})
	e := New(testhelpers.NewTestConfigBuilder(root).Store(t), host)

	rs, err := e.RunQuery(context.Background(), "file:TODO:alice")
	require.NoError(t, err)
	require.Len(t, rs.Groups, 1)
	assert.Equal(t, pb.Path("module.go"), rs.Groups[0].Path)
	assert.Equal(t, []annotation.Match{{
		Position: annotation.Position{Row: 4, Column: 3},
		Category: "TODO",
		Assignee: "alice",
		Message:  refactorMessage + " ...",
	}}, rs.Groups[0].Matches)
	assert.Equal(t, 1, rs.Total())
	assert.Empty(t, rs.Warnings)
}

func TestRunQuery_ParseErrorBeforeScan(t *testing.T) {
	host := &countingHost{}
	e := New(testhelpers.NewTestConfigBuilder(t.TempDir()).Store(t), host)

	rs, err := e.RunQuery(context.Background(), "bad-query")
	assert.Nil(t, rs)
	assert.True(t, tverrors.IsParseError(err))
	assert.Zero(t, host.calls, "no sources are requested for a rejected query")
}

func TestRunQuery_AllScopeSkipsBinaryAndFiltered(t *testing.T) {
	pb := testhelpers.NewProjectBuilder(t).
		AddAnnotated("a.go", "TODO", "", "first").
		AddBinary("blob.dat").
		AddAnnotated("vendor/lib.go", "TODO", "", "vendored").
		AddAnnotated("sub/b.go", "NOTE", "carol", "second").
		AddFile("empty.go", "package p\n")
	root := pb.Build()

	store := testhelpers.NewTestConfigBuilder(root).WithFolderExclusions("vendor").Store(t)
	e := New(store, editor.NewWorkspace(editor.WorkspaceOptions{Roots: editor.StaticRoots(root)}))

	rs, err := e.RunQuery(context.Background(), "all:*:*")
	require.NoError(t, err)
	assert.Equal(t, []string{pb.Path("a.go"), pb.Path("sub/b.go")}, rs.Paths())

	g, ok := rs.Get(pb.Path("sub/b.go"))
	require.True(t, ok)
	assert.Equal(t, "carol", g.Matches[0].Assignee)

	_, ok = rs.Get(pb.Path("blob.dat"))
	assert.False(t, ok)
}

func TestRunQuery_Idempotent(t *testing.T) {
	pb := testhelpers.NewProjectBuilder(t).
		AddAnnotated("x.go", "TODO", "", "one").
		AddAnnotated("y/z.go", "FIXME", "dan", "two")
	root := pb.Build()

	e := New(testhelpers.NewTestConfigBuilder(root).Store(t),
		editor.NewWorkspace(editor.WorkspaceOptions{Roots: editor.StaticRoots(root)}))

	first, err := e.RunQuery(context.Background(), "*:*:*")
	require.NoError(t, err)
	second, err := e.RunQuery(context.Background(), "*:*:*")
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated query differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	assert.Equal(t, 2, first.Total())
}

func TestRunQuery_OpenScopeNoSources(t *testing.T) {
	e := New(testhelpers.NewTestConfigBuilder(t.TempDir()).Store(t), editor.NewWorkspace(editor.WorkspaceOptions{}))

	rs, err := e.RunQuery(context.Background(), "open:*:*")
	require.NoError(t, err)
	assert.True(t, rs.Empty())
	assert.Zero(t, rs.Total())
}

func TestRunQuery_OpenScopeUnsavedBuffers(t *testing.T) {
	root := t.TempDir()
	ws := editor.NewWorkspace(editor.WorkspaceOptions{})
	ws.SetBuffer(root+"/one.go", "x\n// NOTE: unsaved edit\n")
	ws.SetBuffer(root+"/two.go", "// TODO: in two\n")

	e := New(testhelpers.NewTestConfigBuilder(root).Store(t), ws)
	rs, err := e.RunQuery(context.Background(), "o:NOTE:*")
	require.NoError(t, err)
	require.Len(t, rs.Groups, 1)
	assert.Equal(t, annotation.Position{Row: 1, Column: 3}, rs.Groups[0].Matches[0].Position)
}

func TestRunQuery_SortByCategory(t *testing.T) {
	pb := testhelpers.NewProjectBuilder(t).
		AddAnnotated("1.go", "FIXME", "", "a").
		AddAnnotated("2.go", "TODO", "", "b").
		AddAnnotated("3.go", "NOTE", "", "c").
		AddAnnotated("4.go", "NOTE", "", "d")
	root := pb.Build()

	e := New(testhelpers.NewTestConfigBuilder(root).Store(t),
		editor.NewWorkspace(editor.WorkspaceOptions{Roots: editor.StaticRoots(root)}))

	rs, err := e.RunQuery(context.Background(), "all:*:*:category")
	require.NoError(t, err)

	var firsts []string
	for _, g := range rs.Groups {
		firsts = append(firsts, g.Matches[0].Category)
	}
	assert.Equal(t, []string{"FIXME", "NOTE", "NOTE", "TODO"}, firsts)
	assert.Equal(t, []string{pb.Path("1.go"), pb.Path("3.go"), pb.Path("4.go"), pb.Path("2.go")}, rs.Paths(),
		"ties keep discovery order")
}

func TestRunQuery_SortByAssigneeAndPath(t *testing.T) {
	pb := testhelpers.NewProjectBuilder(t).
		AddAnnotated("b.go", "TODO", "zed", "a").
		AddAnnotated("a.go", "TODO", "amy", "b").
		AddAnnotated("c.go", "TODO", "", "c")
	root := pb.Build()

	open := []string{pb.Path("b.go"), pb.Path("a.go"), pb.Path("c.go")}
	e := New(testhelpers.NewTestConfigBuilder(root).Store(t), editor.NewWorkspace(editor.WorkspaceOptions{Open: open}))

	rs, err := e.RunQuery(context.Background(), "open:*:*:assignee")
	require.NoError(t, err)
	assert.Equal(t, []string{pb.Path("c.go"), pb.Path("a.go"), pb.Path("b.go")}, rs.Paths())

	rs, err = e.RunQuery(context.Background(), "open:*:*:file")
	require.NoError(t, err)
	assert.Equal(t, []string{pb.Path("a.go"), pb.Path("b.go"), pb.Path("c.go")}, rs.Paths())

	rs, err = e.RunQuery(context.Background(), "open:*:*")
	require.NoError(t, err)
	assert.Equal(t, open, rs.Paths(), "no sort keeps editor order")
}

func TestRunQuery_EmptyAssigneeFilter(t *testing.T) {
	pb := testhelpers.NewProjectBuilder(t).
		AddAnnotated("a.go", "TODO", "", "unassigned").
		AddAnnotated("b.go", "TODO", "eve", "assigned")
	root := pb.Build()
	host := editor.NewWorkspace(editor.WorkspaceOptions{Roots: editor.StaticRoots(root)})

	on := New(testhelpers.NewTestConfigBuilder(root).Store(t), host)
	rs, err := on.RunQuery(context.Background(), "all:TODO:")
	require.NoError(t, err)
	assert.Equal(t, []string{pb.Path("a.go")}, rs.Paths())

	off := New(testhelpers.NewTestConfigBuilder(root).WithEmptyAssigneeMatchesUnassigned(false).Store(t), host)
	rs, err = off.RunQuery(context.Background(), "all:TODO:")
	require.NoError(t, err)
	assert.True(t, rs.Empty())
}

func TestRunQuery_EmptyQueryAndWarnings(t *testing.T) {
	pb := testhelpers.NewProjectBuilder(t).AddAnnotated("a.go", "TODO", "", "x")
	root := pb.Build()
	host := editor.NewWorkspace(editor.WorkspaceOptions{Roots: editor.StaticRoots(root)})

	e := New(testhelpers.NewTestConfigBuilder(root).Store(t), host)
	rs, err := e.RunQuery(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Total())

	rs, err = e.RunQuery(context.Background(), "all:TDOO:*")
	require.NoError(t, err)
	assert.True(t, rs.Empty())
	require.Len(t, rs.Warnings, 1)
	assert.Contains(t, rs.Warnings[0], "did you mean 'TODO'")
}

func TestRunQuery_DuplicatePathKeepsFirstPosition(t *testing.T) {
	pb := testhelpers.NewProjectBuilder(t).
		AddAnnotated("a.go", "TODO", "", "on disk").
		AddAnnotated("b.go", "TODO", "", "b")
	pb.Build()

	host := &fixedHost{open: []string{pb.Path("a.go"), pb.Path("b.go"), pb.Path("a.go")}}
	host.texts = map[string]string{
		pb.Path("a.go"): "// TODO: a\n",
		pb.Path("b.go"): "// TODO: b\n",
	}
	e := New(testhelpers.NewTestConfigBuilder(pb.Root()).Store(t), host)

	rs, err := e.RunQuery(context.Background(), "open:*:*")
	require.NoError(t, err)
	assert.Equal(t, []string{pb.Path("a.go"), pb.Path("b.go")}, rs.Paths())
}

func TestRun_Cancelled(t *testing.T) {
	root := testhelpers.NewProjectBuilder(t).AddAnnotated("a.go", "TODO", "", "x").Build()
	e := New(testhelpers.NewTestConfigBuilder(root).Store(t),
		editor.NewWorkspace(editor.WorkspaceOptions{Roots: editor.StaticRoots(root)}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q, err := query.Parse("all:*:*")
	require.NoError(t, err)
	_, err = e.Run(ctx, q)
	assert.ErrorIs(t, err, context.Canceled)
}
