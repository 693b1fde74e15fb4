package testhelpers

import (
	"testing"

	"github.com/standardbeagle/todoview/internal/config"
)

// TestConfigBuilder provides a fluent API for building test configs
//
//	store := testhelpers.NewTestConfigBuilder(root).
//		WithCategories("TODO", "FIXME").
//		WithFileExclusions("*.min.js").
//		Store(t)
type TestConfigBuilder struct {
	cfg *config.Config
}

// NewTestConfigBuilder starts from the built-in defaults for a project root
func NewTestConfigBuilder(projectRoot string) *TestConfigBuilder {
	return &TestConfigBuilder{cfg: config.Default(projectRoot)}
}

// WithCategories replaces the category keywords
func (b *TestConfigBuilder) WithCategories(categories ...string) *TestConfigBuilder {
	b.cfg.Categories = categories
	return b
}

// WithRoots replaces the project roots
func (b *TestConfigBuilder) WithRoots(roots ...string) *TestConfigBuilder {
	b.cfg.Roots = roots
	return b
}

// WithFolderExclusions adds folder exclusion patterns
func (b *TestConfigBuilder) WithFolderExclusions(patterns ...string) *TestConfigBuilder {
	b.cfg.Exclude.FolderExclude = append(b.cfg.Exclude.FolderExclude, patterns...)
	return b
}

// WithFileExclusions adds file exclusion patterns
func (b *TestConfigBuilder) WithFileExclusions(patterns ...string) *TestConfigBuilder {
	b.cfg.Exclude.FileExclude = append(b.cfg.Exclude.FileExclude, patterns...)
	return b
}

// WithVerbatimMessages disables the " ..." message suffix
func (b *TestConfigBuilder) WithVerbatimMessages() *TestConfigBuilder {
	b.cfg.Output.TruncateMessages = false
	return b
}

// WithEmptyAssigneeMatchesUnassigned sets the empty assignee filter policy
func (b *TestConfigBuilder) WithEmptyAssigneeMatchesUnassigned(v bool) *TestConfigBuilder {
	b.cfg.Query.EmptyAssigneeMatchesUnassigned = v
	return b
}

// WithEmptyQuery sets the query run for empty input
func (b *TestConfigBuilder) WithEmptyQuery(q string) *TestConfigBuilder {
	b.cfg.Query.EmptyQuery = q
	return b
}

// Build returns the configuration
func (b *TestConfigBuilder) Build() *config.Config {
	return b.cfg
}

// Store validates the configuration and wraps it in a static store
func (b *TestConfigBuilder) Store(t testing.TB) *config.Store {
	t.Helper()
	if err := config.ValidateConfig(b.cfg); err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}
	store, err := config.NewStaticStore(b.cfg)
	if err != nil {
		t.Fatalf("compile test configuration: %v", err)
	}
	return store
}
