package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"

	tverrors "github.com/standardbeagle/todoview/internal/errors"
	"github.com/standardbeagle/todoview/internal/pathfilter"
	"github.com/standardbeagle/todoview/internal/query"
)

// FileNames are the configuration files looked up in each location, in priority order
var FileNames = []string{".todoview.kdl", ".todoview.toml", ".todoview.yaml", ".todoview.yml"}

// OutputFormats are the accepted values of output.format
var OutputFormats = []string{"text", "locations", "json", "html"}

// IsOutputFormat reports whether format is one of OutputFormats
func IsOutputFormat(format string) bool {
	return slices.Contains(OutputFormats, format)
}

type Config struct {
	Categories       []string         `json:"categories"`
	Roots            []string         `json:"roots"`
	Exclude          pathfilter.Rules `json:"exclude"`
	RespectGitignore bool             `json:"respect_gitignore"`
	Query            Query            `json:"query"`
	Output           Output           `json:"output"`

	// Sources lists the configuration files that were read, lowest priority first
	Sources []string `json:"sources"`
	// Candidates lists every path whose creation or change affects this configuration
	Candidates []string `json:"-"`
	// Fingerprint identifies the bytes of every file in Sources
	Fingerprint uint64 `json:"fingerprint"`
}

type Query struct {
	EmptyQuery                     string `json:"empty_query"`
	EmptyAssigneeMatchesUnassigned bool   `json:"empty_assignee_matches_unassigned"`
}

type Output struct {
	Format           string `json:"format"` // text, locations, json, html
	TruncateMessages bool   `json:"truncate_messages"`
	RelativePaths    bool   `json:"relative_paths"`
}

// Default returns the built-in configuration for a project rooted at root
func Default(root string) *Config {
	return &Config{
		Categories: []string{"TODO", "FIXME", "NOTE", "XXX", "HACK", "BUG"},
		Roots:      []string{root},
		Exclude: pathfilter.Rules{
			FolderExclude: []string{".svn", ".git", ".hg", "CVS"},
			BinaryFile: []string{
				"*.jpg", "*.jpeg", "*.png", "*.gif", "*.ttf", "*.tga", "*.dds",
				"*.ico", "*.eot", "*.pdf", "*.swf", "*.jar", "*.zip",
			},
			FileExclude: []string{
				"*.pyc", "*.pyo", "*.exe", "*.dll", "*.obj", "*.o", "*.a", "*.lib",
				"*.so", "*.dylib", "*.ncb", "*.sdf", "*.suo", "*.pdb", "*.idb",
				".DS_Store", "*.class", "*.psd", "*.db", "*.sublime-workspace",
			},
		},
		RespectGitignore: false,
		Query: Query{
			EmptyQuery:                     query.DefaultEmptyQuery,
			EmptyAssigneeMatchesUnassigned: true,
		},
		Output: Output{
			Format:           "text",
			TruncateMessages: true,
			RelativePaths:    true,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

// LoadWithRoot builds the configuration for the project in rootDir. A global
// file in the home directory is applied first, then either the explicit path
// or the first project file found in rootDir. An explicit path must exist.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	// Determine search directory for config files
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}
	if abs, err := filepath.Abs(searchDir); err == nil {
		searchDir = abs
	}

	cfg := Default(searchDir)
	hasher := xxhash.New()
	var layers []*layer

	// Step 1: global base config from the home directory (if any)
	if homeDir, err := os.UserHomeDir(); err == nil && filepath.Clean(homeDir) != searchDir {
		cfg.Candidates = append(cfg.Candidates, candidates(homeDir)...)
		l, err := findLayer(homeDir)
		if err != nil {
			return nil, err
		}
		if l != nil {
			layers = append(layers, l)
		}
	}

	// Step 2: project config, explicit or discovered
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		cfg.Candidates = append(cfg.Candidates, abs)
		l, err := readLayer(abs)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	} else {
		cfg.Candidates = append(cfg.Candidates, candidates(searchDir)...)
		l, err := findLayer(searchDir)
		if err != nil {
			return nil, err
		}
		if l != nil {
			layers = append(layers, l)
		}
	}

	// Step 3: merge, later layers override scalars and extend exclusion lists
	merged := &fileConfig{}
	for _, l := range layers {
		_, _ = hasher.WriteString(l.path)
		_, _ = hasher.Write(l.content)
		cfg.Sources = append(cfg.Sources, l.path)
		merged = mergeConfigs(merged, l.resolved())
	}
	merged.applyTo(cfg)
	cfg.Fingerprint = hasher.Sum64()

	return cfg, nil
}

// layer is one configuration file that was found and parsed
type layer struct {
	path    string
	content []byte
	fc      *fileConfig
}

// resolved returns the layer's settings with relative roots anchored at the
// directory containing the file
func (l *layer) resolved() *fileConfig {
	fc := *l.fc
	if len(fc.Roots) > 0 {
		dir := filepath.Dir(l.path)
		roots := make([]string, len(fc.Roots))
		for i, r := range fc.Roots {
			if !filepath.IsAbs(r) {
				r = filepath.Join(dir, r)
			}
			roots[i] = filepath.Clean(r)
		}
		fc.Roots = roots
	}
	return &fc
}

func candidates(dir string) []string {
	out := make([]string, len(FileNames))
	for i, name := range FileNames {
		out[i] = filepath.Join(dir, name)
	}
	return out
}

// findLayer reads the first configuration file present in dir. It returns
// nil when there is none.
func findLayer(dir string) (*layer, error) {
	for _, path := range candidates(dir) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return readLayer(path)
	}
	return nil, nil
}

func readLayer(path string) (*layer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, tverrors.NewConfigError("file", path, err)
	}

	var fc *fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".kdl":
		fc, err = parseKDL(string(content))
	case ".toml":
		fc, err = parseTOML(content)
	case ".yaml", ".yml":
		fc, err = parseYAML(content)
	default:
		err = fmt.Errorf("unsupported configuration format %q", ext)
	}
	if err != nil {
		return nil, tverrors.NewConfigError("file", path, err)
	}
	return &layer{path: path, content: content, fc: fc}, nil
}

// fileConfig is the partial configuration one file provides. Nil fields are unset.
type fileConfig struct {
	Categories       []string       `toml:"categories" yaml:"categories"`
	Roots            []string       `toml:"roots" yaml:"roots"`
	Exclude          excludeSection `toml:"exclude" yaml:"exclude"`
	RespectGitignore *bool          `toml:"respect_gitignore" yaml:"respect_gitignore"`
	Query            querySection   `toml:"query" yaml:"query"`
	Output           outputSection  `toml:"output" yaml:"output"`
}

type excludeSection struct {
	Folders []string `toml:"folders" yaml:"folders"`
	Binary  []string `toml:"binary" yaml:"binary"`
	Files   []string `toml:"files" yaml:"files"`
}

type querySection struct {
	EmptyQuery                     *string `toml:"empty_query" yaml:"empty_query"`
	EmptyAssigneeMatchesUnassigned *bool   `toml:"empty_assignee_matches_unassigned" yaml:"empty_assignee_matches_unassigned"`
}

type outputSection struct {
	Format           *string `toml:"format" yaml:"format"`
	TruncateMessages *bool   `toml:"truncate_messages" yaml:"truncate_messages"`
	RelativePaths    *bool   `toml:"relative_paths" yaml:"relative_paths"`
}

// mergeConfigs merges a base config with a project config.
// Project values take precedence; exclusion lists from both are kept.
func mergeConfigs(base, project *fileConfig) *fileConfig {
	merged := *project

	if merged.Categories == nil {
		merged.Categories = base.Categories
	}
	if merged.Roots == nil {
		merged.Roots = base.Roots
	}
	merged.Exclude = excludeSection{
		Folders: union(base.Exclude.Folders, project.Exclude.Folders),
		Binary:  union(base.Exclude.Binary, project.Exclude.Binary),
		Files:   union(base.Exclude.Files, project.Exclude.Files),
	}
	if merged.RespectGitignore == nil {
		merged.RespectGitignore = base.RespectGitignore
	}
	if merged.Query.EmptyQuery == nil {
		merged.Query.EmptyQuery = base.Query.EmptyQuery
	}
	if merged.Query.EmptyAssigneeMatchesUnassigned == nil {
		merged.Query.EmptyAssigneeMatchesUnassigned = base.Query.EmptyAssigneeMatchesUnassigned
	}
	if merged.Output.Format == nil {
		merged.Output.Format = base.Output.Format
	}
	if merged.Output.TruncateMessages == nil {
		merged.Output.TruncateMessages = base.Output.TruncateMessages
	}
	if merged.Output.RelativePaths == nil {
		merged.Output.RelativePaths = base.Output.RelativePaths
	}

	return &merged
}

// union concatenates lists keeping the first occurrence of each pattern. It
// returns nil when every list is unset so the built-in defaults still apply.
func union(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		if list != nil && out == nil {
			out = make([]string, 0, len(list))
		}
		for _, p := range list {
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// applyTo overwrites cfg with every value set in fc. A configured exclusion
// list replaces the built-in list of the same kind.
func (fc *fileConfig) applyTo(cfg *Config) {
	if fc.Categories != nil {
		cfg.Categories = fc.Categories
	}
	if fc.Roots != nil {
		cfg.Roots = fc.Roots
	}
	if fc.Exclude.Folders != nil {
		cfg.Exclude.FolderExclude = fc.Exclude.Folders
	}
	if fc.Exclude.Binary != nil {
		cfg.Exclude.BinaryFile = fc.Exclude.Binary
	}
	if fc.Exclude.Files != nil {
		cfg.Exclude.FileExclude = fc.Exclude.Files
	}
	if fc.RespectGitignore != nil {
		cfg.RespectGitignore = *fc.RespectGitignore
	}
	if fc.Query.EmptyQuery != nil {
		cfg.Query.EmptyQuery = *fc.Query.EmptyQuery
	}
	if fc.Query.EmptyAssigneeMatchesUnassigned != nil {
		cfg.Query.EmptyAssigneeMatchesUnassigned = *fc.Query.EmptyAssigneeMatchesUnassigned
	}
	if fc.Output.Format != nil {
		cfg.Output.Format = *fc.Output.Format
	}
	if fc.Output.TruncateMessages != nil {
		cfg.Output.TruncateMessages = *fc.Output.TruncateMessages
	}
	if fc.Output.RelativePaths != nil {
		cfg.Output.RelativePaths = *fc.Output.RelativePaths
	}
}

// Clone returns a deep copy of c
func (c *Config) Clone() *Config {
	out := *c
	out.Categories = append([]string(nil), c.Categories...)
	out.Roots = append([]string(nil), c.Roots...)
	out.Exclude = pathfilter.Rules{
		FolderExclude: append([]string(nil), c.Exclude.FolderExclude...),
		BinaryFile:    append([]string(nil), c.Exclude.BinaryFile...),
		FileExclude:   append([]string(nil), c.Exclude.FileExclude...),
	}
	out.Sources = append([]string(nil), c.Sources...)
	out.Candidates = append([]string(nil), c.Candidates...)
	return &out
}
