package config

import (
	"sync"
	"sync/atomic"

	"github.com/standardbeagle/todoview/internal/annotation"
	"github.com/standardbeagle/todoview/internal/debug"
	"github.com/standardbeagle/todoview/internal/pathfilter"
	"github.com/standardbeagle/todoview/internal/query"
)

// Settings is an immutable compiled configuration snapshot. A query reads
// one snapshot for its whole run.
type Settings struct {
	Config  *Config
	Pattern *annotation.Pattern
	Filter  *pathfilter.Filter
	Parser  *query.Parser
}

// Compile builds the pattern, path filter and parser for cfg
func Compile(cfg *Config) (*Settings, error) {
	pattern, err := annotation.Compile(cfg.Categories)
	if err != nil {
		return nil, err
	}

	filter := pathfilter.NewFilter(cfg.Exclude)
	if cfg.RespectGitignore {
		for _, root := range cfg.Roots {
			gp := NewGitignoreParser()
			if err := gp.LoadGitignore(root); err != nil {
				debug.LogConfig("cannot read .gitignore in %s: %v\n", root, err)
				continue
			}
			if gp.Len() > 0 {
				filter = filter.WithIgnorer(root, gp)
			}
		}
	}

	return &Settings{
		Config:  cfg,
		Pattern: pattern,
		Filter:  filter,
		Parser:  &query.Parser{EmptyQuery: cfg.Query.EmptyQuery},
	}, nil
}

// Formatter returns the message formatter selected by output.truncate_messages
func (s *Settings) Formatter() annotation.Formatter {
	if s.Config.Output.TruncateMessages {
		return annotation.FormatMessage
	}
	return annotation.Verbatim
}

// MatchOptions returns the filter acceptance options
func (s *Settings) MatchOptions() query.Options {
	return query.Options{
		EmptyAssigneeMatchesUnassigned: s.Config.Query.EmptyAssigneeMatchesUnassigned,
	}
}

// LoadFunc produces a validated configuration
type LoadFunc func() (*Config, error)

// Store owns the current Settings. Reload swaps the snapshot atomically so a
// running query sees either the old or the new configuration, never a mix.
type Store struct {
	load    LoadFunc
	current atomic.Pointer[Settings]
	mu      sync.Mutex // serializes reloads
}

// NewStore loads and compiles the initial snapshot
func NewStore(load LoadFunc) (*Store, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	settings, err := Compile(cfg)
	if err != nil {
		return nil, err
	}

	s := &Store{load: load}
	s.current.Store(settings)
	return s, nil
}

// NewStaticStore creates a store that never changes
func NewStaticStore(cfg *Config) (*Store, error) {
	return NewStore(func() (*Config, error) { return cfg, nil })
}

// Current returns the active snapshot
func (s *Store) Current() *Settings {
	return s.current.Load()
}

// Reload loads the configuration again and swaps it in when its fingerprint
// changed. On error the previous snapshot stays active.
func (s *Store) Reload() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.load()
	if err != nil {
		debug.LogConfig("reload failed, keeping previous configuration: %v\n", err)
		return false, err
	}
	if cur := s.current.Load(); cur != nil && cur.Config.Fingerprint == cfg.Fingerprint {
		return false, nil
	}

	settings, err := Compile(cfg)
	if err != nil {
		debug.LogConfig("reload failed, keeping previous configuration: %v\n", err)
		return false, err
	}
	s.current.Store(settings)
	debug.LogConfig("configuration reloaded from %v (fingerprint %x)\n", cfg.Sources, cfg.Fingerprint)
	return true, nil
}
