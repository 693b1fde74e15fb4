package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/todoview/internal/annotation"
	tverrors "github.com/standardbeagle/todoview/internal/errors"
)

func TestCompile(t *testing.T) {
	cfg := Default("/proj")
	s, err := Compile(cfg)
	require.NoError(t, err)

	assert.Same(t, cfg, s.Config)
	assert.Equal(t, cfg.Categories, s.Pattern.Categories())
	assert.True(t, s.Filter.ShouldIgnore("/proj/.git/config"))
	assert.Equal(t, "*:*:*", s.Parser.EmptyQuery)
	assert.True(t, s.MatchOptions().EmptyAssigneeMatchesUnassigned)

	long := "a message that is clearly longer than thirty characters"
	assert.Equal(t, long+" ...", s.Formatter()(long))

	cfg.Output.TruncateMessages = false
	assert.Equal(t, long, s.Formatter()(long))
}

func TestCompile_NoCategories(t *testing.T) {
	cfg := Default("/proj")
	cfg.Categories = nil
	_, err := Compile(cfg)
	assert.True(t, errors.Is(err, tverrors.ErrNoCategories))
}

func TestCompile_RespectGitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("generated/\n"), 0644))

	cfg := Default(root)
	cfg.RespectGitignore = true
	s, err := Compile(cfg)
	require.NoError(t, err)
	assert.True(t, s.Filter.ShouldIgnore(filepath.Join(root, "generated", "api.go")))
	assert.False(t, s.Filter.ShouldIgnore(filepath.Join(root, "main.go")))

	cfg.RespectGitignore = false
	plain, err := Compile(cfg)
	require.NoError(t, err)
	assert.False(t, plain.Filter.ShouldIgnore(filepath.Join(root, "generated", "api.go")))
}

// sequence returns a LoadFunc yielding each result in turn, then the last one forever
type sequence struct {
	mu      sync.Mutex
	results []func() (*Config, error)
}

func (s *sequence) load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return next()
}

func withFingerprint(categories []string, fp uint64) func() (*Config, error) {
	return func() (*Config, error) {
		cfg := Default("/proj")
		cfg.Categories = categories
		cfg.Fingerprint = fp
		return cfg, nil
	}
}

func TestStore_Reload(t *testing.T) {
	seq := &sequence{results: []func() (*Config, error){
		withFingerprint([]string{"TODO"}, 1),
		withFingerprint([]string{"TODO"}, 1),
		withFingerprint([]string{"TODO", "FIXME"}, 2),
		func() (*Config, error) { return nil, tverrors.NewConfigError("file", "x", errors.New("broken")) },
		withFingerprint(nil, 3),
	}}

	store, err := NewStore(seq.load)
	require.NoError(t, err)
	first := store.Current()
	assert.Equal(t, []string{"TODO"}, first.Pattern.Categories())

	changed, err := store.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "same fingerprint keeps the snapshot")
	assert.Same(t, first, store.Current())

	changed, err = store.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	second := store.Current()
	assert.Equal(t, []string{"TODO", "FIXME"}, second.Pattern.Categories())

	changed, err = store.Reload()
	assert.Error(t, err)
	assert.False(t, changed)
	assert.Same(t, second, store.Current(), "failed load keeps previous snapshot")

	changed, err = store.Reload()
	assert.True(t, errors.Is(err, tverrors.ErrNoCategories))
	assert.False(t, changed)
	assert.Same(t, second, store.Current(), "failed compile keeps previous snapshot")
}

func TestStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	var fp uint64
	var mu sync.Mutex
	load := func() (*Config, error) {
		mu.Lock()
		defer mu.Unlock()
		fp++
		cfg := Default("/proj")
		if fp%2 == 0 {
			cfg.Categories = []string{"FIXME"}
		} else {
			cfg.Categories = []string{"TODO"}
		}
		cfg.Fingerprint = fp
		return cfg, nil
	}
	store, err := NewStore(load)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s := store.Current()
				// Pattern and Config always come from the same load
				assert.Equal(t, s.Config.Categories, s.Pattern.Categories())
			}
		}()
	}
	for i := 0; i < 50; i++ {
		_, err := store.Reload()
		require.NoError(t, err)
	}
	wg.Wait()
}

func TestNewStaticStore(t *testing.T) {
	store, err := NewStaticStore(Default("/proj"))
	require.NoError(t, err)

	changed, err := store.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	m, ok := store.Current().Pattern.Match("// NOTE: static")
	require.True(t, ok)
	assert.Equal(t, annotation.Found{Start: 3, End: 15, Category: "NOTE", Message: "static"}, m)
}
