package config

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/todoview/internal/debug"
)

// DefaultDebounce is the quiet period after a change before reloading
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a Store when one of its configuration files changes
type Watcher struct {
	store    *Store
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer

	// OnReload is called after every reload attempt, if set
	OnReload func(changed bool, err error)
}

// NewWatcher creates a watcher for store
func NewWatcher(store *Store, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{store: store, debounce: debounce}
}

// Run watches the directories of every candidate configuration file until ctx
// is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	watched := make(map[string]bool)
	for _, dir := range w.dirs() {
		if err := fsw.Add(dir); err != nil {
			log.Printf("Warning: failed to watch %s: %v", dir, err)
			continue
		}
		watched[dir] = true
	}
	debug.LogConfig("watching %d configuration directories\n", len(watched))

	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.isCandidate(event.Name) {
				debug.LogConfig("configuration event %s\n", event)
				w.schedule()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("Configuration watcher error: %v", err)
		}
	}
}

// dirs returns the unique directories containing candidate files
func (w *Watcher) dirs() []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, c := range w.store.Current().Config.Candidates {
		dir := filepath.Dir(c)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func (w *Watcher) isCandidate(name string) bool {
	name = filepath.Clean(name)
	for _, c := range w.store.Current().Config.Candidates {
		if filepath.Clean(c) == name {
			return true
		}
	}
	return false
}

// schedule (re)starts the debounce timer
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	changed, err := w.store.Reload()
	if err != nil {
		log.Printf("Configuration reload failed: %v", err)
	}
	if w.OnReload != nil {
		w.OnReload(changed, err)
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
