// Package watcher re-scans mod files as they change on disk and lets the
// workspace settle into a validation pass after each burst of edits.
//
// It is used by `oxc watch`.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/oxcheck/internal/paths"
	"github.com/aidanlsb/oxcheck/internal/workspace"
)

// Watcher monitors the mod root and feeds changes into a workspace.
// The vanilla root is never watched.
type Watcher struct {
	ws *workspace.Workspace

	// Configuration
	debounceDelay time.Duration
	debug         bool

	// Internal state
	fsWatcher *fsnotify.Watcher
	pending   map[string]pendingChange
	mu        sync.Mutex

	// Callbacks
	onChange func(path string, err error)
}

type pendingChange struct {
	at     time.Time
	remove bool
}

// Config holds configuration options for the Watcher.
type Config struct {
	Workspace     *workspace.Workspace
	DebounceDelay time.Duration // Default: 100ms
	Debug         bool
	OnChange      func(path string, err error) // Optional callback
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Workspace == nil {
		return nil, fmt.Errorf("workspace is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}

	return &Watcher{
		ws:            cfg.Workspace,
		debounceDelay: debounce,
		debug:         cfg.Debug,
		pending:       make(map[string]pendingChange),
		onChange:      cfg.OnChange,
	}, nil
}

// Start begins watching the mod root for file changes.
// It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	root := w.ws.ModRoot()
	if err := w.addWatchRecursive(root); err != nil {
		return fmt.Errorf("failed to watch mod: %w", err)
	}

	w.logDebug("Watching mod: %s", root)

	// Start debounce processor
	go w.processDebounced(ctx)

	// Event loop
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logDebug("Watcher error: %v", err)
		}
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if _, _, ok := w.ws.Classify(path); !ok {
		// But watch new directories
		if event.Op&fsnotify.Create != 0 && w.fsWatcher != nil {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.addWatchRecursive(path)
			}
		}
		return
	}

	w.logDebug("Event: %s %s", event.Op, path)

	switch {
	case event.Op&fsnotify.Write != 0, event.Op&fsnotify.Create != 0:
		w.schedule(path, false)
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		w.schedule(path, true)
	}
}

// schedule adds a file to the pending queue with debouncing. The latest
// event for a path wins.
func (w *Watcher) schedule(path string, remove bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = pendingChange{at: time.Now(), remove: remove}
}

// processDebounced processes pending changes after debounce delay.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending applies every change past the debounce delay as one batch.
// All operations of the batch are in flight before the first one ends, so
// the workspace runs a single pass for the whole burst.
func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	ready := make(map[string]pendingChange)

	for path, change := range w.pending {
		if now.Sub(change.at) >= w.debounceDelay {
			ready[path] = change
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(ready) == 0 {
		return
	}

	readyPaths := make([]string, 0, len(ready))
	dones := make(map[string]func(), len(ready))
	for path, change := range ready {
		readyPaths = append(readyPaths, path)
		op := workspace.OpLoad
		if change.remove {
			op = workspace.OpDelete
		}
		dones[path] = w.ws.Begin(op)
	}
	sort.Strings(readyPaths)

	for _, path := range readyPaths {
		var err error
		if ready[path].remove {
			w.ws.RemoveFile(path)
		} else {
			err = w.rescan(path)
		}
		if w.onChange != nil {
			w.onChange(path, err)
		}
		if err != nil {
			w.logDebug("Failed to rescan %s: %v", path, err)
		} else {
			w.logDebug("Applied: %s", paths.Display(w.ws.ModRoot(), path))
		}
		dones[path]()
	}
}

// rescan reads a file and replaces its contribution. A file that vanished
// between the event and the read is treated as removed.
func (w *Watcher) rescan(path string) error {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		w.ws.RemoveFile(path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return w.ws.SetFile(path, content)
}

// Pending returns the number of changes waiting for the debounce delay.
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// addWatchRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			// Skip ignored directories
			if path != root && paths.IsIgnoredDir(info.Name()) {
				return filepath.SkipDir
			}
			if err := w.fsWatcher.Add(path); err != nil {
				w.logDebug("Failed to watch %s: %v", path, err)
			}
		}
		return nil
	})
}

// logDebug logs a debug message if debug mode is enabled.
func (w *Watcher) logDebug(format string, args ...interface{}) {
	if w.debug {
		fmt.Fprintf(os.Stderr, "[oxc-watcher] "+format+"\n", args...)
	}
}
