// Package watch monitors scenario files for changes so run --watch can
// revalidate and restart the simulator. It uses fsnotify for efficient
// file system monitoring with a fallback to polling for environments
// where fsnotify is not available or reliable.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"simcat/pkg/logging"
)

// DefaultDebounceInterval is the time to wait after the last detected
// change before OnChange fires.
const DefaultDebounceInterval = 500 * time.Millisecond

// DefaultPollInterval is the fallback polling cadence when fsnotify is
// not available.
const DefaultPollInterval = 2 * time.Second

// Config holds configuration for the scenario file watcher.
type Config struct {
	// Paths are the scenario files to monitor.
	Paths []string

	// PollInterval is the fallback polling interval when fsnotify is
	// not available.
	PollInterval time.Duration

	// OnChange is called once per debounced burst of changes.
	OnChange func()
}

// Watcher monitors scenario files for changes and triggers OnChange.
type Watcher struct {
	mu sync.Mutex

	config Config

	// watched holds the cleaned paths of the monitored files.
	watched map[string]struct{}

	// fsWatcher is the fsnotify watcher (nil when polling)
	fsWatcher *fsnotify.Watcher

	// stopCh signals the watcher to stop
	stopCh chan struct{}

	// running indicates if the watcher is active
	running bool

	// lastModTimes tracks modification times for fallback polling
	lastModTimes map[string]time.Time

	// debounceTimer coalesces rapid successive changes
	debounceTimer *time.Timer
	debounceMu    sync.Mutex
}

// NewWatcher creates a watcher for the configured scenario files.
func NewWatcher(config Config) (*Watcher, error) {
	if len(config.Paths) == 0 {
		return nil, errors.New("no scenario files to watch")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}

	watched := make(map[string]struct{}, len(config.Paths))
	for _, p := range config.Paths {
		watched[filepath.Clean(p)] = struct{}{}
	}

	return &Watcher{
		config:       config,
		watched:      watched,
		lastModTimes: make(map[string]time.Time),
	}, nil
}

// Start begins watching for scenario changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.stopCh = make(chan struct{})
	w.running = true

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("watch", "fsnotify not available, falling back to polling: %v", err)
		go w.pollForChanges()
		return nil
	}

	w.fsWatcher = watcher

	for dir := range w.watchDirs() {
		if err := w.fsWatcher.Add(dir); err != nil {
			logging.Warn("watch", "failed to watch directory %s, falling back to polling: %v", dir, err)
			w.fsWatcher.Close()
			w.fsWatcher = nil
			go w.pollForChanges()
			return nil
		}
	}

	// Capture channels before releasing the lock to avoid racing Stop.
	eventsCh := w.fsWatcher.Events
	errorsCh := w.fsWatcher.Errors

	go w.processEvents(eventsCh, errorsCh)

	logging.Debug("watch", "watching %d scenario file(s) for changes", len(w.watched))
	return nil
}

// watchDirs returns the set of directories containing watched files.
func (w *Watcher) watchDirs() map[string]struct{} {
	dirs := make(map[string]struct{}, len(w.watched))
	for p := range w.watched {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	return dirs
}

// processEvents handles fsnotify events.
func (w *Watcher) processEvents(eventsCh <-chan fsnotify.Event, errorsCh <-chan error) {
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-errorsCh:
			if !ok {
				return
			}
			logging.Error("watch", err, "fsnotify error")
		}
	}
}

// handleEvent processes a single fsnotify event. Only write and create
// events on watched files count; editors that save via rename surface
// as creates of the target name.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.isWatchedPath(event.Name) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	logging.Debug("watch", "scenario file changed: %s", event.Name)
	w.triggerDebounced()
}

// isWatchedPath checks whether name refers to one of the watched files.
func (w *Watcher) isWatchedPath(name string) bool {
	_, ok := w.watched[filepath.Clean(name)]
	return ok
}

// triggerDebounced fires OnChange after the debounce period. Rapid
// successive changes reset the timer so one burst yields one callback.
func (w *Watcher) triggerDebounced() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(DefaultDebounceInterval, func() {
		w.mu.Lock()
		running := w.running
		callback := w.config.OnChange
		w.mu.Unlock()

		if running && callback != nil {
			callback()
		}
	})
}

// pollForChanges implements fallback polling when fsnotify is not
// available.
func (w *Watcher) pollForChanges() {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.updateModTimes()

	for {
		select {
		case <-w.stopCh:
			return

		case <-ticker.C:
			if w.checkForChanges() {
				logging.Debug("watch", "scenario changes detected via polling")
				w.triggerDebounced()
			}
		}
	}
}

// updateModTimes records the current modification times of all watched
// files.
func (w *Watcher) updateModTimes() {
	for p := range w.watched {
		if info, err := os.Stat(p); err == nil {
			w.lastModTimes[p] = info.ModTime()
		}
	}
}

// checkForChanges reports whether any watched file has been modified
// since the last check.
func (w *Watcher) checkForChanges() bool {
	changed := false

	for p := range w.watched {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}

		currentModTime := info.ModTime()
		if lastModTime, exists := w.lastModTimes[p]; exists {
			if currentModTime.After(lastModTime) {
				changed = true
			}
		}
		w.lastModTimes[p] = currentModTime
	}

	return changed
}

// Stop gracefully stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMu.Unlock()

	if w.fsWatcher != nil {
		if err := w.fsWatcher.Close(); err != nil {
			logging.Warn("watch", "error closing fsnotify watcher: %v", err)
		}
		w.fsWatcher = nil
	}

	return nil
}

// IsRunning returns whether the watcher is currently active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
