package fs

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/swimset/internal/ports"
)

// DefaultDebounceDelay is how long the watcher waits after the last change
// before reloading.
const DefaultDebounceDelay = 200 * time.Millisecond

// RosterWatcher reloads a roster file when it changes and hands the result to
// a callback. Invalid rosters are logged and skipped.
type RosterWatcher struct {
	mu       sync.Mutex
	path     string
	delay    time.Duration
	onChange func(Roster)
	logger   ports.Logger
	debounce *time.Timer
}

// NewRosterWatcher creates a watcher for path.
func NewRosterWatcher(path string, delay time.Duration, onChange func(Roster), logger ports.Logger) *RosterWatcher {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &RosterWatcher{path: path, delay: delay, onChange: onChange, logger: logger}
}

// Run watches until ctx is canceled. The directory is watched rather than the
// file so editors that replace the file on save are still seen.
func (w *RosterWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.logger.Info("watching roster", ports.String("path", w.path))

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("roster watcher error", ports.Err(err))
		}
	}
}

func (w *RosterWatcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, func() {
		if ctx.Err() != nil {
			return
		}
		w.reload()
	})
}

func (w *RosterWatcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}

func (w *RosterWatcher) reload() {
	r, err := LoadRoster(w.path)
	if err != nil {
		w.logger.Warn("roster reload skipped", ports.String("path", w.path), ports.Err(err))
		return
	}
	w.logger.Info("roster reloaded",
		ports.Int("athletes", len(r.Athletes)),
		ports.Int("groups", len(r.Groups)),
		ports.Int("sessions", len(r.Sessions)),
	)
	w.onChange(r)
}
