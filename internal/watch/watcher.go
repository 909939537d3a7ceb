// Package watch recompiles a submissions folder whenever a workbook in it
// is created, modified, renamed or removed.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period after the last change before a run.
const DefaultDebounce = 500 * time.Millisecond

// Config holds the watcher configuration.
type Config struct {
	Dir       string
	Recursive bool
	Debounce  time.Duration
	// Extension selects the files that trigger a run. Empty means ".xlsx".
	Extension string
	// Ignore lists files whose changes never trigger a run, such as the
	// report the handler writes into the watched folder.
	Ignore []string
}

// Handler runs one compile. trigger is the file whose change caused it.
type Handler func(ctx context.Context, trigger string) error

// Event records one handler run.
type Event struct {
	Time    time.Time `json:"time"`
	Trigger string    `json:"trigger"`
	Status  string    `json:"status"` // "processed", "error"
	Error   string    `json:"error,omitempty"`
}

// Watcher monitors a folder and runs Handler after changes settle.
type Watcher struct {
	Config  Config
	Handler Handler
	Logger  logrus.FieldLogger

	mu      sync.Mutex
	events  []Event
	timer   *time.Timer
	pending string
	ignore  map[string]bool
	watcher *fsnotify.Watcher
	runMu   sync.Mutex
}

// New creates a Watcher for cfg.Dir.
func New(cfg Config, handler Handler, log logrus.FieldLogger) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Extension == "" {
		cfg.Extension = ".xlsx"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	ignore := make(map[string]bool, len(cfg.Ignore))
	for _, p := range cfg.Ignore {
		if abs, err := filepath.Abs(p); err == nil {
			ignore[abs] = true
		}
	}

	return &Watcher{
		Config:  cfg,
		Handler: handler,
		Logger:  log,
		ignore:  ignore,
		watcher: fsw,
	}, nil
}

// Start watches the folder. It blocks until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	defer w.watcher.Close()

	dir, err := filepath.Abs(w.Config.Dir)
	if err != nil {
		return fmt.Errorf("could not resolve %s: %w", w.Config.Dir, err)
	}
	if w.Config.Recursive {
		if err := w.addRecursive(dir); err != nil {
			return err
		}
	} else if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}

	w.Logger.WithField("dir", dir).Info("watching for submission changes")

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.Config.Recursive && event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.watchNewDir(event.Name)
					continue
				}
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.WithError(err).Warn("watcher error")
		}
	}
}

// watchNewDir adds a directory created while watching. A directory that
// cannot be added stays unwatched and is logged.
func (w *Watcher) watchNewDir(dir string) {
	if err := w.addRecursive(dir); err != nil {
		w.Logger.WithField("dir", dir).WithError(err).Warn("could not watch new directory")
	}
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("could not watch %s: %w", path, err)
		}
		return nil
	})
}

// Relevant reports whether a change to path should trigger a run.
func (w *Watcher) Relevant(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), w.Config.Extension) {
		return false
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	if abs, err := filepath.Abs(path); err == nil && w.ignore[abs] {
		return false
	}
	return true
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.Relevant(event.Name) {
		return
	}

	w.Logger.WithFields(logrus.Fields{"file": event.Name, "op": event.Op.String()}).Debug("change detected")

	// One timer for the whole folder: a burst of uploads yields one run.
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = event.Name
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Config.Debounce, func() {
		w.mu.Lock()
		trigger := w.pending
		w.mu.Unlock()
		w.run(ctx, trigger)
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// run invokes the handler; runs never overlap.
func (w *Watcher) run(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	w.runMu.Lock()
	defer w.runMu.Unlock()

	evt := Event{Time: time.Now(), Trigger: trigger, Status: "processed"}
	if w.Handler != nil {
		if err := w.Handler(ctx, trigger); err != nil {
			evt.Status = "error"
			evt.Error = err.Error()
			w.Logger.WithField("file", trigger).WithError(err).Error("compile failed")
		}
	}

	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

// Events returns every recorded run.
func (w *Watcher) Events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}
