// Package watch re-runs a script whenever its file changes.
package watch

import (
	"context"
	"path/filepath"
	"time"
)

// Op indicates a change operation in the filesystem.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event describes a filesystem change event.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Watcher provides a platform-independent file watching API.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}

// Logger receives watch loop diagnostics
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// RunFunc executes one cycle of the watched script
type RunFunc func(ctx context.Context) error

// DefaultDebounce coalesces the burst of events an editor save produces
const DefaultDebounce = 100 * time.Millisecond

// Loop runs once, then again after every write, create or rename of path,
// until ctx is done or the watcher's channels close. Events arriving within
// debounce of each other trigger a single run. A failing run is logged and
// does not stop the loop.
func Loop(ctx context.Context, w Watcher, path string, debounce time.Duration, run RunFunc, logger Logger) error {
	if logger == nil {
		logger = nopLogger{}
	}
	path = filepath.Clean(path)
	if err := w.Add(path); err != nil {
		return err
	}

	cycle := func() {
		if err := run(ctx); err != nil {
			logger.Warn("run failed: %v", err)
		}
	}
	cycle()

	events, errs := w.Events(), w.Errors()
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Path) != path {
				continue
			}
			logger.Debug("event %s on %s", ev.Op, ev.Path)

			if ev.Op&(OpRemove|OpRename) != 0 {
				// editors that save by rename leave the old watch dangling
				if err := w.Add(path); err != nil {
					logger.Warn("re-watching %s: %v", path, err)
				}
			}
			if ev.Op&(OpWrite|OpCreate|OpRename) == 0 {
				continue
			}
			if debounce <= 0 {
				logger.Info("%s changed, re-running", path)
				cycle()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			logger.Info("%s changed, re-running", path)
			cycle()

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

func (op Op) String() string {
	names := []struct {
		op   Op
		name string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
	}
	s := ""
	for _, n := range names {
		if op&n.op != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "NONE"
	}
	return s
}
