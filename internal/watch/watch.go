// Package watch drives routing passes continuously, polling on a fixed
// interval and waking early when a source directory changes.
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Veraticus/docsort/internal/model"
)

const (
	// DefaultInterval is the delay between two passes when nothing changes.
	DefaultInterval = 5 * time.Second
	// DefaultDebounce collapses bursts of filesystem events into one wake-up.
	DefaultDebounce = 500 * time.Millisecond
)

// Runner performs one pass over every source.
type Runner interface {
	RunAll(ctx context.Context, sources []model.Source) ([]*model.PassReport, error)
}

// Loop repeats passes until its context is cancelled. Passes never overlap.
type Loop struct {
	runner     Runner
	newWatcher func() (*fsnotify.Watcher, error)
	OnPass     func(reports []*model.PassReport, err error)
	sources    []model.Source
	Interval   time.Duration
	Debounce   time.Duration
}

// New creates a loop. A non-positive interval uses DefaultInterval.
func New(runner Runner, sources []model.Source, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		runner:     runner,
		sources:    sources,
		Interval:   interval,
		Debounce:   DefaultDebounce,
		newWatcher: fsnotify.NewWatcher,
	}
}

// Run executes passes until ctx is done. It returns nil on cancellation;
// a failed pass is logged and retried on the next tick.
func (l *Loop) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wake := make(chan struct{}, 1)

	watcher, err := l.newWatcher()
	if err != nil {
		slog.Warn("Filesystem notifications unavailable, polling only", "error", err)
	} else {
		defer func() {
			if closeErr := watcher.Close(); closeErr != nil {
				slog.Debug("Failed to close watcher", "error", closeErr)
			}
		}()
		for _, src := range l.sources {
			if addErr := watcher.Add(src.Dir); addErr != nil {
				slog.Warn("Failed to watch source directory", "dir", src.Dir, "error", addErr)
			}
		}
		go forward(ctx, watcher, wake)
	}

	slog.Info("Watching sources", "sources", len(l.sources), "interval", l.Interval)

	for {
		reports, runErr := l.runner.RunAll(ctx, l.sources)
		if ctx.Err() != nil {
			slog.Info("Watch loop stopped")
			return nil
		}
		if runErr != nil {
			slog.Error("Pass failed", "error", runErr)
		}
		if l.OnPass != nil {
			l.OnPass(reports, runErr)
		}

		if !l.wait(ctx, wake) {
			slog.Info("Watch loop stopped")
			return nil
		}
	}
}

// wait blocks until the next pass is due and reports false once ctx is done.
func (l *Loop) wait(ctx context.Context, wake <-chan struct{}) bool {
	timer := time.NewTimer(l.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case <-wake:
	}

	if l.Debounce <= 0 {
		return ctx.Err() == nil
	}
	debounce := time.NewTimer(l.Debounce)
	defer debounce.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-debounce.C:
		return true
	}
}

// forward turns relevant filesystem events into non-blocking wake signals.
func forward(ctx context.Context, watcher *fsnotify.Watcher, wake chan<- struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("Source changed", "path", event.Name, "op", event.Op.String())
			select {
			case wake <- struct{}{}:
			default:
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", "error", watchErr)
		}
	}
}
