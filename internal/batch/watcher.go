package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

// ReportFunc receives the outcome of every run started by a Watcher.
type ReportFunc func(*Report, error)

// Watcher re-runs a job file whenever it changes.
type Watcher struct {
	path     string
	runner   *Runner
	onReport ReportFunc
	debounce time.Duration
	logger   *zap.Logger
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period between the last change and the re-run.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the logger. A nil logger keeps the no-op default.
func WithWatchLogger(l *zap.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a Watcher for the job file at path.
func NewWatcher(path string, runner *Runner, onReport ReportFunc, opts ...WatchOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		runner:   runner,
		onReport: onReport,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run runs the job once, then again after every write to the file, until ctx
// is cancelled. The parent directory is watched so editors that replace the
// file on save are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.logger.Info("watching job file", zap.String("path", w.path))

	w.runOnce(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("job file changed", zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	job, err := Load(w.path)
	if err != nil {
		w.logger.Warn("job reload failed", zap.Error(err))
		w.onReport(nil, err)
		return
	}
	report, err := w.runner.Run(ctx, job)
	if err != nil {
		w.logger.Warn("job run failed", zap.Error(err))
	}
	w.onReport(report, err)
}
