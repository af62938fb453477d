// Package watch runs sweeps continuously: fsnotify events on the input
// directory trigger a debounced sweep, and a ticker sweeps periodically in
// case events were missed. Adapted for long-running use from the one-shot
// auto mode; an flock keeps two watchers off the same tree.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"scrubexif/internal/lock"
	"scrubexif/internal/metrics"
	"scrubexif/internal/model"
)

// SweepFunc runs one directory sweep and reports its summary.
type SweepFunc func(ctx context.Context) (*model.Summary, error)

type Watcher struct {
	cfg   model.Config
	sweep SweepFunc

	fileLock *lock.FileLock
	out      io.Writer
	logger   *log.Logger
	logLevel model.LogLevel
}

func New(cfg model.Config, sweep SweepFunc, out io.Writer, logger *log.Logger, level model.LogLevel) *Watcher {
	return &Watcher{
		cfg:      cfg,
		sweep:    sweep,
		fileLock: lock.NewFileLock(filepath.Join(cfg.Photos.Root, ".scrubexif-watch.lock")),
		out:      out,
		logger:   logger,
		logLevel: level,
	}
}

// Run blocks until ctx is cancelled. The initial sweep runs immediately so a
// backlog left from downtime is drained before the first event arrives.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.fileLock.TryLock(); err != nil {
		return fmt.Errorf("watch lock: %w", err)
	}
	defer w.fileLock.Unlock()
	w.log(model.LogLevelInfo, "watch mode starting pid=%d input=%s", os.Getpid(), w.cfg.Photos.Input)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.cfg.Photos.Input); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Photos.Input, err)
	}

	scanInterval := w.cfg.Watch.ScanIntervalSec
	if scanInterval <= 0 {
		scanInterval = 60
	}
	debounce := time.Duration(w.cfg.Watch.DebounceSec * float64(time.Second))
	if debounce <= 0 {
		debounce = 2 * time.Second
	}

	// Coalescing trigger: an event burst or a tick becomes at most one
	// queued sweep.
	trigger := make(chan struct{}, 1)
	kick := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}
	kick()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return w.eventLoop(ctx, fsw, debounce, kick) })
	g.Go(func() error { return w.tickerLoop(ctx, time.Duration(scanInterval)*time.Second, kick) })
	g.Go(func() error { return w.sweepLoop(ctx, trigger) })
	if addr := w.cfg.Watch.MetricsListen; addr != "" {
		g.Go(func() error { return w.serveMetrics(ctx, addr) })
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	w.log(model.LogLevelInfo, "watch mode stopped")
	return err
}

// eventLoop debounces filesystem events into sweep triggers. The gate does
// the real settling work; the debounce only spares us a sweep per write.
func (w *Watcher) eventLoop(ctx context.Context, fsw *fsnotify.Watcher, debounce time.Duration, kick func()) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				w.log(model.LogLevelDebug, "fsnotify event=%s file=%s", event.Op, event.Name)
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log(model.LogLevelError, "fsnotify error=%v", err)
		case <-timer.C:
			kick()
		}
	}
}

func (w *Watcher) tickerLoop(ctx context.Context, interval time.Duration, kick func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.log(model.LogLevelDebug, "periodic sweep triggered")
			kick()
		}
	}
}

// sweepLoop serializes sweeps: one at a time, in trigger order.
func (w *Watcher) sweepLoop(ctx context.Context, trigger <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-trigger:
			summary, err := w.sweep(ctx)
			if err != nil {
				// Directory roles can reappear (remounts); keep watching.
				w.log(model.LogLevelError, "sweep failed: %v", err)
				continue
			}
			summary.Render(w.out)
			fmt.Fprintln(w.out, summary.Line())
			metrics.ObserveSweep(summary)
		}
	}
}

func (w *Watcher) serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	w.log(model.LogLevelInfo, "metrics listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}

func (w *Watcher) log(level model.LogLevel, format string, args ...any) {
	if w.logger == nil || level < w.logLevel {
		return
	}
	w.logger.Printf("[%s] "+format, append([]any{level.String()}, args...)...)
}
