package preview

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/docweave/docweave/internal/errors"
)

// debouncer folds a burst of triggers into one delayed fire. Each trigger
// restarts the delay.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fire  func()
}

func newDebouncer(delay time.Duration, fire func()) *debouncer {
	return &debouncer{delay: delay, fire: fire}
}

func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// watch starts a recursive watcher on the source tree. New directories are
// added as they appear.
func (s *Server) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher")
	}
	if err := addDirsRecursive(watcher, s.srcdir); err != nil {
		_ = watcher.Close()
		return errors.WrapError(err, errors.CategoryFileSystem,
			"failed to watch source directory")
	}
	slog.Info("Watching for changes", "dir", s.srcdir, "debounce", s.cfg.Preview.Debounce)

	go s.watchLoop(ctx, watcher)
	return nil
}

func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	debounce := newDebouncer(s.cfg.Preview.DebounceDuration(), func() {
		s.requestRebuild(false)
	})
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(watcher, ev.Name)
				}
			}
			slog.Debug("File change detected", "path", ev.Name, "op", ev.Op.String())
			debounce.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

// schedulePeriodic starts a gocron job forcing a full rebuild every
// interval.
func (s *Server) schedulePeriodic(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to create scheduler")
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.requestRebuild(true) }),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryInternal,
			"failed to schedule periodic rebuild")
	}
	sched.Start()
	slog.Info("Periodic full rebuild scheduled", "interval", interval)
	return sched, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", "dir", path, "error", err)
			}
		}
		return nil
	})
}

// shouldIgnoreEvent filters events that must not trigger rebuilds: hidden
// files, editor swap and backup files, OS debris.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	if base == "Thumbs.db" {
		return true
	}
	return false
}
