package seed

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long the watcher waits for a burst of writes to settle.
const Debounce = 150 * time.Millisecond

// ReloadCallback is called after a watcher-driven reload of entity.
type ReloadCallback func(entity string)

// Watch reloads seed files as they change until ctx is cancelled. Removing a
// seed file leaves the field's committed state in place.
func Watch(ctx context.Context, l *Loader, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(l.dir.Root()); err != nil {
		return err
	}
	logger.Info("seed watcher: started", slog.String("root", l.dir.Root()))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("seed watcher: stopped")
			return nil

		case <-timerCh:
			for entity := range pending {
				changed, err := l.Load(entity)
				if err != nil {
					logger.Warn("seed watcher: reload failed",
						slog.String("entity", entity),
						slog.String("error", err.Error()))
					continue
				}
				if changed {
					logger.Info("seed watcher: reloaded", slog.String("entity", entity))
					if cb != nil {
						cb(entity)
					}
				}
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			entity, isSeed := EntityOf(ev.Name)
			if !isSeed {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				pending[entity] = struct{}{}
				schedule()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Editors often save by rename; the Create that follows reloads it.
				logger.Debug("seed watcher: file gone", slog.String("entity", entity))
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("seed watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
