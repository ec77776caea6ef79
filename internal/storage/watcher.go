package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Slot change kinds passed to a ChangeCallback.
const (
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// ChangeCallback is called after a slot file changes on disk.
type ChangeCallback func(kind, key string)

// DefaultDebounce coalesces the burst of events an atomic write produces.
const DefaultDebounce = 100 * time.Millisecond

// Watch observes the file backend's directory until ctx is cancelled and
// reports slot changes made by any process, including this one. Events for
// the same key inside the debounce window collapse to the last one.
func Watch(ctx context.Context, root string, debounce time.Duration, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger.Info("slot watcher: started", slog.String("root", root))

	pending := make(map[string]string)
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("slot watcher: stopped")
			return nil

		case <-flushCh:
			for key, kind := range pending {
				logger.Debug("slot watcher: changed", slog.String("key", key), slog.String("op", kind))
				if cb != nil {
					cb(kind, key)
				}
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			key, isSlot := KeyOf(ev.Name)
			if !isSlot {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				pending[key] = ChangeUpdated
				schedule()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				pending[key] = ChangeDeleted
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("slot watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
