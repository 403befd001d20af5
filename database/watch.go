package database

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// WatchFile announces every table as changed whenever the store file or its
// WAL is written, so writes made by another process (the CLI, for instance)
// reach live subscribers. Our own writes are announced twice, which only
// costs an extra re-read. The watcher stops when ctx is done.
func (r *Repository) WatchFile(ctx context.Context, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(r.db.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	base := filepath.Base(r.db.path)
	watched := map[string]bool{base: true, base + "-wal": true}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer watcher.Close()

		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !watched[filepath.Base(event.Name)] {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				if timer == nil {
					timer = time.AfterFunc(watchDebounce, r.hub.PublishAll)
				} else {
					timer.Reset(watchDebounce)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("store file watcher error", "path", r.db.path, "error", err)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		logger.Error("store file watcher stopped", "path", r.db.path, "error", err)
	}))

	logger.Info("watching store file for external writes", "path", r.db.path)
	return nil
}
