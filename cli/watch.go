package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long the file must stay quiet before it is reparsed.
const watchDebounce = 100 * time.Millisecond

// watchFile calls run once, then again after every change to path, until ctx
// is cancelled. The parent directory is watched so that editors replacing the
// file by rename are still seen.
func watchFile(ctx context.Context, path string, logger *slog.Logger, run func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	logger.Debug("watching for changes", "file", abs)

	run()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Debug("stopping watcher", "file", abs)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("file changed", "file", abs, "op", event.Op.String())
			pending = time.After(watchDebounce)

		case <-pending:
			pending = nil
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
