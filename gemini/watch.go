package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig watches a config file and calls apply with each successfully
// reloaded configuration. Invalid reloads are logged and skipped. Blocks
// until the context is cancelled or the watcher fails.
//
// The parent directory is watched rather than the file itself, so editors
// that replace the file on save (rename + create) are handled.
func WatchConfig(ctx context.Context, path string, logger *slog.Logger, apply func(Config)) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				logger.Warn("config reload failed", slog.String("path", path), slog.Any("error", err))
				continue
			}
			if err := cfg.Validate(); err != nil {
				logger.Warn("config reload rejected", slog.String("path", path), slog.Any("error", err))
				continue
			}
			logger.Info("config reloaded", slog.String("path", path), slog.String("model", cfg.Model))
			apply(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", slog.Any("error", err))
		}
	}
}
