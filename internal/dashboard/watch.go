package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"wrapped/internal/logging"
)

// DefaultDebounce coalesces the burst of events produced by one save.
const DefaultDebounce = 300 * time.Millisecond

// Watch calls onChange each time the file at path is written or replaced,
// until ctx is cancelled. The parent directory is watched so atomic
// rename-over writes are seen. onChange never runs concurrently with itself.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, onChange func(context.Context)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger = logging.NewComponentLogger(logger, "dashboard")

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching dataset for changes", logging.String("path", abs))

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("dataset watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debug("dataset changed", logging.String("op", event.Op.String()))
				timer.Reset(debounce)
			}

		case <-timer.C:
			onChange(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(logger, "dataset watcher error", "dataset_watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "a change to the dataset may be missed"))
		}
	}
}
