// Package watch reports writes to a store file made by other processes, so a
// running server picks up bookmarks added from the CLI.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single SQLite commit produces.
const DefaultDebounce = 250 * time.Millisecond

// Config configures a file watcher.
type Config struct {
	// Path is the store file. Sibling files sharing its name as a prefix,
	// such as SQLite's -wal and -journal files, count as the same store.
	Path string

	Debounce time.Duration

	// OnChange runs on the watcher goroutine after a quiet period.
	OnChange func(ctx context.Context)

	Logger *slog.Logger
}

// Run watches the directory holding cfg.Path until ctx is done.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Path == "" {
		return errors.New("watch: path is required")
	}

	if cfg.OnChange == nil {
		return errors.New("watch: OnChange is required")
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(cfg.Path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	base := filepath.Base(cfg.Path)

	logger.Debug("watching store for external changes", slog.String("path", cfg.Path))

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !relevant(base, ev) {
				continue
			}

			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			logger.Warn("store watcher error", slog.Any("error", err))

		case <-timer.C:
			logger.Debug("store changed on disk", slog.String("path", cfg.Path))
			cfg.OnChange(ctx)
		}
	}
}

func relevant(base string, ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}

	return strings.HasPrefix(filepath.Base(ev.Name), base)
}
