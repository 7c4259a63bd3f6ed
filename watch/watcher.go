// Package watch reports changes to the data source file.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events a spreadsheet save produces
const DefaultDebounce = 500 * time.Millisecond

// FileWatcher calls OnChange once a burst of writes to a file has settled
type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange func()
}

// New creates a watcher for path
func New(path string, debounce time.Duration, onChange func()) *FileWatcher {
	return &FileWatcher{
		path:     path,
		debounce: debounce,
		onChange: onChange,
	}
}

// Run watches until ctx is cancelled
func (w *FileWatcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", w.path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory: editors often replace the file instead of writing it
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	slog.Info("Watching data source", "path", abs)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("Data source changed", "op", ev.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", "error", err)

		case <-timer.C:
			w.onChange()
		}
	}
}
