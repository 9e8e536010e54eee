package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange whenever the store file at path is written by
// anyone, including this process. It watches the parent directory so
// atomic renames and SQLite WAL files are seen. Watch blocks until ctx is
// cancelled.
func Watch(ctx context.Context, path string, debounce time.Duration, log *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
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
			if !IsStoreEvent(event, path) {
				continue
			}
			log.Debug("store file changed", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "path", path, "error", err)
		}
	}
}

// IsStoreEvent reports whether event modifies the store at path.
// Chmod events and unrelated files in the same directory are ignored.
func IsStoreEvent(event fsnotify.Event, path string) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	base := filepath.Base(path)
	if name == base {
		return true
	}
	// SQLite write-ahead log
	return strings.HasPrefix(name, base+"-wal")
}
