package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long the watcher waits after the last file event
// before refreshing subscribers.
const watchDebounce = 200 * time.Millisecond

// Watch refreshes the client's subscribers when the database file at
// dbPath (or its WAL/SHM companions) changes on disk, which picks up
// writes made by another process. Own writes are filtered out by the
// collection version check. Call the returned func to stop watching.
func (c *SQLiteClient) Watch(dbPath string) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	dir := filepath.Dir(dbPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	base := filepath.Base(dbPath)
	done := make(chan struct{})

	go func() {
		var debounceTimer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasPrefix(filepath.Base(event.Name), base) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(watchDebounce, c.Refresh)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.Warn("database watcher error", "path", dbPath, "error", err)

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
