package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/faizmokh/diari/internal/logger"
)

// Watcher reports writes to month files under a year directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan string
}

// Watch starts watching the year directory holding t's month file. Events are
// delivered on Changes until ctx is cancelled or Close is called.
func (m *Manager) Watch(ctx context.Context, t time.Time) (*Watcher, error) {
	dir := m.YearDir(t)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("create directories: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fw,
		changes: make(chan string, 1),
	}
	go w.loop(ctx)
	return w, nil
}

// Changes yields the path of each month file that was written, renamed into
// place, or removed. Bursts are coalesced while the receiver is busy.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.changes)
	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isMonthFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			select {
			case w.changes <- event.Name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("watch error: %v", err)
		}
	}
}

func isMonthFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".md") && len(base) == len("2006-01.md")
}
