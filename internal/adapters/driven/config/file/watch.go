package file

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

// Reloader is satisfied by stores that can drop cached content.
type Reloader interface {
	Reload()
}

// PromptWatcher reloads a prompt store whenever a .txt file in its
// directory changes on disk.
type PromptWatcher struct {
	dir     string
	target  Reloader
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchPrompts starts watching dir and calls target.Reload on changes.
// The watcher stops when ctx is cancelled or Close is called.
func WatchPrompts(ctx context.Context, dir string, target Reloader) (*PromptWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	pw := &PromptWatcher{
		dir:     dir,
		target:  target,
		watcher: w,
		done:    make(chan struct{}),
	}
	go pw.run(ctx)
	return pw, nil
}

func (pw *PromptWatcher) run(ctx context.Context) {
	defer close(pw.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if !isPromptEvent(ev) {
				continue
			}
			logger.Debug("prompt changed: %s", filepath.Base(ev.Name))
			pw.target.Reload()
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("prompt watcher: %v", err)
		}
	}
}

// isPromptEvent ignores editor swap files and the README.
func isPromptEvent(ev fsnotify.Event) bool {
	if !strings.HasSuffix(ev.Name, ".txt") {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

// Dir returns the watched directory.
func (pw *PromptWatcher) Dir() string {
	return pw.dir
}

// Close stops the watcher and waits for the event loop to exit.
func (pw *PromptWatcher) Close() error {
	err := pw.watcher.Close()
	<-pw.done
	return err
}
