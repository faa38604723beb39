package config

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher warns when the .env file changes after startup. The schema
// registry is loaded once, so config edits need a restart to apply.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchEnvFile starts watching the directory containing path.
func WatchEnvFile(path string, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	// fsnotify watches dirs for file events
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{watcher: fw, done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-w.done:
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if p, _ := filepath.Abs(event.Name); p != absPath {
					continue
				}
				log.Warn("config file changed; restart to reload table schemas", "file", path)
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				log.Error("config watcher error", "error", err)
			}
		}
	}()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() {
	close(w.done)
	w.watcher.Close()
}
