package assets

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/creature-render/internal/logger"
)

// Watcher reports asset keys whose files changed on disk. Changed keys are
// invalidated in the manager's cache before they are reported.
type Watcher struct {
	fs      *fsnotify.Watcher
	manager *Manager
	changes chan string
	done    chan struct{}
}

// Watch starts watching every asset directory and its subdirectories.
func (m *Manager) Watch() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	for _, dir := range m.Dirs() {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return fw.Add(path)
			}
			return nil
		})
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w := &Watcher{
		fs:      fw,
		manager: m,
		changes: make(chan string, 16),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Changes delivers changed asset keys. Keys are dropped if the reader falls
// more than the channel's capacity behind.
func (w *Watcher) Changes() <-chan string { return w.changes }

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.changes)
	log := logger.Named("assets")

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			key, ok := w.keyFor(ev.Name)
			if !ok {
				continue
			}
			w.manager.Invalidate(key)
			select {
			case w.changes <- key:
			default:
				log.Warn("asset change dropped", zap.String("key", key))
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}

// keyFor maps a changed file back to the asset key it serves.
func (w *Watcher) keyFor(path string) (string, bool) {
	dirs := w.manager.Dirs()
	for i := len(dirs) - 1; i >= 0; i-- {
		rel, err := filepath.Rel(dirs[i], path)
		if err == nil && filepath.IsLocal(rel) {
			return filepath.ToSlash(rel), true
		}
	}
	return "", false
}
