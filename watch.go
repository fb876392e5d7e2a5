package sway

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// SettingsWatcher reloads a settings file whenever it changes on disk.
// Reloaded settings arrive on Settings and load failures on Errors; hand them
// to the manager with Manager.ApplyPending from the game loop.
type SettingsWatcher struct {
	Settings chan Settings
	Errors   chan error

	path    string
	watcher *fsnotify.Watcher
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewSettingsWatcher starts watching path. The file's directory is watched
// rather than the file itself, so editors that replace the file on save are
// followed.
func NewSettingsWatcher(path string) (*SettingsWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &SettingsWatcher{
		Settings: make(chan Settings, 1),
		Errors:   make(chan error, 1),
		path:     abs,
		watcher:  w,
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Path returns the absolute path being watched.
func (w *SettingsWatcher) Path() string { return w.path }

// Close stops the watcher and closes both channels.
func (w *SettingsWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Settings)
		close(w.Errors)
	})
	return err
}

func (w *SettingsWatcher) run() {
	defer close(w.done)

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Editors write in bursts; load once the burst is over.
			timer.Reset(reloadDebounce)
		case <-timer.C:
			s, err := LoadSettings(w.path)
			if err != nil {
				w.send(nil, err)
				continue
			}
			w.send(&s, nil)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(nil, err)
		case <-w.closeCh:
			return
		}
	}
}

// send delivers a result, replacing one the game loop has not picked up yet.
func (w *SettingsWatcher) send(s *Settings, err error) {
	if s != nil {
		select {
		case <-w.Settings:
		default:
		}
		select {
		case w.Settings <- *s:
		case <-w.closeCh:
		}
		return
	}
	select {
	case <-w.Errors:
	default:
	}
	select {
	case w.Errors <- err:
	case <-w.closeCh:
	}
}
