package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow collapses editor write bursts into one event per file.
const debounceWindow = 100 * time.Millisecond

// Watcher reports changes to YAML config files in the watched directories.
// Demos poll Events between generations to reload their configuration live.
//
// The forwarding goroutine is the sole owner of Events and Errors: it closes
// them only after the underlying fsnotify channels are drained, so a config
// write racing Close can never send on a closed channel. Events that arrive
// faster than the consumer drains them are dropped.
type Watcher struct {
	fs     *fsnotify.Watcher
	Events chan string
	Errors chan error
	done   chan struct{}
	once   sync.Once
}

// Watch starts watching the given directories for config file changes.
func Watch(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:     fs,
		Events: make(chan string, 16),
		Errors: make(chan error, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. On return the forwarding goroutine has exited and
// Events and Errors are closed.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.fs.Close()
		<-w.done
	})
	return err
}

// run forwards fsnotify events until the underlying watcher is closed, then
// closes the outgoing channels and signals done.
func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Events)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isConfigFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, seen := last[event.Name]; seen && now.Sub(t) < debounceWindow {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}

func isConfigFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
