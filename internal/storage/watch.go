package storage

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports keys of a file store that changed on disk, whether the
// change came from this process or another one (a second terminal, a
// running server, a hand edit).
type Watcher struct {
	watcher *fsnotify.Watcher
	keys    map[string]bool
	changes chan string
	logger  *zap.Logger

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewWatcher watches dir for changes to the given keys. With no keys, every
// key file in dir is reported.
func NewWatcher(dir string, logger *zap.Logger, keys ...string) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
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
		keys:    make(map[string]bool, len(keys)),
		changes: make(chan string, 16),
		logger:  logger,
		done:    make(chan struct{}),
	}
	for _, k := range keys {
		w.keys[k] = true
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Changes delivers the key of each changed file. Bursts may be coalesced:
// when the buffer is full further notifications are dropped, since a reader
// that reloads on any notification will observe the latest state anyway.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.changes)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			key, ok := KeyForPath(event.Name)
			if !ok {
				continue
			}
			if len(w.keys) > 0 && !w.keys[key] {
				continue
			}
			select {
			case w.changes <- key:
			default:
				w.logger.Debug("dropping coalesced change", zap.String("key", key))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("storage watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
