package session

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"tabwork/internal/config"
	"tabwork/internal/logging"
)

// Watcher marks session datasets stale when their source files change on
// disk. Events are debounced per path since editors tend to fire several
// writes in quick succession.
type Watcher struct {
	fsw      *fsnotify.Watcher
	sess     *Session
	debounce time.Duration
	done     chan struct{}
}

// Watch starts a watcher over the session's current source files. It runs
// until ctx is canceled or Close is called.
func Watch(ctx context.Context, sess *Session, cfg config.WatchConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		sess:     sess,
		debounce: time.Duration(cfg.DebounceMillis) * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, p := range sess.sourcePaths() {
		if err := fsw.Add(p); err != nil {
			logging.WatchDebug("cannot watch %s: %v", p, err)
			continue
		}
		logging.Watch("watching %s", p)
	}
	go w.run(ctx)
	return w, nil
}

// Add registers another file with the watcher, typically after a new load.
func (w *Watcher) Add(path string) error {
	return w.fsw.Add(path)
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				// Editors save by renaming a temp file over the target,
				// which kills the inode watch. Re-add the path so later
				// writes are still seen.
				if err := w.Add(ev.Name); err != nil {
					logging.WatchDebug("rewatch %s: %v", ev.Name, err)
				}
			}
			pending[ev.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.WatchDebug("watch error: %v", err)
		case <-fire:
			for p := range pending {
				w.sess.markStale(p)
			}
			pending = make(map[string]bool)
			fire = nil
		}
	}
}
