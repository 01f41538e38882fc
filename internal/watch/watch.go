// Package watch runs the single background file-watcher task: it watches a
// working directory for changes and emits debounced notifications onto a
// channel for the control thread to drain.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of filesystem events (editor saves often
// fire several writes in quick succession) into a single notification.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a directory tree and delivers debounced change
// notifications. The zero value is not usable; construct with New.
type Watcher struct {
	fsw      *fsnotify.Watcher
	changes  chan struct{}
	debounce time.Duration
	done     chan struct{}
}

// New starts watching dir (and its subdirectories) for file changes.
// The caller must call Close when done.
func New(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := addRecursive(fsw, dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		changes:  make(chan struct{}, 1),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// addRecursive walks dir and registers every non-ignored subdirectory with
// the fsnotify watcher. fsnotify watches directories, not trees, so after
// startup run() adds a watch for each newly created path; it does not walk
// into a new directory, so subdirectories already inside it when it appears
// (a tree moved in whole) are not watched.
func addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if info.Name() == ".git" && path != dir {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// run drains the fsnotify event and error streams, ignores noise (the
// sidecar store's own writes, VCS metadata), and debounces the remainder
// into a single pending notification on changes.
func (w *Watcher) run() {
	defer close(w.changes)

	var pending *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if pending != nil {
				pending.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ignoreEvent(ev) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				// A newly created directory needs its own watch registered;
				// best-effort, errors surface on the next event's Add attempt.
				_ = w.fsw.Add(ev.Name)
			}
			if pending == nil {
				pending = time.NewTimer(w.debounce)
				fire = pending.C
			} else {
				pending.Reset(w.debounce)
			}

		case <-fire:
			pending = nil
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
				// a notification is already pending drain; coalesce
			}

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// ignoreEvent filters out changes to paths that shouldn't trigger a reparse:
// VCS internals and the sidecar documents themselves (writing a comment
// shouldn't be mistaken for an external diff change).
func ignoreEvent(ev fsnotify.Event) bool {
	base := filepath.Base(ev.Name)
	if base == ".git" || strings.Contains(ev.Name, string(filepath.Separator)+".git"+string(filepath.Separator)) {
		return true
	}
	if strings.HasPrefix(base, ".er-") {
		return true
	}
	return false
}

// Changes returns the channel the control thread should drain at each loop
// iteration. It is closed when the watcher stops.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the background task and releases the underlying fsnotify
// handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
