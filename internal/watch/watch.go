// Package watch reports filesystem changes in the expanded directories of the
// tree. Events are delivered as bubbletea messages and coalesced by a
// Debouncer before the tree reloads.
package watch

import (
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/avitaltamir/vibetree/internal/logging"
)

// DefaultDebounce is the quiet period before pending changes are flushed.
const DefaultDebounce = 500 * time.Millisecond

// EventMsg is one filesystem change, or a watcher error.
type EventMsg struct {
	Path string
	Op   fsnotify.Op
	Err  error
}

// Watcher tracks a set of directories with fsnotify. Sync and Close are
// called from the UI loop; Next runs on a command goroutine and only reads
// the fsnotify channels.
type Watcher struct {
	fs      *fsnotify.Watcher
	watched map[string]struct{}
}

// New starts an fsnotify watcher.
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fs: fw, watched: make(map[string]struct{})}, nil
}

// Sync makes the watched set equal to dirs. Directories that cannot be
// watched are logged and skipped.
func (w *Watcher) Sync(dirs []string) {
	if w == nil {
		return
	}
	want := make(map[string]struct{}, len(dirs))
	for _, d := range dirs {
		want[filepath.Clean(d)] = struct{}{}
	}

	for d := range w.watched {
		if _, ok := want[d]; ok {
			continue
		}
		_ = w.fs.Remove(d)
		delete(w.watched, d)
	}
	for d := range want {
		if _, ok := w.watched[d]; ok {
			continue
		}
		if err := w.fs.Add(d); err != nil {
			logging.L().WithError(err).WithField("dir", d).Debug("watch: add failed")
			continue
		}
		w.watched[d] = struct{}{}
	}
}

// Watched returns the watched directories, sorted.
func (w *Watcher) Watched() []string {
	if w == nil {
		return nil
	}
	dirs := make([]string, 0, len(w.watched))
	for d := range w.watched {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// Next blocks until the next relevant change. It returns nil once the
// watcher is closed, which ends the listen loop.
func (w *Watcher) Next() tea.Cmd {
	if w == nil {
		return nil
	}
	events, errs := w.fs.Events, w.fs.Errors
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				// Chmod alone never changes what the tree shows.
				if ev.Op == fsnotify.Chmod || filepath.Base(ev.Name) == ".git" {
					continue
				}
				return EventMsg{Path: ev.Name, Op: ev.Op}
			case err, ok := <-errs:
				if !ok {
					return nil
				}
				return EventMsg{Err: err}
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	return w.fs.Close()
}

// FlushMsg tells the loop that the debounce window has elapsed.
type FlushMsg struct{}

// Debouncer collects changed paths until a quiet period has passed.
type Debouncer struct {
	interval  time.Duration
	pending   map[string]struct{}
	scheduled bool
}

// NewDebouncer creates a Debouncer; a non-positive interval uses DefaultDebounce.
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Debouncer{interval: interval, pending: make(map[string]struct{})}
}

// Add records a changed path. It returns the flush timer when none is
// running yet.
func (d *Debouncer) Add(path string) tea.Cmd {
	d.pending[filepath.Dir(filepath.Clean(path))] = struct{}{}
	if d.scheduled {
		return nil
	}
	d.scheduled = true
	return tea.Tick(d.interval, func(time.Time) tea.Msg { return FlushMsg{} })
}

// Pending reports whether changes are waiting for a flush.
func (d *Debouncer) Pending() bool {
	return len(d.pending) > 0
}

// Flush returns the directories whose contents changed, sorted, and resets
// the window.
func (d *Debouncer) Flush() []string {
	dirs := make([]string, 0, len(d.pending))
	for dir := range d.pending {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	clear(d.pending)
	d.scheduled = false
	return dirs
}
