package git

import (
	"context"
	"errors"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RefreshedMsg carries a freshly built cache back to the event loop.
type RefreshedMsg struct {
	Gen   uint64
	Cache *Cache
	Err   error
}

// Refresher rebuilds the status cache off the event loop. Each Refresh gets a
// generation number; Accept only applies results newer than the last one
// applied, so a slow refresh can never overwrite a faster, later one.
type Refresher struct {
	source  Source
	timeout time.Duration
	gen     uint64
	applied uint64
}

// NewRefresher creates a Refresher. A zero timeout means 5 seconds.
func NewRefresher(source Source, timeout time.Duration) *Refresher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Refresher{source: source, timeout: timeout}
}

// Refresh returns a command that builds a new cache for the repository
// containing dir.
func (r *Refresher) Refresh(dir string) tea.Cmd {
	r.gen++
	gen := r.gen
	source := r.source
	timeout := r.timeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		report, err := source.Status(ctx, dir)
		if errors.Is(err, ErrNotRepo) {
			return RefreshedMsg{Gen: gen, Cache: NewCache(nil)}
		}
		if err != nil {
			return RefreshedMsg{Gen: gen, Err: err}
		}
		return RefreshedMsg{Gen: gen, Cache: NewCache(report)}
	}
}

// Accept reports whether msg is newer than every result applied so far and
// records it as applied.
func (r *Refresher) Accept(msg RefreshedMsg) bool {
	if msg.Gen <= r.applied {
		return false
	}
	r.applied = msg.Gen
	return true
}

// Pending reports whether a refresh has been issued but not yet applied.
func (r *Refresher) Pending() bool {
	return r.applied < r.gen
}

// Backend names accepted by NewSource.
const (
	BackendAuto  = "auto"
	BackendShell = "shell"
	BackendGoGit = "gogit"
)

// NewSource picks a Source by backend name. "auto" uses the git binary when
// it is on PATH and go-git otherwise.
func NewSource(backend string) Source {
	switch backend {
	case BackendShell:
		return NewShellSource()
	case BackendGoGit:
		return NewGoGitSource()
	}
	if _, err := exec.LookPath("git"); err == nil {
		return NewShellSource()
	}
	return NewGoGitSource()
}
