package git

import (
	"context"
	"errors"
)

// ErrNotRepo is returned by a Source when the directory is not inside a repository.
var ErrNotRepo = errors.New("not a git repository")

// Source produces the working-tree status of the repository containing dir.
type Source interface {
	Status(ctx context.Context, dir string) (*Report, error)
}

// Report is one complete snapshot of a repository's working tree.
// Files is keyed by slash-separated paths relative to Root; a trailing
// slash marks a directory git reported as a whole (ignored directories).
type Report struct {
	Root   string
	Branch string
	Files  map[string]Status
}

// Status is the working-tree classification of one path.
type Status int

const (
	StatusNone Status = iota
	StatusUntracked
	StatusModified
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusIgnored
	StatusConflict
)

// String returns a human name for the status.
func (s Status) String() string {
	switch s {
	case StatusUntracked:
		return "untracked"
	case StatusModified:
		return "modified"
	case StatusAdded:
		return "added"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusIgnored:
		return "ignored"
	case StatusConflict:
		return "conflict"
	default:
		return "none"
	}
}

// Symbol returns the single-character indicator drawn next to a path.
func (s Status) Symbol() string {
	switch s {
	case StatusUntracked:
		return "?"
	case StatusModified:
		return "M"
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusRenamed:
		return "R"
	case StatusIgnored:
		return "!"
	case StatusConflict:
		return "U"
	default:
		return ""
	}
}

// ParseStatus classifies a porcelain XY pair (index, worktree).
func ParseStatus(x, y byte) Status {
	switch {
	case x == '?' && y == '?':
		return StatusUntracked
	case x == '!' && y == '!':
		return StatusIgnored
	case x == 'U' || y == 'U' || (x == 'A' && y == 'A') || (x == 'D' && y == 'D'):
		return StatusConflict
	case x == 'R':
		return StatusRenamed
	case x == 'A':
		return StatusAdded
	case x == 'D' || y == 'D':
		return StatusDeleted
	case x == 'M' || y == 'M' || x == 'C' || x == 'T' || y == 'T':
		return StatusModified
	default:
		return StatusNone
	}
}
