package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// ShellSource reads status by running the git binary.
type ShellSource struct {
	mu sync.Mutex // Prevents concurrent git invocations
}

// NewShellSource creates a git-binary backed Source.
func NewShellSource() *ShellSource {
	return &ShellSource{}
}

// Status implements Source.
func (s *ShellSource) Status(ctx context.Context, dir string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, ErrNotRepo
	}
	report := &Report{
		Root:  strings.TrimSpace(string(out)),
		Files: make(map[string]Status),
	}
	report.Branch = s.branch(ctx, report.Root)

	// -z keeps paths unquoted and puts the rename source in its own record
	out, err = s.run(ctx, report.Root, "status", "--porcelain=v1", "-z", "-uall", "--ignored")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	parsePorcelainZ(out, report.Files)
	return report, nil
}

func (s *ShellSource) branch(ctx context.Context, dir string) string {
	out, err := s.run(ctx, dir, "branch", "--show-current")
	if err == nil && len(bytes.TrimSpace(out)) > 0 {
		return strings.TrimSpace(string(out))
	}
	// Detached HEAD
	out, err = s.run(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return ""
	}
	return "(" + strings.TrimSpace(string(out)) + ")"
}

func (s *ShellSource) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	// --no-optional-locks avoids taking index.lock for read-only commands
	cmd := exec.CommandContext(ctx, "git", append([]string{"--no-optional-locks"}, args...)...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// parsePorcelainZ parses `git status --porcelain=v1 -z` output into files.
func parsePorcelainZ(out []byte, files map[string]Status) {
	records := strings.Split(string(out), "\x00")
	for i := 0; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 4 {
			continue
		}
		x, y := rec[0], rec[1]
		files[rec[3:]] = ParseStatus(x, y)

		// Renames and copies are followed by the original path.
		if x == 'R' || x == 'C' {
			i++
		}
	}
}
