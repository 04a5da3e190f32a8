// Package runner starts external shell commands against the selected path and
// reports their completion back to the UI loop as messages.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/avitaltamir/vibetree/internal/apperr"
	"github.com/avitaltamir/vibetree/internal/history"
	"github.com/avitaltamir/vibetree/internal/logging"
)

// Placeholder is replaced with the quoted target path.
const Placeholder = "<filepath>"

// DefaultOutputLimit caps captured output per job.
const DefaultOutputLimit = 64 * 1024

var (
	errNoCommand = errors.New("no command")
	errExit      = errors.New("non-zero exit")
)

// Options configures a Runner.
type Options struct {
	Shell       string // defaults to sh
	Dir         string // working directory of every job
	OutputLimit int    // bytes; <= 0 uses DefaultOutputLimit
	PTY         bool
	Cols, Rows  int // pty screen size
	DefaultCmd  string
}

// Job identifies a started command.
type Job struct {
	ID      int
	Command string
}

// DoneMsg is sent when a job exits.
type DoneMsg struct {
	ID        int
	Command   string
	ExitCode  int
	Output    string
	Truncated bool
	Duration  time.Duration
	Err       error
}

// Runner owns the repeat command and the set of running jobs.
// Its methods are called from the UI loop only; the returned commands run
// on bubbletea's goroutines and touch nothing but their own job.
type Runner struct {
	opts    Options
	history *history.Store
	last    string

	mu      sync.Mutex
	nextID  int
	cancels map[int]context.CancelFunc
}

// New creates a Runner. store may be nil.
func New(store *history.Store, opts Options) *Runner {
	if opts.Shell == "" {
		opts.Shell = "sh"
	}
	if opts.OutputLimit <= 0 {
		opts.OutputLimit = DefaultOutputLimit
	}
	if opts.Cols <= 0 {
		opts.Cols = 120
	}
	if opts.Rows <= 0 {
		opts.Rows = 40
	}
	return &Runner{
		opts:    opts,
		history: store,
		cancels: make(map[int]context.CancelFunc),
	}
}

// Substitute replaces every placeholder in template with path, single-quoted
// for a POSIX shell.
func Substitute(template, path string) string {
	if !strings.Contains(template, Placeholder) {
		return template
	}
	return strings.ReplaceAll(template, Placeholder, Quote(path))
}

// Quote single-quotes s, escaping embedded single quotes as '\''.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Repeat returns the last command template, or the default command.
func (r *Runner) Repeat() string {
	if r.last != "" {
		return r.last
	}
	return r.opts.DefaultCmd
}

// SetDefault replaces the fallback command.
func (r *Runner) SetDefault(cmd string) {
	r.opts.DefaultCmd = strings.TrimSpace(cmd)
}

// Run starts template against path. The template is recorded in history and
// becomes the repeat command; the returned tea.Cmd waits for the process and
// yields a DoneMsg.
func (r *Runner) Run(template, path string) (Job, tea.Cmd) {
	template = strings.TrimSpace(template)
	if template == "" {
		err := apperr.New(apperr.KindProcess, "run", "", errNoCommand)
		return Job{}, func() tea.Msg { return DoneMsg{ExitCode: -1, Err: err} }
	}

	r.last = template
	if r.history != nil {
		if err := r.history.Append(template); err != nil {
			logging.L().WithError(err).Warn("runner: history append failed")
		}
	}

	command := Substitute(template, path)

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	ctx, cancel := context.WithCancel(context.Background())
	r.cancels[id] = cancel
	r.mu.Unlock()

	job := Job{ID: id, Command: command}
	logging.L().WithFields(logrus.Fields{"job": id, "command": command, "pty": r.opts.PTY}).Debug("runner: start")

	opts := r.opts
	return job, func() tea.Msg {
		defer r.release(id)
		msg := execute(ctx, opts, command)
		msg.ID = id
		logging.L().WithFields(logrus.Fields{
			"job":  id,
			"exit": msg.ExitCode,
			"took": msg.Duration,
		}).Debug("runner: done")
		return msg
	}
}

func (r *Runner) release(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.cancels[id]; ok {
		cancel()
		delete(r.cancels, id)
	}
}

// Cancel stops job id. It reports whether the job was running.
func (r *Runner) Cancel(id int) bool {
	r.mu.Lock()
	cancel, ok := r.cancels[id]
	r.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// CancelAll stops every running job.
func (r *Runner) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cancel := range r.cancels {
		cancel()
	}
}

// Running returns the number of jobs that have not finished.
func (r *Runner) Running() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cancels)
}

func execute(ctx context.Context, opts Options, command string) DoneMsg {
	start := time.Now()
	cmd := exec.CommandContext(ctx, opts.Shell, "-c", command)
	cmd.Dir = opts.Dir
	// Children of the shell may hold the output pipe open after a cancel.
	cmd.WaitDelay = 2 * time.Second

	var (
		out       string
		truncated bool
		err       error
	)
	if opts.PTY {
		out, truncated, err = runPTY(cmd, opts)
	} else {
		buf := &limitedBuffer{limit: opts.OutputLimit}
		cmd.Stdout = buf
		cmd.Stderr = buf
		err = cmd.Run()
		out, truncated = buf.String(), buf.truncated
	}

	msg := DoneMsg{
		Command:   command,
		Output:    out,
		Truncated: truncated,
		Duration:  time.Since(start),
	}
	if err == nil {
		return msg
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg.ExitCode = exitErr.ExitCode()
		if ctx.Err() != nil {
			err = ctx.Err()
		} else {
			err = fmt.Errorf("%w: %d", errExit, msg.ExitCode)
		}
	} else {
		msg.ExitCode = -1
	}
	msg.Err = apperr.New(apperr.KindProcess, "run", "", err)
	return msg
}

// limitedBuffer keeps the first limit bytes written to it and drops the rest.
type limitedBuffer struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(p)
	room := b.limit - b.buf.Len()
	if room <= 0 {
		if n > 0 {
			b.truncated = true
		}
		return n, nil
	}
	if len(p) > room {
		p = p[:room]
		b.truncated = true
	}
	b.buf.Write(p)
	return n, nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
