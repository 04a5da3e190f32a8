package runner

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avitaltamir/vibetree/internal/apperr"
	"github.com/avitaltamir/vibetree/internal/history"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func runSync(t *testing.T, r *Runner, template, path string) DoneMsg {
	t.Helper()
	job, cmd := r.Run(template, path)
	require.NotNil(t, cmd)
	msg, ok := cmd().(DoneMsg)
	require.True(t, ok)
	assert.Equal(t, job.ID, msg.ID)
	return msg
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		template string
		path     string
		want     string
	}{
		{"single", "cat <filepath>", "/tmp/a.txt", "cat '/tmp/a.txt'"},
		{"repeated", "diff <filepath> <filepath>.bak", "/x", "diff '/x' '/x'.bak"},
		{"spaces", "wc -l <filepath>", "/my dir/f", "wc -l '/my dir/f'"},
		{"single quote", "cat <filepath>", "/it's", `cat '/it'\''s'`},
		{"no placeholder", "make test", "/x", "make test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Substitute(tt.template, tt.path))
		})
	}
}

func TestRun(t *testing.T) {
	requireShell(t)

	t.Run("captures output", func(t *testing.T) {
		r := New(nil, Options{})
		msg := runSync(t, r, "echo hi; echo err >&2", "")
		require.NoError(t, msg.Err)
		assert.Equal(t, 0, msg.ExitCode)
		assert.Contains(t, msg.Output, "hi")
		assert.Contains(t, msg.Output, "err")
		assert.False(t, msg.Truncated)
		assert.Equal(t, 0, r.Running())
	})

	t.Run("quoted path reaches the command intact", func(t *testing.T) {
		r := New(nil, Options{})
		msg := runSync(t, r, "printf %s <filepath>", "/a b/it's")
		require.NoError(t, msg.Err)
		assert.Equal(t, "/a b/it's", msg.Output)
	})

	t.Run("non-zero exit is a process error", func(t *testing.T) {
		r := New(nil, Options{})
		msg := runSync(t, r, "exit 3", "")
		assert.Equal(t, 3, msg.ExitCode)
		assert.True(t, errors.Is(msg.Err, apperr.ErrProcess))
	})

	t.Run("missing shell is a process error", func(t *testing.T) {
		r := New(nil, Options{Shell: "/nonexistent/sh"})
		msg := runSync(t, r, "true", "")
		assert.Equal(t, -1, msg.ExitCode)
		assert.True(t, errors.Is(msg.Err, apperr.ErrProcess))
	})

	t.Run("output is truncated at the limit", func(t *testing.T) {
		r := New(nil, Options{OutputLimit: 10})
		msg := runSync(t, r, "printf 0123456789abcdef", "")
		require.NoError(t, msg.Err)
		assert.Equal(t, "0123456789", msg.Output)
		assert.True(t, msg.Truncated)
	})

	t.Run("runs in the configured directory", func(t *testing.T) {
		dir, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		r := New(nil, Options{Dir: dir})
		msg := runSync(t, r, "pwd", "")
		assert.Equal(t, dir, strings.TrimSpace(msg.Output))
	})

	t.Run("empty template", func(t *testing.T) {
		r := New(nil, Options{})
		_, cmd := r.Run("   ", "")
		msg := cmd().(DoneMsg)
		assert.True(t, errors.Is(msg.Err, apperr.ErrProcess))
		assert.Equal(t, "", r.Repeat())
	})
}

func TestRepeatAndHistory(t *testing.T) {
	requireShell(t)

	store, err := history.Open(filepath.Join(t.TempDir(), history.FileName))
	require.NoError(t, err)

	r := New(store, Options{DefaultCmd: "echo default"})
	assert.Equal(t, "echo default", r.Repeat())

	runSync(t, r, "cat <filepath>", "/etc/hostname")
	assert.Equal(t, "cat <filepath>", r.Repeat())
	assert.Equal(t, []string{"cat <filepath>"}, store.Entries())

	runSync(t, r, "true", "")
	assert.Equal(t, "true", r.Repeat())
	assert.Equal(t, "true", store.Last())
}

func TestCancel(t *testing.T) {
	requireShell(t)

	r := New(nil, Options{})
	job, cmd := r.Run("sleep 10", "")
	assert.Equal(t, 1, r.Running())

	done := make(chan DoneMsg, 1)
	go func() { done <- cmd().(DoneMsg) }()

	assert.True(t, r.Cancel(job.ID))
	select {
	case msg := <-done:
		assert.Error(t, msg.Err)
		assert.True(t, errors.Is(msg.Err, apperr.ErrProcess))
	case <-time.After(5 * time.Second):
		t.Fatal("job was not cancelled")
	}
	assert.Equal(t, 0, r.Running())
	assert.False(t, r.Cancel(job.ID))
}

func TestLimitedBuffer(t *testing.T) {
	b := &limitedBuffer{limit: 4}
	n, err := b.Write([]byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, _ = b.Write([]byte("cdef"))
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcd", b.String())
	assert.True(t, b.truncated)
}

func TestRunPTY(t *testing.T) {
	requireShell(t)

	r := New(nil, Options{PTY: true, Cols: 40, Rows: 5})
	msg := runSync(t, r, `printf 'one\r\ntwo\r\n'`, "")
	require.NoError(t, msg.Err)
	assert.Equal(t, "one\ntwo", msg.Output)
}
