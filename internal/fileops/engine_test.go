package fileops

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avitaltamir/vibetree/internal/apperr"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestPasteCopyNeverOverwrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "x")
	dest := filepath.Join(root, "dest")
	write(t, src, "new")
	write(t, filepath.Join(dest, "x"), "old")

	e := NewEngine(root)
	e.Yank([]string{src})
	res := e.Paste(dest)

	require.NoError(t, res.Err())
	require.Len(t, res.Done, 1)
	assert.NotEqual(t, filepath.Join(dest, "x"), res.Done[0])
	assert.Equal(t, filepath.Join(dest, "x_1"), res.Done[0])
	assert.Equal(t, "old", read(t, filepath.Join(dest, "x")))
	assert.Equal(t, "new", read(t, res.Done[0]))
	assert.Equal(t, []string{dest}, res.Touched)
}

func TestPasteCopyIsRepeatable(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.txt")
	write(t, src, "a")

	e := NewEngine(root)
	e.Yank([]string{src})

	first := e.Paste(root)
	second := e.Paste(root)

	require.NoError(t, first.Err())
	require.NoError(t, second.Err())
	assert.Equal(t, filepath.Join(root, "a_1.txt"), first.Done[0])
	assert.Equal(t, filepath.Join(root, "a_2.txt"), second.Done[0])
	assert.False(t, e.Clipboard().Empty())
}

func TestPasteMove(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "from", "f.txt")
	dest := filepath.Join(root, "to")
	write(t, src, "data")
	require.NoError(t, os.Mkdir(dest, 0o755))

	e := NewEngine(root)
	e.Cut([]string{src})
	assert.Equal(t, OpMove, e.Clipboard().Op)

	res := e.Paste(dest)
	require.NoError(t, res.Err())
	assert.Equal(t, "data", read(t, filepath.Join(dest, "f.txt")))
	assert.NoFileExists(t, src)
	assert.ElementsMatch(t, []string{dest, filepath.Join(root, "from")}, res.Touched)
	assert.True(t, e.Clipboard().Empty(), "a move runs once")
}

func TestPasteMoveKeepsFailedSources(t *testing.T) {
	root := t.TempDir()
	moved := filepath.Join(root, "from", "ok.txt")
	blocked := filepath.Join(root, "from", "dir")
	write(t, moved, "ok")
	write(t, filepath.Join(blocked, "inner.txt"), "in")

	e := NewEngine(root)
	e.Cut([]string{moved, blocked})

	// Moving a directory into its own subtree fails; the other item moves.
	res := e.Paste(blocked)
	assert.Len(t, res.Done, 1)
	require.Len(t, res.Failures, 1)
	assert.FileExists(t, filepath.Join(blocked, "ok.txt"))

	clip := e.Clipboard()
	assert.Equal(t, OpMove, clip.Op)
	assert.Equal(t, []string{blocked}, clip.Paths, "only the failed source stays queued")

	dest := filepath.Join(root, "to")
	require.NoError(t, os.Mkdir(dest, 0o755))
	res = e.Paste(dest)
	require.NoError(t, res.Err())
	assert.FileExists(t, filepath.Join(dest, "dir", "inner.txt"))
	assert.True(t, e.Clipboard().Empty())
}

func TestPasteMoveIntoSameDirIsNoOp(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "f.txt")
	write(t, src, "data")

	e := NewEngine(root)
	e.Cut([]string{src})
	res := e.Paste(root)

	require.NoError(t, res.Err())
	assert.Equal(t, []string{src}, res.Done)
	assert.FileExists(t, src)
	assert.NoFileExists(t, filepath.Join(root, "f_1.txt"))
}

func TestPasteDirectoryRecursive(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "pkg")
	write(t, filepath.Join(src, "a.go"), "a")
	write(t, filepath.Join(src, "sub", "b.go"), "b")
	require.NoError(t, os.Symlink("a.go", filepath.Join(src, "link")))
	dest := filepath.Join(root, "out")
	require.NoError(t, os.Mkdir(dest, 0o755))

	e := NewEngine(root)
	e.Yank([]string{src})
	res := e.Paste(dest)

	require.NoError(t, res.Err())
	assert.Equal(t, "a", read(t, filepath.Join(dest, "pkg", "a.go")))
	assert.Equal(t, "b", read(t, filepath.Join(dest, "pkg", "sub", "b.go")))
	target, err := os.Readlink(filepath.Join(dest, "pkg", "link"))
	require.NoError(t, err)
	assert.Equal(t, "a.go", target)

	t.Run("into itself is refused", func(t *testing.T) {
		res := e.Paste(filepath.Join(src, "sub"))
		require.Len(t, res.Failures, 1)
		assert.True(t, errors.Is(res.Failures[0], apperr.ErrConflict))
	})
}

func TestPasteNamedPipe(t *testing.T) {
	root := t.TempDir()
	pipe := filepath.Join(root, "pipe")
	if err := syscall.Mkfifo(pipe, 0o600); err != nil {
		t.Skipf("mkfifo: %v", err)
	}
	dest := filepath.Join(root, "dest")
	require.NoError(t, os.Mkdir(dest, 0o755))

	e := NewEngine(root)
	e.Yank([]string{pipe})

	done := make(chan Result, 1)
	go func() { done <- e.Paste(dest) }()

	select {
	case res := <-done:
		require.NoError(t, res.Err())
		info, err := os.Lstat(filepath.Join(dest, "pipe"))
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeNamedPipe, "the pipe is recreated, not read")
	case <-time.After(2 * time.Second):
		t.Fatal("pasting a named pipe blocked")
	}
}

func TestPasteFailuresDoNotAbortBatch(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "good.txt")
	write(t, good, "g")
	dest := filepath.Join(root, "dest")
	require.NoError(t, os.Mkdir(dest, 0o755))

	e := NewEngine(root)
	e.Yank([]string{filepath.Join(root, "missing.txt"), good})
	res := e.Paste(dest)

	assert.Len(t, res.Done, 1)
	require.Len(t, res.Failures, 1)
	assert.True(t, errors.Is(res.Failures[0], apperr.ErrNotFound))
	assert.FileExists(t, filepath.Join(dest, "good.txt"))
}

func TestDelete(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "dir")
	gone := filepath.Join(root, "gone.txt")
	write(t, a, "a")
	write(t, filepath.Join(b, "nested.txt"), "n")

	e := NewEngine(root)
	e.Yank([]string{a, filepath.Join(root, "keep.txt")})

	res := e.Delete([]string{a, gone, b})

	assert.Len(t, res.Done, 2)
	require.Len(t, res.Failures, 1)
	assert.True(t, errors.Is(res.Failures[0], apperr.ErrNotFound))
	assert.NoFileExists(t, a)
	assert.NoDirExists(t, b)
	assert.Equal(t, []string{root}, res.Touched)
	assert.Equal(t, []string{filepath.Join(root, "keep.txt")}, e.Clipboard().Paths)

	t.Run("root is protected", func(t *testing.T) {
		res := e.Delete([]string{root})
		assert.Len(t, res.Failures, 1)
		assert.DirExists(t, root)
	})
}

func TestRename(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	write(t, a, "a")
	write(t, filepath.Join(root, "taken.txt"), "t")
	e := NewEngine(root)

	t.Run("conflict keeps both files", func(t *testing.T) {
		_, err := e.Rename(a, "taken.txt")
		assert.True(t, errors.Is(err, apperr.ErrConflict))
		assert.FileExists(t, a)
		assert.Equal(t, "t", read(t, filepath.Join(root, "taken.txt")))
	})

	t.Run("same name is a no-op", func(t *testing.T) {
		p, err := e.Rename(a, "a.txt")
		require.NoError(t, err)
		assert.Equal(t, a, p)
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := e.Rename(a, "x/y")
		assert.Error(t, err)
	})

	t.Run("case only", func(t *testing.T) {
		p, err := e.Rename(a, "A.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "A.txt"), p)
		assert.Equal(t, "a", read(t, p))
		a = p
	})

	t.Run("case only never replaces a distinct file", func(t *testing.T) {
		lower := filepath.Join(root, "c.txt")
		upper := filepath.Join(root, "C.txt")
		write(t, lower, "lower")
		write(t, upper, "UPPER")
		if read(t, lower) == "UPPER" {
			t.Skip("case-insensitive filesystem")
		}

		_, err := e.Rename(lower, "C.txt")
		assert.True(t, errors.Is(err, apperr.ErrConflict))
		assert.Equal(t, "lower", read(t, lower))
		assert.Equal(t, "UPPER", read(t, upper))
	})

	t.Run("hard link under another name is a conflict", func(t *testing.T) {
		link := filepath.Join(root, "link.txt")
		require.NoError(t, os.Link(a, link))
		defer os.Remove(link)

		_, err := e.Rename(a, "link.txt")
		assert.True(t, errors.Is(err, apperr.ErrConflict))
		assert.FileExists(t, a)
		assert.FileExists(t, link)
	})

	t.Run("renames", func(t *testing.T) {
		p, err := e.Rename(a, "b.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "b.txt"), p)
		assert.NoFileExists(t, a)
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := e.Rename(filepath.Join(root, "nope"), "other")
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})
}

func TestCreate(t *testing.T) {
	root := t.TempDir()
	e := NewEngine(root)

	p, err := e.CreateFile(root, "new.txt")
	require.NoError(t, err)
	assert.FileExists(t, p)

	_, err = e.CreateFile(root, "new.txt")
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	d, err := e.CreateDir(root, "pkg")
	require.NoError(t, err)
	assert.DirExists(t, d)

	_, err = e.CreateDir(root, "pkg")
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = e.CreateDir(root, "new.txt")
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = e.CreateFile(root, "")
	assert.Error(t, err)
}

func TestDrop(t *testing.T) {
	outside := t.TempDir()
	root := t.TempDir()
	f := filepath.Join(outside, "dropped.txt")
	write(t, f, "d")

	e := NewEngine(root)
	res := e.Drop([]string{f}, root)

	require.NoError(t, res.Err())
	assert.Equal(t, "d", read(t, filepath.Join(root, "dropped.txt")))
	assert.FileExists(t, f, "drops copy")
	assert.True(t, e.Clipboard().Empty())
}

func TestValidateName(t *testing.T) {
	for _, bad := range []string{"", ".", "..", "a/b", "nul\x00", "bell\a"} {
		assert.Error(t, ValidateName(bad), "%q", bad)
	}
	for _, good := range []string{"a.txt", ".env", "with space", "ünïcode"} {
		assert.NoError(t, ValidateName(good), "%q", good)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, filepath.Join(dir, "free.txt"), UniquePath(filepath.Join(dir, "free.txt"), false))

	write(t, filepath.Join(dir, "f.tar.gz"), "")
	assert.Equal(t, filepath.Join(dir, "f.tar_1.gz"), UniquePath(filepath.Join(dir, "f.tar.gz"), false))

	write(t, filepath.Join(dir, ".bashrc"), "")
	assert.Equal(t, filepath.Join(dir, ".bashrc_1"), UniquePath(filepath.Join(dir, ".bashrc"), false))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "v1.0"), 0o755))
	assert.Equal(t, filepath.Join(dir, "v1.0_1"), UniquePath(filepath.Join(dir, "v1.0"), true))

	write(t, filepath.Join(dir, "n"), "")
	write(t, filepath.Join(dir, "n_1"), "")
	assert.Equal(t, filepath.Join(dir, "n_2"), UniquePath(filepath.Join(dir, "n"), false))
}
