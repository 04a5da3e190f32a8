package preview

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avitaltamir/vibetree/internal/apperr"
)

func write(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()

	t.Run("lines with tabs expanded", func(t *testing.T) {
		p := write(t, dir, "main.go", []byte("package main\n\tfunc main() {}\r\n"))
		c, err := Load(p, 0)
		require.NoError(t, err)
		assert.Equal(t, KindText, c.Kind)
		assert.Equal(t, []string{"package main", "    func main() {}"}, c.Lines)
		assert.False(t, c.Truncated)
	})

	t.Run("empty file", func(t *testing.T) {
		p := write(t, dir, "empty.txt", nil)
		c, err := Load(p, 0)
		require.NoError(t, err)
		assert.Equal(t, KindText, c.Kind)
		assert.Empty(t, c.Lines)
	})

	t.Run("bounded read", func(t *testing.T) {
		p := write(t, dir, "big.txt", []byte(strings.Repeat("abcdefghi\n", 100)))
		c, err := Load(p, 25)
		require.NoError(t, err)
		assert.True(t, c.Truncated)
		assert.Equal(t, []string{"abcdefghi", "abcdefghi", "abcde"}, c.Lines)
		assert.Equal(t, int64(1000), c.Size)
	})
}

func TestLoadBinary(t *testing.T) {
	dir := t.TempDir()

	t.Run("hex dump", func(t *testing.T) {
		data := append([]byte{0x00, 0x01, 0xff}, []byte("ABC")...)
		p := write(t, dir, "blob.bin", data)
		c, err := Load(p, 0)
		require.NoError(t, err)
		assert.Equal(t, KindBinary, c.Kind)
		require.Len(t, c.Lines, 3)
		assert.True(t, strings.HasPrefix(c.Lines[0], "["))
		assert.Equal(t, "00 01 ff 41 42 43"+strings.Repeat(" ", 31)+" ...ABC", c.Lines[2])
	})

	t.Run("image dimensions", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))))
		p := write(t, dir, "dot.png", buf.Bytes())
		c, err := Load(p, 0)
		require.NoError(t, err)
		assert.Equal(t, KindBinary, c.Kind)
		assert.Equal(t, "image/png", c.MIME)
		assert.Contains(t, c.Lines[0], "3x2")
	})
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.txt", []byte("12345"))
	write(t, dir, ".env", []byte("x"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	c, err := Load(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, KindDir, c.Kind)
	assert.Equal(t, []string{
		"[Directory]",
		"",
		"  Files: 2",
		"  Directories: 1",
		"  Hidden: 1",
		"  Size: 6 B",
	}, c.Lines)
}

func TestLoadSpecial(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pipe")
	if err := syscall.Mkfifo(p, 0o600); err != nil {
		t.Skipf("mkfifo: %v", err)
	}

	done := make(chan *Content, 1)
	go func() {
		c, err := Load(p, 0)
		assert.NoError(t, err)
		done <- c
	}()

	select {
	case c := <-done:
		require.NotNil(t, c)
		assert.Equal(t, KindSpecial, c.Kind)
		assert.Equal(t, "inode/fifo", c.MIME)
		assert.Equal(t, []string{"[named pipe, -rw-------]"}, c.Lines)
	case <-time.After(2 * time.Second):
		t.Fatal("loading a named pipe blocked")
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), 0)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestHexDump(t *testing.T) {
	data := bytes.Repeat([]byte{'x'}, 40)
	rows := HexDump(data, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, strings.TrimSpace(strings.Repeat("78 ", 16))+"  "+strings.Repeat("x", 16), rows[0])

	assert.Len(t, HexDump(data, 100), 3)
	assert.Empty(t, HexDump(nil, 100))
}
