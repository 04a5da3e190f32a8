package runner

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"github.com/hinshun/vt10x"
)

// runPTY runs cmd on a pseudo-terminal and returns what its screen shows
// once it exits. The raw byte stream is still bounded by the output limit.
func runPTY(cmd *exec.Cmd, opts Options) (string, bool, error) {
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	vt := vt10x.New(vt10x.WithSize(opts.Cols, opts.Rows))

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(opts.Rows),
		Cols: uint16(opts.Cols),
	})
	if err != nil {
		return "", false, err
	}
	defer ptmx.Close()

	total := 0
	truncated := false
	buf := make([]byte, 32*1024)
	for {
		n, rerr := ptmx.Read(buf)
		if n > 0 {
			if total < opts.OutputLimit {
				chunk := buf[:n]
				if total+n > opts.OutputLimit {
					chunk = chunk[:opts.OutputLimit-total]
					truncated = true
				}
				_, _ = vt.Write(chunk)
			} else {
				truncated = true
			}
			total += n
		}
		if rerr != nil {
			// Linux reports EIO once the child side closes.
			if !errors.Is(rerr, io.EOF) && !errors.Is(rerr, os.ErrClosed) && !errors.Is(rerr, syscall.EIO) {
				_ = cmd.Wait()
				return screenText(vt), truncated, rerr
			}
			break
		}
	}

	return screenText(vt), truncated, cmd.Wait()
}

// screenText reads the virtual screen row by row, dropping trailing blanks.
func screenText(vt vt10x.Terminal) string {
	vt.Lock()
	defer vt.Unlock()

	cols, rows := vt.Size()
	lines := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		var sb strings.Builder
		for col := 0; col < cols; col++ {
			ch := vt.Cell(col, row).Char
			if ch == 0 {
				ch = ' '
			}
			sb.WriteRune(ch)
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
