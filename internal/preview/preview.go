// Package preview captures what the preview pane shows for a path: text lines,
// a hex dump for binary files, or a summary for directories. Content is read
// once and bounded; the pane never re-reads while scrolling.
package preview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/avitaltamir/vibetree/internal/apperr"
)

const (
	// DefaultMaxBytes bounds how much of a file is read.
	DefaultMaxBytes = 1 << 20
	// HexRows caps the hex dump of a binary file.
	HexRows = 100
	// TabWidth is the number of spaces a tab expands to.
	TabWidth = 4
)

// Kind is what a Content holds.
type Kind int

const (
	KindText Kind = iota
	KindBinary
	KindDir
	KindSpecial // fifo, socket or device: described, never opened
	KindOutput  // captured command output, shown as is
)

// Content is a captured preview.
type Content struct {
	Path      string
	Kind      Kind
	MIME      string
	Size      int64
	Lines     []string
	Truncated bool // the file was larger than the read bound
}

// Text returns the lines joined with newlines.
func (c *Content) Text() string {
	return strings.Join(c.Lines, "\n")
}

// Load captures path. maxBytes <= 0 uses DefaultMaxBytes.
func Load(path string, maxBytes int64) (*Content, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperr.FromFS("preview", path, err)
	}
	if info.IsDir() {
		return loadDir(path)
	}
	if !info.Mode().IsRegular() {
		return loadSpecial(path, info), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.FromFS("preview", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes))
	if err != nil {
		return nil, apperr.FromFS("preview", path, err)
	}

	mime := mimetype.Detect(data)
	c := &Content{
		Path:      path,
		MIME:      mime.String(),
		Size:      info.Size(),
		Truncated: info.Size() > int64(len(data)),
	}

	if isText(mime, data) {
		c.Kind = KindText
		c.Lines = textLines(data)
		return c, nil
	}

	c.Kind = KindBinary
	c.Lines = append(binaryHeader(mime, data, info.Size()), HexDump(data, HexRows)...)
	return c, nil
}

// isText trusts the detected type first and falls back to utf-8 validity
// for inputs the detector cannot place.
func isText(mime *mimetype.MIME, data []byte) bool {
	for m := mime; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return utf8.Valid(trimPartialRune(data))
		}
	}
	if mime.Is("application/octet-stream") {
		return len(data) > 0 && utf8.Valid(trimPartialRune(data)) && bytes.IndexByte(data, 0) < 0
	}
	return false
}

// trimPartialRune drops a rune cut off by the read bound.
func trimPartialRune(data []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(data) > 0; i++ {
		r, size := utf8.DecodeLastRune(data)
		if r != utf8.RuneError || size != 1 {
			return data
		}
		data = data[:len(data)-1]
	}
	return data
}

func textLines(data []byte) []string {
	s := string(trimPartialRune(data))
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", TabWidth))
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func binaryHeader(mime *mimetype.MIME, data []byte, size int64) []string {
	head := fmt.Sprintf("[%s, %s]", mime.String(), humanize.IBytes(uint64(size)))
	if strings.HasPrefix(mime.String(), "image/") {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			head = fmt.Sprintf("[%s, %dx%d, %s]", mime.String(), cfg.Width, cfg.Height, humanize.IBytes(uint64(size)))
		}
	}
	return []string{head, ""}
}

// HexDump formats data as at most maxRows rows of 16 bytes: hex pairs padded
// to a fixed column, then the printable ASCII rendering.
func HexDump(data []byte, maxRows int) []string {
	var rows []string
	for off := 0; off < len(data) && len(rows) < maxRows; off += 16 {
		end := min(off+16, len(data))
		chunk := data[off:end]

		hex := make([]string, len(chunk))
		ascii := make([]byte, len(chunk))
		for i, b := range chunk {
			hex[i] = fmt.Sprintf("%02x", b)
			if b >= 0x20 && b < 0x7f {
				ascii[i] = b
			} else {
				ascii[i] = '.'
			}
		}
		rows = append(rows, fmt.Sprintf("%-48s %s", strings.Join(hex, " "), ascii))
	}
	return rows
}

// loadSpecial describes a file that cannot be read without blocking or
// side effects.
func loadSpecial(path string, info os.FileInfo) *Content {
	what := "special file"
	mime := "inode/x-special"
	switch mode := info.Mode(); {
	case mode&os.ModeNamedPipe != 0:
		what, mime = "named pipe", "inode/fifo"
	case mode&os.ModeSocket != 0:
		what, mime = "socket", "inode/socket"
	case mode&os.ModeCharDevice != 0:
		what, mime = "character device", "inode/chardevice"
	case mode&os.ModeDevice != 0:
		what, mime = "block device", "inode/blockdevice"
	}
	return &Content{
		Path:  path,
		Kind:  KindSpecial,
		MIME:  mime,
		Lines: []string{fmt.Sprintf("[%s, %s]", what, info.Mode().Perm())},
	}
}

func loadDir(path string) (*Content, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, apperr.FromFS("preview", path, err)
	}

	var files, dirs, hidden int
	var total uint64
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			hidden++
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.IsDir() {
			dirs++
			continue
		}
		files++
		total += uint64(info.Size())
	}

	lines := []string{
		"[Directory]",
		"",
		fmt.Sprintf("  Files: %d", files),
		fmt.Sprintf("  Directories: %d", dirs),
	}
	if hidden > 0 {
		lines = append(lines, fmt.Sprintf("  Hidden: %d", hidden))
	}
	lines = append(lines, "  Size: "+humanize.IBytes(total))

	return &Content{Path: path, Kind: KindDir, MIME: "inode/directory", Lines: lines}, nil
}
