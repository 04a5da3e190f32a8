package preview

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/vibetree/internal/components"
	content "github.com/avitaltamir/vibetree/internal/preview"
	"github.com/avitaltamir/vibetree/internal/theme"
)

// Model is the preview pane. It shows one captured Content, scrolled by a
// line offset that stays within the content.
type Model struct {
	components.Base

	viewport   viewport.Model
	content    *content.Content
	title      string
	lines      []string // rendered, one per content line
	offset     int
	fullscreen bool
}

// New creates an empty preview pane.
func New() Model {
	return Model{viewport: viewport.New(0, 0)}
}

// SetContent shows c from the top.
func (m *Model) SetContent(c *content.Content) {
	m.content = c
	m.title = filepath.Base(c.Path)
	if c.Truncated {
		m.title += " (truncated)"
	}
	m.offset = 0
	m.render()
}

// SetText shows plain lines under title, e.g. command output.
func (m *Model) SetText(title string, lines []string) {
	m.SetContent(&content.Content{Kind: content.KindOutput, Lines: lines})
	m.title = title
}

// Clear drops the content.
func (m *Model) Clear() {
	m.content = nil
	m.title = ""
	m.lines = nil
	m.offset = 0
	m.fullscreen = false
	m.viewport.SetContent("")
}

// Content returns the shown content, or nil.
func (m Model) Content() *content.Content {
	return m.content
}

// Path returns the previewed path, or "".
func (m Model) Path() string {
	if m.content == nil {
		return ""
	}
	return m.content.Path
}

// Fullscreen reports whether the pane takes the whole main area.
func (m Model) Fullscreen() bool {
	return m.fullscreen
}

// ToggleFullscreen flips fullscreen.
func (m *Model) ToggleFullscreen() {
	m.fullscreen = !m.fullscreen
}

// SetFullscreen sets fullscreen.
func (m *Model) SetFullscreen(on bool) {
	m.fullscreen = on
}

// SetSize sets the outer panel size.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	w, h := m.Inner()
	m.viewport.Width = w
	m.viewport.Height = h
	m.render()
}

// Offset returns the first shown line.
func (m Model) Offset() int {
	return m.offset
}

// Len returns the number of content lines.
func (m Model) Len() int {
	return len(m.lines)
}

func (m Model) pageHeight() int {
	return max(m.viewport.Height, 1)
}

func (m Model) maxOffset() int {
	return max(len(m.lines)-m.viewport.Height, 0)
}

// ScrollBy moves the offset by delta lines, clamped.
func (m *Model) ScrollBy(delta int) {
	m.SetOffset(m.offset + delta)
}

// SetOffset moves the offset to n, clamped to [0, max(0, len-height)].
func (m *Model) SetOffset(n int) {
	m.offset = min(max(n, 0), m.maxOffset())
	m.viewport.SetYOffset(m.offset)
}

// PageDown scrolls one page forward.
func (m *Model) PageDown() {
	m.ScrollBy(m.pageHeight())
}

// PageUp scrolls one page back.
func (m *Model) PageUp() {
	m.ScrollBy(-m.pageHeight())
}

// Top jumps to the first line.
func (m *Model) Top() {
	m.SetOffset(0)
}

// Bottom jumps to the last page.
func (m *Model) Bottom() {
	m.SetOffset(m.maxOffset())
}

func (m *Model) render() {
	m.lines = nil
	if m.content == nil {
		m.viewport.SetContent("")
		return
	}

	switch m.content.Kind {
	case content.KindText:
		m.lines = numbered(highlight(m.content.Path, m.content.Lines))
	default:
		m.lines = make([]string, len(m.content.Lines))
		copy(m.lines, m.content.Lines)
	}
	if len(m.lines) == 0 {
		m.lines = []string{theme.TextMutedStyle.Render("(empty)")}
	}

	if w := m.viewport.Width; w > 0 {
		for i, l := range m.lines {
			m.lines[i] = ansi.Truncate(l, w, "")
		}
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.SetOffset(m.offset)
}

// highlight runs lines through chroma, picking the lexer by file name and
// then by content. On any failure the plain lines come back.
func highlight(path string, lines []string) []string {
	text := strings.Join(lines, "\n")

	var lexer chroma.Lexer
	if path != "" {
		lexer = lexers.Match(filepath.Base(path))
	}
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		return lines
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return lines
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return lines
	}

	out := strings.Split(buf.String(), "\n")
	for len(out) > len(lines) && strings.TrimSpace(ansi.Strip(out[len(out)-1])) == "" {
		out = out[:len(out)-1]
	}
	if len(out) != len(lines) {
		return lines
	}
	return out
}

func numbered(lines []string) []string {
	width := len(fmt.Sprint(len(lines)))
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = theme.LineNumber.Render(fmt.Sprintf("%*d", width, i+1)) + " │ " + l
	}
	return out
}

// View renders the bordered pane.
func (m Model) View() string {
	w, h := m.Size()
	info := ""
	if n := len(m.lines); n > m.viewport.Height && m.viewport.Height > 0 {
		info = fmt.Sprintf("%d-%d/%d", m.offset+1, min(m.offset+m.viewport.Height, n), n)
	}
	hints := "j/k scroll  f fullscreen  q close"
	return theme.RenderPanel(m.viewport.View(), theme.PanelOptions{
		Title:       m.title,
		Info:        info,
		BottomHints: hints,
	}, w, h)
}
