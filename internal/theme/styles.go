package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/vibetree/internal/git"
)

// GlowBorder uses rounded corners for a softer look
var GlowBorder = lipgloss.Border{
	Top:         "─",
	Bottom:      "─",
	Left:        "│",
	Right:       "│",
	TopLeft:     "╭",
	TopRight:    "╮",
	BottomLeft:  "╰",
	BottomRight: "╯",
}

// Tree row styles
var (
	TreeDir     lipgloss.Style
	TreeFile    lipgloss.Style
	TreeSymlink lipgloss.Style
	TreeCursor  lipgloss.Style
	TreeMarked  lipgloss.Style
	TreeError   lipgloss.Style
	TreeMatch   lipgloss.Style
)

// Git status styles
var (
	GitModified  lipgloss.Style
	GitAdded     lipgloss.Style
	GitDeleted   lipgloss.Style
	GitRenamed   lipgloss.Style
	GitUntracked lipgloss.Style
	GitIgnored   lipgloss.Style
	GitConflict  lipgloss.Style
	GitBranch    lipgloss.Style
)

// Chrome: header, status line, prompt, preview, help
var (
	HeaderStyle     lipgloss.Style
	HeaderPath      lipgloss.Style
	StatusBarStyle  lipgloss.Style
	StatusInfo      lipgloss.Style
	StatusError     lipgloss.Style
	StatusHighlight lipgloss.Style
	PromptLabel     lipgloss.Style
	PromptError     lipgloss.Style
	LineNumber      lipgloss.Style
	HelpKey         lipgloss.Style
	HelpDesc        lipgloss.Style
	TextMutedStyle  lipgloss.Style
)

// regenerateStyles rebuilds all style variables based on current color values.
// Called when theme changes.
func regenerateStyles() {
	TreeDir = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	TreeFile = lipgloss.NewStyle().
		Foreground(TextPrimary)

	TreeSymlink = lipgloss.NewStyle().
		Foreground(ColorSpecial).
		Italic(true)

	TreeCursor = lipgloss.NewStyle().
		Background(BgCursor).
		Foreground(ColorPrimary).
		Bold(true)

	TreeMarked = lipgloss.NewStyle().
		Foreground(ColorMark).
		Bold(true)

	TreeError = lipgloss.NewStyle().
		Foreground(ColorError).
		Italic(true)

	TreeMatch = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Underline(true)

	GitModified = lipgloss.NewStyle().Foreground(ColorWarning)
	GitAdded = lipgloss.NewStyle().Foreground(ColorSuccess)
	GitDeleted = lipgloss.NewStyle().Foreground(ColorError)
	GitRenamed = lipgloss.NewStyle().Foreground(ColorSecondary)
	GitUntracked = lipgloss.NewStyle().Foreground(ColorSpecial)
	GitIgnored = lipgloss.NewStyle().Foreground(TextDim).Faint(true)
	GitConflict = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	GitBranch = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgBar).
		Padding(0, 1)

	HeaderPath = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Background(BgBar).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgBar).
		Padding(0, 1)

	StatusInfo = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Background(BgBar)

	StatusError = lipgloss.NewStyle().
		Foreground(ColorError).
		Background(BgBar).
		Bold(true)

	StatusHighlight = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Background(BgBar).
		Bold(true)

	PromptLabel = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	PromptError = lipgloss.NewStyle().
		Foreground(ColorError)

	LineNumber = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(5).
		Align(lipgloss.Right).
		PaddingRight(1)

	HelpKey = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	TextMutedStyle = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
}

// GitStatusStyle returns the style for a git status.
func GitStatusStyle(s git.Status) lipgloss.Style {
	switch s {
	case git.StatusModified:
		return GitModified
	case git.StatusAdded:
		return GitAdded
	case git.StatusDeleted:
		return GitDeleted
	case git.StatusRenamed:
		return GitRenamed
	case git.StatusUntracked:
		return GitUntracked
	case git.StatusIgnored:
		return GitIgnored
	case git.StatusConflict:
		return GitConflict
	default:
		return TreeFile
	}
}

// RenderGitStatus renders the indicator for a status, empty for none.
func RenderGitStatus(s git.Status) string {
	sym := s.Symbol()
	if sym == "" {
		return ""
	}
	return GitStatusStyle(s).Render(sym)
}

// PanelOptions configures what to show in a panel's borders.
type PanelOptions struct {
	Title       string // Main title text (e.g., file name)
	Info        string // Right-aligned info in the top border (e.g., "42%")
	BottomHints string // Key hints for bottom border (e.g., "q:close f:fullscreen")
}

// RenderPanel renders content in a rounded panel with the title embedded in
// the top border.
func RenderPanel(content string, opts PanelOptions, width, height int) string {
	if width < 4 || height < 2 {
		return ""
	}

	border := GlowBorder
	borderStyle := lipgloss.NewStyle().Foreground(TextDim)
	titleStyle := lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	infoStyle := lipgloss.NewStyle().Foreground(TextMuted)

	innerWidth := width - 2

	top := borderStyle.Render(border.TopLeft) +
		borderLine(border.Top, borderStyle, segment(opts.Title, titleStyle), segment(opts.Info, infoStyle), innerWidth) +
		borderStyle.Render(border.TopRight)
	bottom := borderStyle.Render(border.BottomLeft) +
		borderLine(border.Bottom, borderStyle, segment(opts.BottomHints, infoStyle), "", innerWidth) +
		borderStyle.Render(border.BottomRight)

	contentHeight := height - 2
	lines := strings.Split(content, "\n")
	rendered := make([]string, contentHeight)
	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(lines) {
			line = ansi.Truncate(lines[i], innerWidth, "")
		}
		if w := ansi.StringWidth(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		rendered[i] = borderStyle.Render(border.Left) + line + borderStyle.Render(border.Right)
	}

	return top + "\n" + strings.Join(rendered, "\n") + "\n" + bottom
}

func segment(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	return "[ " + style.Render(text) + " ]"
}

// borderLine fills width with edge, placing left after a two-cell gap and
// right flush against the end. Segments that do not fit are dropped.
func borderLine(edge string, style lipgloss.Style, left, right string, width int) string {
	const gap = 2
	lw, rw := ansi.StringWidth(left), ansi.StringWidth(right)
	if gap+lw+rw > width {
		right, rw = "", 0
	}
	if gap+lw > width {
		left, lw = "", 0
	}
	if left == "" {
		return style.Render(strings.Repeat(edge, width-rw)) + right
	}
	fill := width - gap - lw - rw
	return style.Render(strings.Repeat(edge, gap)) + left + style.Render(strings.Repeat(edge, fill)) + right
}
