package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/vibetree/internal/fileops"
	"github.com/avitaltamir/vibetree/internal/theme"
)

// View renders the application.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.layout.TooSmall() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.TextMutedStyle.Render("terminal too small"))
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	parts := []string{m.renderHeader()}
	if m.layout.TreeHeight > 0 {
		parts = append(parts, m.treeView.View())
	}
	if m.layout.PreviewHeight > 0 {
		parts = append(parts, m.preview.View())
	}
	if m.layout.PromptHeight > 0 {
		parts = append(parts, m.renderPrompt())
	}
	parts = append(parts, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// fill lays left and right out on one line of width w, truncating left first.
func fill(left, right string, w int) string {
	right = ansi.Truncate(right, w, "")
	avail := max(w-ansi.StringWidth(right)-1, 0)
	left = ansi.Truncate(left, avail, "…")
	gap := max(w-ansi.StringWidth(left)-ansi.StringWidth(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderHeader() string {
	left := theme.HeaderPath.Render(displayPath(m.tree.Root().Path))
	right := m.mode.Name()
	if n := m.runner.Running(); n > 0 {
		right = fmt.Sprintf("%s running · %s", countRunning(n), right)
	}
	if m.quickPreview {
		right = "quick preview · " + right
	}
	// Padding takes one column each side.
	return theme.HeaderStyle.Render(fill(left, right, max(m.width-2, 0)))
}

func countRunning(n int) string {
	if n == 1 {
		return "1 job"
	}
	return fmt.Sprintf("%d jobs", n)
}

// displayPath abbreviates the home directory to ~.
func displayPath(p string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	if p == home {
		return "~"
	}
	if rel, err := filepath.Rel(home, p); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.Join("~", rel)
	}
	return p
}

func (m Model) renderPrompt() string {
	switch mode := m.mode.(type) {
	case ConfirmDeleteMode:
		what := fmt.Sprintf("%d item(s)", len(mode.Targets))
		if len(mode.Targets) == 1 {
			what = filepath.Base(mode.Targets[0])
		}
		if mode.HasDirs {
			what += " recursively"
		}
		line := theme.PromptError.Render("Delete "+what+"?") + " " + theme.PromptLabel.Render("[y/N]")
		return ansi.Truncate(line, m.width, "…")

	case SearchMode:
		line := m.prompt.View()
		if mode.Query != "" {
			info := fmt.Sprintf("  %d match(es)", mode.Matches.Len())
			line = ansi.Truncate(line, max(m.width-len(info), 0), "…") + theme.TextMutedStyle.Render(info)
		}
		return line
	}
	return m.prompt.View()
}

func (m Model) renderStatusBar() string {
	w := max(m.width-2, 0)

	var left string
	switch {
	case m.status != "" && m.statusErr:
		left = theme.StatusError.Render(m.status)
	case m.status != "":
		left = theme.StatusInfo.Render(m.status)
	default:
		h := m.help
		h.Styles.ShortKey = theme.HelpKey
		h.Styles.ShortDesc = theme.HelpDesc
		h.Styles.ShortSeparator = theme.HelpDesc
		left = h.ShortHelpView(m.keys.ShortHelp())
	}

	var right []string
	if clip := m.ops.Clipboard(); !clip.Empty() {
		icon := theme.IconClipCopy
		if clip.Op == fileops.OpMove {
			icon = theme.IconClipMove
		}
		right = append(right, fmt.Sprintf("%s %d", icon, len(clip.Paths)))
	}
	if m.gitCache != nil && m.gitCache.Branch() != "" {
		right = append(right, theme.GitBranch.Render(m.gitCache.Branch()))
	}
	right = append(right, theme.CurrentTheme().Name)

	return theme.StatusBarStyle.Render(fill(left, strings.Join(right, " │ "), w))
}

func (m Model) renderHelpOverlay() string {
	h := m.help
	h.ShowAll = true
	h.Width = max(m.width-4, 0)
	h.Styles.FullKey = theme.HelpKey
	h.Styles.FullDesc = theme.HelpDesc
	h.Styles.FullSeparator = theme.HelpDesc
	body := h.View(m.keys)

	w := min(lipgloss.Width(body)+4, m.width)
	ht := min(lipgloss.Height(body)+2, m.height)
	box := theme.RenderPanel(body, theme.PanelOptions{
		Title:       "vibetree " + Version,
		BottomHints: "press any key to close",
	}, w, ht)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
