package filetree

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/vibetree/internal/components"
	"github.com/avitaltamir/vibetree/internal/git"
	"github.com/avitaltamir/vibetree/internal/theme"
)

// Model is the tree panel. It renders a Tree through a scrolling window of
// rows; the Tree itself owns cursor, marks and expansion.
type Model struct {
	components.Base

	tree    *Tree
	offset  int // first visible row shown
	compact bool

	git      *git.Cache
	matches  map[string]struct{}
	clipped  map[string]struct{}
	clipMove bool
}

// New creates a panel over tree.
func New(tree *Tree) Model {
	return Model{tree: tree}
}

// Tree returns the underlying tree.
func (m Model) Tree() *Tree {
	return m.tree
}

// SetSize sets the outer panel size and keeps the cursor on screen.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.EnsureVisible()
}

// PageHeight returns the number of rows the panel shows.
func (m Model) PageHeight() int {
	_, inner := m.Inner()
	return inner
}

// Offset returns the index of the first shown row.
func (m Model) Offset() int {
	return m.offset
}

func (m Model) maxOffset() int {
	return max(m.tree.Len()-m.PageHeight(), 0)
}

// EnsureVisible scrolls the minimum amount that brings the cursor on screen.
func (m *Model) EnsureVisible() {
	page := m.PageHeight()
	if page <= 0 {
		return
	}
	cursor := m.tree.Cursor()
	if cursor < m.offset {
		m.offset = cursor
	}
	if cursor >= m.offset+page {
		m.offset = cursor - page + 1
	}
	m.offset = min(max(m.offset, 0), m.maxOffset())
}

// ScrollBy moves the window by delta rows without touching the cursor. It
// reports false when the window is already at the bound in that direction.
func (m *Model) ScrollBy(delta int) bool {
	next := min(max(m.offset+delta, 0), m.maxOffset())
	if next == m.offset {
		return false
	}
	m.offset = next
	return true
}

// RowAt maps a row inside the panel's content area to a visible index.
func (m Model) RowAt(row int) (int, bool) {
	if row < 0 || row >= m.PageHeight() {
		return 0, false
	}
	i := m.offset + row
	if i >= m.tree.Len() {
		return 0, false
	}
	return i, true
}

// SetGit replaces the status cache used for indicators.
func (m *Model) SetGit(c *git.Cache) {
	m.git = c
}

// SetMatches highlights paths as search hits. nil clears.
func (m *Model) SetMatches(paths []string) {
	m.matches = toSet(paths)
}

// SetClipboard marks paths as pending copy or move.
func (m *Model) SetClipboard(paths []string, move bool) {
	m.clipped = toSet(paths)
	m.clipMove = move
}

// SetCompact switches between the wide and narrow indentation.
func (m *Model) SetCompact(compact bool) {
	m.compact = compact
}

// Compact reports whether narrow indentation is on.
func (m Model) Compact() bool {
	return m.compact
}

func toSet(paths []string) map[string]struct{} {
	if len(paths) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[filepath.Clean(p)] = struct{}{}
	}
	return set
}

// View renders the bordered panel.
func (m Model) View() string {
	w, h := m.Size()
	if w == 0 || h == 0 {
		return ""
	}
	inner, page := m.Inner()

	rows := m.tree.Visible()
	cursor := m.tree.Cursor()

	lines := make([]string, 0, page)
	for i := m.offset; i < len(rows) && len(lines) < page; i++ {
		lines = append(lines, m.renderRow(rows[i], i == cursor, inner))
	}
	if len(rows) == 0 {
		lines = append(lines, theme.TextMutedStyle.Render("(empty)"))
	}

	return theme.RenderPanel(strings.Join(lines, "\n"), theme.PanelOptions{
		Title:       m.title(),
		Info:        m.info(),
		BottomHints: "? help",
	}, w, h)
}

func (m Model) title() string {
	root := m.tree.Root()
	title := root.Name
	if m.git != nil && m.git.Branch() != "" {
		title += " " + theme.GitBranch.Render(m.git.Branch())
	}
	return title
}

func (m Model) info() string {
	var parts []string
	if n := m.tree.MarkCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d marked", n))
	}
	if m.tree.ShowHidden() {
		parts = append(parts, "hidden")
	}
	if total := m.tree.Len(); total > m.PageHeight() && total > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", m.tree.Cursor()+1, total))
	}
	return strings.Join(parts, " · ")
}

func (m Model) indent(n *Node) string {
	unit := theme.TreeSpace
	if m.compact {
		unit = theme.TreeSpaceCompact
	}
	return strings.Repeat(unit, max(n.Depth-1, 0))
}

func (m Model) icon(n *Node) string {
	switch n.Kind {
	case KindDir:
		arrow := theme.IconDirCollapsed
		if n.Expanded {
			arrow = theme.IconDirExpanded
		}
		if icon := theme.DirIcon(n.Name, n.Expanded); icon != arrow {
			return arrow + " " + icon
		}
		return arrow
	case KindSymlink:
		return theme.SymlinkIcon()
	default:
		return theme.FileIcon(n.Name, n.Extension())
	}
}

func (m Model) renderRow(n *Node, selected bool, width int) string {
	mark := theme.IconUnmarked
	if m.tree.IsMarked(n.Path) {
		mark = theme.TreeMarked.Render(theme.IconMarked)
	}

	name := n.Name
	if n.IsDir() {
		name += "/"
	}

	style := theme.TreeFile
	switch {
	case selected:
		style = theme.TreeCursor
	case m.isMatch(n.Path):
		style = theme.TreeMatch
	case n.IsDir():
		style = theme.TreeDir
	case n.Kind == KindSymlink:
		style = theme.TreeSymlink
	}

	var suffix []string
	if _, ok := m.clipped[n.Path]; ok {
		if m.clipMove {
			suffix = append(suffix, theme.IconClipMove)
		} else {
			suffix = append(suffix, theme.IconClipCopy)
		}
	}
	if n.Err != nil {
		suffix = append(suffix, theme.TreeError.Render(theme.IconError+" "+errText(n.Err)))
	}

	gitInd := ""
	if m.git != nil {
		gitInd = theme.RenderGitStatus(m.git.Lookup(n.Path))
	}
	gitWidth := 0
	if gitInd != "" {
		gitWidth = ansi.StringWidth(gitInd) + 1
	}

	text := m.indent(n) + m.icon(n) + " " + name
	avail := max(width-gitWidth-2, 1) // mark + space
	text = ansi.Truncate(text, avail, "…")
	if selected && len(suffix) == 0 {
		text += strings.Repeat(" ", max(avail-ansi.StringWidth(text), 0))
	}
	line := mark + " " + style.Render(text)

	for _, s := range suffix {
		line += " " + s
	}
	line = ansi.Truncate(line, width-gitWidth, "…")

	if gitInd != "" {
		pad := width - gitWidth - ansi.StringWidth(line)
		line += strings.Repeat(" ", max(pad, 0)) + " " + gitInd
	}
	return line
}

func (m Model) isMatch(path string) bool {
	_, ok := m.matches[path]
	return ok
}

// errText shortens a read error to its cause for the inline row.
func errText(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	return msg
}
