package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// handleMouse maps clicks and wheel notches onto the tree. Rows go through
// the layout's tree region and the panel's scroll offset. Outside Normal
// mode only the wheel in Preview does anything.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.showHelp {
		return nil
	}

	wheel := 0
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		wheel = -wheelStep
	case tea.MouseButtonWheelDown:
		wheel = wheelStep
	}

	switch m.mode.(type) {
	case NormalMode:
	case PreviewMode:
		if wheel != 0 {
			m.preview.ScrollBy(wheel)
		}
		return nil
	default:
		return nil
	}

	if wheel != 0 {
		if m.layout.InPreview(msg.Y) {
			m.preview.ScrollBy(wheel)
			return nil
		}
		// The wheel moves the viewport; only at the list bounds does it
		// move the cursor instead.
		if !m.treeView.ScrollBy(wheel) {
			m.wheelCursor(wheel)
		}
		return nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	row, ok := m.layout.TreeRow(msg.Y)
	if !ok {
		return nil
	}
	i, ok := m.treeView.RowAt(row)
	if !ok {
		return nil
	}

	now := m.now()
	double := i == m.lastClickRow && now.Sub(m.lastClick) <= m.cfg.Mouse.DoubleClick

	m.tree.SetCursor(i)
	m.treeView.EnsureVisible()

	if double {
		m.lastClickRow = -1
		m.lastClick = time.Time{}
		return m.activate()
	}
	m.lastClickRow = i
	m.lastClick = now
	return nil
}

// wheelCursor moves the cursor by delta, held inside the shown window.
func (m *Model) wheelCursor(delta int) {
	first := m.treeView.Offset()
	last := first + m.treeView.PageHeight() - 1
	m.tree.SetCursor(min(max(m.tree.Cursor()+delta, first), last))
	m.treeView.EnsureVisible()
}

// activate is the double-click action: toggle a directory, preview anything else.
func (m *Model) activate() tea.Cmd {
	sel := m.tree.Selected()
	if sel == nil {
		return nil
	}
	if sel.IsDir() {
		return m.toggleDir(sel.Path)
	}
	return m.openPreview()
}
