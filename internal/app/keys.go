package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/vibetree/internal/sysclip"
	"github.com/avitaltamir/vibetree/internal/theme"
)

// handleKey dispatches a key to the active mode. Keys a mode does not bind
// are ignored.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.showHelp {
		m.showHelp = false
		return nil
	}

	switch mode := m.mode.(type) {
	case NormalMode:
		return m.normalKey(msg)
	case SearchMode:
		return m.searchKey(mode, msg)
	case CommandInputMode:
		return m.commandKey(mode, msg)
	case RenamePromptMode:
		return m.renameKey(mode, msg)
	case CreatePromptMode:
		return m.createKey(mode, msg)
	case ConfirmDeleteMode:
		return m.confirmKey(mode, msg)
	case PreviewMode:
		return m.previewKey(msg)
	}
	return nil
}

func (m *Model) normalKey(msg tea.KeyMsg) tea.Cmd {
	// Terminals deliver dropped files as a bracketed paste.
	if msg.Paste {
		paths := ParseDrop(string(msg.Runes))
		if len(paths) == 0 {
			return nil
		}
		return func() tea.Msg { return DropMsg{Paths: paths} }
	}

	k := m.keys
	tree := m.tree

	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()

	case key.Matches(msg, k.Up):
		m.moveCursor(-1)
	case key.Matches(msg, k.Down):
		m.moveCursor(1)
	case key.Matches(msg, k.Top):
		tree.CursorTop()
		m.treeView.EnsureVisible()
	case key.Matches(msg, k.Bottom):
		tree.CursorBottom()
		m.treeView.EnsureVisible()
	case key.Matches(msg, k.PageUp):
		m.moveCursor(-m.treeView.PageHeight())
	case key.Matches(msg, k.PageDown):
		m.moveCursor(m.treeView.PageHeight())

	case key.Matches(msg, k.Expand):
		return m.open()
	case key.Matches(msg, k.Collapse):
		m.closeOrParent()
	case key.Matches(msg, k.Toggle):
		if sel := tree.Selected(); sel != nil && sel.IsDir() {
			return m.toggleDir(sel.Path)
		}
	case key.Matches(msg, k.ExpandAll):
		err := tree.ExpandAll(m.cfg.Tree.ExpandAllDepth)
		m.syncWatch()
		m.treeView.EnsureVisible()
		if err != nil {
			return m.setError(err)
		}
	case key.Matches(msg, k.CollapseAll):
		tree.CollapseAll()
		m.syncWatch()
		m.treeView.EnsureVisible()

	case key.Matches(msg, k.Mark):
		if sel := tree.Selected(); sel != nil {
			tree.ToggleMark(sel)
			m.moveCursor(1)
		}
	case key.Matches(msg, k.Cancel):
		return m.cancel()
	case key.Matches(msg, k.Yank):
		return m.yank()
	case key.Matches(msg, k.Cut):
		return m.cut()
	case key.Matches(msg, k.Paste):
		return m.paste()

	case key.Matches(msg, k.Delete):
		m.confirmDelete()
	case key.Matches(msg, k.Rename):
		return m.startRename()
	case key.Matches(msg, k.NewFile):
		return m.startCreate(false)
	case key.Matches(msg, k.NewDir):
		return m.startCreate(true)

	case key.Matches(msg, k.Search):
		return m.startSearch()
	case key.Matches(msg, k.NextMatch):
		return m.nextMatch()

	case key.Matches(msg, k.Command):
		return m.startCommand()
	case key.Matches(msg, k.Repeat):
		return m.repeat()
	case key.Matches(msg, k.Edit):
		return m.edit()
	case key.Matches(msg, k.LastOutput):
		return m.showOutput()

	case key.Matches(msg, k.Preview):
		return m.openPreview()
	case key.Matches(msg, k.QuickPreview):
		m.quickPreview = !m.quickPreview
		if !m.quickPreview {
			m.preview.Clear()
		}
		m.saveState()
	case key.Matches(msg, k.Hidden):
		tree.ToggleHidden()
		m.treeView.EnsureVisible()
		m.syncWatch()
		m.saveState()
	case key.Matches(msg, k.Compact):
		m.treeView.SetCompact(!m.treeView.Compact())
		m.saveState()
	case key.Matches(msg, k.Refresh):
		return m.refresh()
	case key.Matches(msg, k.CopyPath):
		if sel := tree.Selected(); sel != nil {
			return sysclip.Copy("path", sel.Path)
		}
	case key.Matches(msg, k.CopyName):
		if sel := tree.Selected(); sel != nil {
			return sysclip.Copy("name", sel.Name)
		}
	case key.Matches(msg, k.Theme):
		t := theme.NextTheme()
		// Re-render cached preview lines in the new palette.
		w, h := m.preview.Size()
		m.preview.SetSize(w, h)
		m.saveState()
		return m.setStatus("Theme: " + t.Name)

	case key.Matches(msg, k.Help):
		m.showHelp = true
	}
	return nil
}

func (m *Model) searchKey(mode SearchMode, msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyEsc:
		if mode.Origin != "" {
			m.tree.SelectPath(mode.Origin)
		}
		m.treeView.SetMatches(nil)
		m.treeView.EnsureVisible()
		m.closePrompt()
		return nil

	case msg.Type == tea.KeyEnter:
		m.lastQuery = mode.Query
		m.closePrompt()
		if mode.Query != "" && mode.Matches.Empty() {
			return m.setStatus("No matches for " + mode.Query)
		}
		return nil

	case key.Matches(msg, m.searchKeys.Next):
		if i, ok := mode.Matches.Next(m.tree.Cursor()); ok {
			m.tree.SetCursor(i)
			mode.MatchCursor = i
		}
	case key.Matches(msg, m.searchKeys.Prev):
		if i, ok := mode.Matches.Prev(m.tree.Cursor()); ok {
			m.tree.SetCursor(i)
			mode.MatchCursor = i
		}

	default:
		cmd := m.updatePrompt(msg)
		if q := m.prompt.Value(); q != mode.Query {
			mode.Query = q
			m.runSearch(&mode)
		}
		m.mode = mode
		return cmd
	}

	m.treeView.EnsureVisible()
	m.mode = mode
	return nil
}

func (m *Model) commandKey(mode CommandInputMode, msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return nil
	case tea.KeyEnter:
		template := m.prompt.Value()
		m.closePrompt()
		return m.run(template, mode.Target)
	}
	return m.updatePrompt(msg)
}

func (m *Model) renameKey(mode RenamePromptMode, msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return nil
	case tea.KeyEnter:
		return m.commitRename(mode.Target)
	}
	return m.updatePrompt(msg)
}

func (m *Model) createKey(mode CreatePromptMode, msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return nil
	case tea.KeyEnter:
		return m.commitCreate(mode)
	}
	return m.updatePrompt(msg)
}

func (m *Model) confirmKey(mode ConfirmDeleteMode, msg tea.KeyMsg) tea.Cmd {
	m.mode = NormalMode{}
	switch msg.String() {
	case "y", "Y", "enter":
		return m.delete(mode.Targets)
	}
	return m.setStatus("Delete cancelled")
}

func (m *Model) previewKey(msg tea.KeyMsg) tea.Cmd {
	pk := m.previewKeys
	switch {
	case key.Matches(msg, pk.Close):
		m.mode = NormalMode{}
		m.preview.Clear()
	case key.Matches(msg, pk.Up):
		m.preview.ScrollBy(-1)
	case key.Matches(msg, pk.Down):
		m.preview.ScrollBy(1)
	case key.Matches(msg, pk.PageUp):
		m.preview.PageUp()
	case key.Matches(msg, pk.PageDown):
		m.preview.PageDown()
	case key.Matches(msg, pk.Top):
		m.preview.Top()
	case key.Matches(msg, pk.Bottom):
		m.preview.Bottom()
	case key.Matches(msg, pk.Fullscreen):
		m.preview.ToggleFullscreen()
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	m.tree.MoveCursor(delta)
	m.treeView.EnsureVisible()
}
