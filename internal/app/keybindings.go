package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the application.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Toggle   key.Binding

	ExpandAll   key.Binding
	CollapseAll key.Binding

	// Selection and clipboard
	Mark   key.Binding
	Cancel key.Binding
	Yank   key.Binding
	Cut    key.Binding
	Paste  key.Binding

	// File operations
	Delete  key.Binding
	Rename  key.Binding
	NewFile key.Binding
	NewDir  key.Binding

	// Search
	Search    key.Binding
	NextMatch key.Binding

	// Commands
	Command    key.Binding
	Repeat     key.Binding
	Edit       key.Binding
	LastOutput key.Binding

	// View
	Preview      key.Binding
	QuickPreview key.Binding
	Hidden       key.Binding
	Compact      key.Binding
	Refresh      key.Binding
	CopyPath     key.Binding
	CopyName     key.Binding
	Theme        key.Binding

	Help key.Binding
	Quit key.Binding
}

// PreviewKeyMap holds the bindings active while the preview is open.
type PreviewKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Fullscreen key.Binding
	Close      key.Binding
}

// SearchKeyMap holds the bindings that steer the match cursor while typing.
type SearchKeyMap struct {
	Next key.Binding
	Prev key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g/home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G/end", "bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter/l", "open"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("h", "left", "backspace"),
			key.WithHelp("h/←", "close/parent"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle dir"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "collapse all"),
		),

		Mark: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "mark"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear marks"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank"),
		),
		Cut: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "cut"),
		),
		Paste: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "paste"),
		),

		Delete: key.NewBinding(
			key.WithKeys("D", "delete"),
			key.WithHelp("D", "delete"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		NewFile: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "new file"),
		),
		NewDir: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "new dir"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),

		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "run command"),
		),
		Repeat: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "repeat command"),
		),
		Edit: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "edit"),
		),
		LastOutput: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "last output"),
		),

		Preview: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "preview"),
		),
		QuickPreview: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "quick preview"),
		),
		Hidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden files"),
		),
		Compact: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "compact indent"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R", "f5"),
			key.WithHelp("R", "refresh"),
		),
		CopyPath: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy path"),
		),
		CopyName: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "copy name"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "next theme"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DefaultPreviewKeyMap returns the preview bindings.
func DefaultPreviewKeyMap() PreviewKeyMap {
	return PreviewKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b", "ctrl+u"),
			key.WithHelp("b/pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " ", "ctrl+d"),
			key.WithHelp("space/pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		Close: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q/esc", "close"),
		),
	}
}

// DefaultSearchKeyMap returns the search bindings.
func DefaultSearchKeyMap() SearchKeyMap {
	return SearchKeyMap{
		Next: key.NewBinding(
			key.WithKeys("ctrl+n", "tab"),
			key.WithHelp("tab", "next match"),
		),
		Prev: key.NewBinding(
			key.WithKeys("ctrl+p", "shift+tab"),
			key.WithHelp("shift+tab", "previous match"),
		),
	}
}

// ShortHelp returns the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Expand, k.Mark, k.Search, k.Command, k.Help, k.Quit}
}

// FullHelp returns the help overlay columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown, k.Expand, k.Collapse, k.Toggle, k.ExpandAll, k.CollapseAll},
		{k.Mark, k.Cancel, k.Yank, k.Cut, k.Paste, k.Delete, k.Rename, k.NewFile, k.NewDir},
		{k.Search, k.NextMatch, k.Command, k.Repeat, k.LastOutput, k.Edit, k.CopyPath, k.CopyName},
		{k.Preview, k.QuickPreview, k.Hidden, k.Compact, k.Refresh, k.Theme, k.Help, k.Quit},
	}
}
