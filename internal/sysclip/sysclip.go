// Package sysclip copies text to the system clipboard off the UI loop.
package sysclip

import (
	"errors"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("system clipboard unavailable")

var writeAll = clipboard.WriteAll

// CopiedMsg reports the result of Copy. Label names what was copied for the
// status line ("path", "name").
type CopiedMsg struct {
	Label string
	Text  string
	Err   error
}

// Available reports whether a clipboard backend was found.
func Available() bool {
	return !clipboard.Unsupported
}

// Copy returns a command that writes text to the clipboard.
func Copy(label, text string) tea.Cmd {
	return func() tea.Msg {
		if !Available() {
			return CopiedMsg{Label: label, Text: text, Err: ErrUnsupported}
		}
		return CopiedMsg{Label: label, Text: text, Err: writeAll(text)}
	}
}
