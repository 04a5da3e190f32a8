// Package prompt is the single-line input shown above the status bar for
// search, commands, renames and new entries.
package prompt

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/vibetree/internal/components"
	"github.com/avitaltamir/vibetree/internal/history"
	"github.com/avitaltamir/vibetree/internal/theme"
)

// Model wraps a textinput with a label, an inline error and optional
// history navigation.
type Model struct {
	components.Base

	input   textinput.Model
	label   string
	err     string
	history *history.Cursor
}

// New creates a closed prompt.
func New() Model {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.CharLimit = 1024
	ti.Width = 80

	return Model{input: ti}
}

// Open focuses the prompt with label and an initial value, cursor at the end.
func (m *Model) Open(label, value, placeholder string) tea.Cmd {
	m.label = label
	m.err = ""
	m.history = nil
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.Base.Focus()
	return m.input.Focus()
}

// OpenWithHistory opens an empty prompt whose up/down keys walk cur.
func (m *Model) OpenWithHistory(label, placeholder string, cur *history.Cursor) tea.Cmd {
	cmd := m.Open(label, "", placeholder)
	m.history = cur
	return cmd
}

// Close blurs the prompt and drops its contents.
func (m *Model) Close() {
	m.input.Blur()
	m.input.SetValue("")
	m.Base.Blur()
	m.err = ""
	m.history = nil
}

// Value returns the current buffer.
func (m Model) Value() string {
	return m.input.Value()
}

// SetValue replaces the buffer and moves the cursor to the end.
func (m *Model) SetValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// SetError shows err under the label until the next edit. nil clears it.
func (m *Model) SetError(err error) {
	if err == nil {
		m.err = ""
		return
	}
	m.err = err.Error()
}

// Err returns the inline error text.
func (m Model) Err() string {
	return m.err
}

// Label returns the prompt label.
func (m Model) Label() string {
	return m.label
}

// SetSize updates the width available to the input.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.input.Width = max(width-ansi.StringWidth(m.label)-4, 1)
}

// Update edits the buffer. Enter and Esc are left to the caller.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.Focused() {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && m.history != nil {
		switch key.Type {
		case tea.KeyUp, tea.KeyCtrlP:
			if cmd, ok := m.history.Older(); ok {
				m.SetValue(cmd)
			}
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			if cmd, ok := m.history.Newer(); ok {
				m.SetValue(cmd)
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.err = ""
	}
	return m, cmd
}

// View renders the label, the input and any inline error on one line.
func (m Model) View() string {
	if !m.Focused() {
		return ""
	}
	line := theme.PromptLabel.Render(m.label) + " " + m.input.View()
	if m.err != "" {
		line += "  " + theme.PromptError.Render(m.err)
	}
	w, _ := m.Size()
	if w > 0 {
		line = ansi.Truncate(line, w, "…")
	}
	return line
}
