package prompt

import (
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avitaltamir/vibetree/internal/history"
)

func typeRunes(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestOpenAndEdit(t *testing.T) {
	m := New()
	m.SetSize(80, 1)

	assert.Equal(t, "", m.View())

	m.Open("Rename:", "old.txt", "")
	assert.True(t, m.Focused())
	assert.Equal(t, "old.txt", m.Value())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = typeRunes(m, "md")
	assert.Equal(t, "old.md", m.Value())
	assert.Contains(t, m.View(), "Rename:")

	m.Close()
	assert.False(t, m.Focused())
	assert.Equal(t, "", m.Value())
}

func TestInlineError(t *testing.T) {
	m := New()
	m.Open("New file:", "a.txt", "")

	m.SetError(errors.New("already exists"))
	assert.Equal(t, "already exists", m.Err())
	assert.Contains(t, m.View(), "already exists")

	m = typeRunes(m, "x")
	assert.Equal(t, "", m.Err(), "editing clears the error")
}

func TestHistoryNavigation(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), history.FileName))
	require.NoError(t, err)
	require.NoError(t, store.Append("ls"))
	require.NoError(t, store.Append("cat <filepath>"))

	m := New()
	m.OpenWithHistory(":", "", store.NewCursor())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "cat <filepath>", m.Value())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, "ls", m.Value())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "ls", m.Value(), "stays at the oldest entry")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "cat <filepath>", m.Value())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, "", m.Value(), "past the newest restores an empty buffer")
}

func TestUnfocusedIgnoresInput(t *testing.T) {
	m := New()
	m = typeRunes(m, "abc")
	assert.Equal(t, "", m.Value())
}
