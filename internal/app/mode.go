package app

import (
	"github.com/avitaltamir/vibetree/internal/history"
	"github.com/avitaltamir/vibetree/internal/search"
)

// Mode is the input mode. Exactly one is active; each variant carries only
// the state that mode needs. Text buffers live in the prompt component.
type Mode interface {
	mode()
	// Name is shown in the header.
	Name() string
}

// NormalMode navigates the tree.
type NormalMode struct{}

// SearchMode narrows the cursor onto rows matching Query.
type SearchMode struct {
	Query       string
	Matches     search.Matches
	MatchCursor int    // visible index of the current match, -1 when none
	Origin      string // cursor path on entry, restored by esc
}

// CommandInputMode edits a shell command. Target is captured on entry and
// substituted for the placeholder.
type CommandInputMode struct {
	Target  string
	History *history.Cursor
}

// RenamePromptMode edits a new name for Target.
type RenamePromptMode struct {
	Target string
}

// CreatePromptMode edits the name of a new entry in Dir.
type CreatePromptMode struct {
	Dir   string
	IsDir bool
}

// ConfirmDeleteMode waits for a yes/no on Targets.
type ConfirmDeleteMode struct {
	Targets []string
	HasDirs bool
}

// PreviewMode shows captured content for Path. Offset and fullscreen are
// held by the preview component.
type PreviewMode struct {
	Path string
}

func (NormalMode) mode()        {}
func (SearchMode) mode()        {}
func (CommandInputMode) mode()  {}
func (RenamePromptMode) mode()  {}
func (CreatePromptMode) mode()  {}
func (ConfirmDeleteMode) mode() {}
func (PreviewMode) mode()       {}

func (NormalMode) Name() string        { return "NORMAL" }
func (SearchMode) Name() string        { return "SEARCH" }
func (CommandInputMode) Name() string  { return "COMMAND" }
func (RenamePromptMode) Name() string  { return "RENAME" }
func (CreatePromptMode) Name() string  { return "CREATE" }
func (ConfirmDeleteMode) Name() string { return "DELETE" }
func (PreviewMode) Name() string       { return "PREVIEW" }

// promptMode reports whether m edits text in the prompt line.
func promptMode(m Mode) bool {
	switch m.(type) {
	case SearchMode, CommandInputMode, RenamePromptMode, CreatePromptMode:
		return true
	}
	return false
}
