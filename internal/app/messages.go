package app

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusTimeout is how long a status message stays on screen.
const statusTimeout = 4 * time.Second

// DropMsg carries paths dropped onto the terminal.
type DropMsg struct {
	Paths []string
}

// gitTickMsg triggers the periodic git refresh.
type gitTickMsg struct{}

// clearStatusMsg expires the status message with the same sequence number.
type clearStatusMsg struct {
	seq int
}

// editorFinishedMsg is sent when the external editor exits.
type editorFinishedMsg struct {
	path string
	err  error
}

func gitTick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return gitTickMsg{}
	})
}

func clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// ParseDrop extracts the paths a terminal pastes when files are dropped on
// it. Terminals either put one path per line or separate them with spaces,
// quoting or backslash-escaping names that need it; some send file:// URIs.
// Only absolute paths that exist are returned, so ordinary pasted text
// yields nothing.
func ParseDrop(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var tokens []string
	if strings.ContainsAny(text, "\r\n") {
		for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
			if line = strings.TrimSpace(line); line != "" {
				tokens = append(tokens, splitWords(line)...)
			}
		}
	} else {
		tokens = splitWords(text)
	}

	var paths []string
	for _, tok := range tokens {
		if p, ok := dropPath(tok); ok {
			paths = append(paths, p)
		}
	}
	return paths
}

func dropPath(tok string) (string, bool) {
	if strings.HasPrefix(tok, "file://") {
		u, err := url.Parse(tok)
		if err != nil {
			return "", false
		}
		tok = u.Path
	}
	if !filepath.IsAbs(tok) {
		return "", false
	}
	if _, err := os.Lstat(tok); err != nil {
		return "", false
	}
	return filepath.Clean(tok), true
}

// splitWords splits a line on unquoted spaces. Single and double quotes
// group, and a backslash escapes the next character outside single quotes.
// A line that is already a single existing path is kept whole.
func splitWords(line string) []string {
	if _, err := os.Lstat(line); err == nil && filepath.IsAbs(line) {
		return []string{line}
	}

	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words
}
