// Package history keeps the executed-command log: an append-only text file
// with one command per line, oldest first.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the history file's name inside the config directory.
const FileName = "history.txt"

// Store holds the command history in memory and appends new commands to disk.
type Store struct {
	path    string
	entries []string // oldest first, no duplicates
}

// Open reads the history file at path. A missing file is an empty history.
// An empty path keeps the history in memory only.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if path == "" {
		return s, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			s.push(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return s, fmt.Errorf("read history: %w", err)
	}
	return s, nil
}

// push moves cmd to the newest position.
func (s *Store) push(cmd string) {
	for i, e := range s.entries {
		if e == cmd {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	s.entries = append(s.entries, cmd)
}

// Append records cmd as the newest entry and appends it to the file.
// Newlines are flattened so the file stays one command per line.
func (s *Store) Append(cmd string) error {
	cmd = sanitize(cmd)
	if cmd == "" {
		return nil
	}
	s.push(cmd)

	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	if _, err := f.WriteString(cmd + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("append history: %w", err)
	}
	return f.Close()
}

func sanitize(cmd string) string {
	cmd = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(cmd)
	return strings.TrimSpace(cmd)
}

// Entries returns the history, oldest first.
func (s *Store) Entries() []string {
	return append([]string(nil), s.entries...)
}

// Len returns the number of distinct commands.
func (s *Store) Len() int {
	return len(s.entries)
}

// Last returns the newest command, empty when there is none.
func (s *Store) Last() string {
	if len(s.entries) == 0 {
		return ""
	}
	return s.entries[len(s.entries)-1]
}

// Path returns the backing file, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Cursor walks a snapshot of the history from newest to oldest.
type Cursor struct {
	entries []string
	idx     int // len(entries) means "not in history"
}

// NewCursor starts a walk positioned past the newest entry.
func (s *Store) NewCursor() *Cursor {
	entries := s.Entries()
	return &Cursor{entries: entries, idx: len(entries)}
}

// Older moves one step back and returns that command. At the oldest entry
// it stays put. ok is false when the history is empty.
func (c *Cursor) Older() (cmd string, ok bool) {
	if len(c.entries) == 0 {
		return "", false
	}
	if c.idx > 0 {
		c.idx--
	}
	return c.entries[c.idx], true
}

// Newer moves one step forward. Moving past the newest entry returns an
// empty buffer. ok is false when not walking the history.
func (c *Cursor) Newer() (cmd string, ok bool) {
	if c.idx >= len(c.entries) {
		return "", false
	}
	c.idx++
	if c.idx == len(c.entries) {
		return "", true
	}
	return c.entries[c.idx], true
}
