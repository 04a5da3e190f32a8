package git

import (
	"path/filepath"
	"strings"
)

// Cache maps absolute paths to their status. A Cache is never modified after
// it is built; a refresh swaps in a new one. The zero and nil Cache answer
// StatusNone for everything.
type Cache struct {
	root    string
	branch  string
	files   map[string]Status
	dirs    map[string]Status // aggregated status of directories with changes
	ignored map[string]bool   // directories ignored as a whole
}

// NewCache builds a Cache from a report. A nil report yields an empty cache.
func NewCache(report *Report) *Cache {
	c := &Cache{
		files:   make(map[string]Status),
		dirs:    make(map[string]Status),
		ignored: make(map[string]bool),
	}
	if report == nil {
		return c
	}
	c.root = filepath.Clean(report.Root)
	c.branch = report.Branch

	for rel, status := range report.Files {
		if strings.HasSuffix(rel, "/") {
			c.ignored[c.abs(strings.TrimSuffix(rel, "/"))] = true
			continue
		}
		path := c.abs(rel)
		c.files[path] = status
		if status == StatusIgnored || status == StatusNone {
			continue
		}
		for dir := filepath.Dir(path); len(dir) > len(c.root) && strings.HasPrefix(dir, c.root); dir = filepath.Dir(dir) {
			c.dirs[dir] = aggregate(c.dirs[dir], status)
		}
	}
	return c
}

func (c *Cache) abs(rel string) string {
	return filepath.Join(c.root, filepath.FromSlash(rel))
}

// aggregate folds a child status into its directory's status: any change makes
// the directory modified, untracked only shows when nothing else changed.
func aggregate(dir, child Status) Status {
	if child == StatusUntracked {
		if dir == StatusNone {
			return StatusUntracked
		}
		return dir
	}
	return StatusModified
}

// Lookup returns the status of path, StatusNone when unknown.
func (c *Cache) Lookup(path string) Status {
	if c == nil || c.root == "" {
		return StatusNone
	}
	path = filepath.Clean(path)
	if s, ok := c.files[path]; ok {
		return s
	}
	if s, ok := c.dirs[path]; ok {
		return s
	}
	for p := path; len(p) >= len(c.root); p = filepath.Dir(p) {
		if c.ignored[p] {
			return StatusIgnored
		}
		if p == filepath.Dir(p) {
			break
		}
	}
	return StatusNone
}

// Root returns the repository root, empty outside a repository.
func (c *Cache) Root() string {
	if c == nil {
		return ""
	}
	return c.root
}

// Branch returns the current branch name.
func (c *Cache) Branch() string {
	if c == nil {
		return ""
	}
	return c.branch
}

// Len returns the number of paths with a status.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.files) + len(c.ignored)
}
