package filetree

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/avitaltamir/vibetree/internal/apperr"
)

var errNotDir = errors.New("not a directory")

// Tree owns the node graph, the cursor, the mark set and the hidden-file flag.
// Visible rows are flattened lazily and cached until the next mutation.
type Tree struct {
	root       *Node
	showHidden bool
	cursor     int
	marks      map[string]struct{}

	visible []*Node
	rows    map[string]int   // path -> index into visible
	nodes   map[string]*Node // every loaded node, hidden ones included
	stale   bool
}

// NewTree loads the root directory. Failing to read it is the only fatal
// error the tree reports.
func NewTree(path string, showHidden bool) (*Tree, error) {
	root, err := NewRootNode(path)
	if err != nil {
		return nil, err
	}
	children, err := readChildren(root)
	if err != nil {
		return nil, err
	}
	root.Children = children

	return &Tree{
		root:       root,
		showHidden: showHidden,
		marks:      make(map[string]struct{}),
		stale:      true,
	}, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// ShowHidden returns whether hidden entries are visible.
func (t *Tree) ShowHidden() bool {
	return t.showHidden
}

// Visible returns the flattened rows, excluding the root itself.
func (t *Tree) Visible() []*Node {
	t.refresh()
	return t.visible
}

// Len returns the number of visible rows.
func (t *Tree) Len() int {
	return len(t.Visible())
}

// Cursor returns the cursor index into Visible.
func (t *Tree) Cursor() int {
	t.refresh()
	return t.cursor
}

// Selected returns the node under the cursor, or nil on an empty tree.
func (t *Tree) Selected() *Node {
	rows := t.Visible()
	if len(rows) == 0 {
		return nil
	}
	return rows[t.cursor]
}

// DestDir returns the directory the cursor targets for paste and create.
func (t *Tree) DestDir() string {
	if sel := t.Selected(); sel != nil {
		return sel.Dir()
	}
	return t.root.Path
}

// FindByPath returns the loaded node for path, hidden or not.
func (t *Tree) FindByPath(path string) *Node {
	t.refresh()
	return t.nodes[filepath.Clean(path)]
}

// IndexOf returns the visible row of path, or -1.
func (t *Tree) IndexOf(path string) int {
	t.refresh()
	if i, ok := t.rows[filepath.Clean(path)]; ok {
		return i
	}
	return -1
}

func (t *Tree) invalidate() {
	t.stale = true
}

func (t *Tree) refresh() {
	if !t.stale {
		return
	}
	t.stale = false
	t.visible = make([]*Node, 0, len(t.visible))
	t.rows = make(map[string]int, len(t.rows))
	t.nodes = make(map[string]*Node, len(t.nodes))
	t.nodes[t.root.Path] = t.root
	for _, child := range t.root.Children {
		t.flatten(child, true)
	}
	t.clampCursor()
}

func (t *Tree) flatten(n *Node, show bool) {
	t.nodes[n.Path] = n

	// .git never shows up, even with hidden files on
	if n.Name == ".git" && n.IsDir() {
		show = false
	}
	if !t.showHidden && n.IsHidden() {
		show = false
	}
	if show {
		t.rows[n.Path] = len(t.visible)
		t.visible = append(t.visible, n)
	}
	for _, child := range n.Children {
		t.flatten(child, show)
	}
}

func (t *Tree) clampCursor() {
	switch {
	case len(t.visible) == 0:
		t.cursor = 0
	case t.cursor >= len(t.visible):
		t.cursor = len(t.visible) - 1
	case t.cursor < 0:
		t.cursor = 0
	}
}

// MoveCursor moves the cursor by delta rows, clamped to the visible range.
func (t *Tree) MoveCursor(delta int) {
	t.refresh()
	t.cursor += delta
	t.clampCursor()
}

// CursorTop moves the cursor to the first row.
func (t *Tree) CursorTop() {
	t.SetCursor(0)
}

// CursorBottom moves the cursor to the last row.
func (t *Tree) CursorBottom() {
	t.SetCursor(t.Len() - 1)
}

// SetCursor moves the cursor to row i, clamped.
func (t *Tree) SetCursor(i int) {
	t.refresh()
	t.cursor = i
	t.clampCursor()
}

// SelectPath moves the cursor to path if it is visible.
func (t *Tree) SelectPath(path string) bool {
	i := t.IndexOf(path)
	if i < 0 {
		return false
	}
	t.cursor = i
	return true
}

// follow puts the cursor back on path after a mutation, or on its nearest
// visible ancestor, or leaves it clamped where it was.
func (t *Tree) follow(path string) {
	for p := path; p != "" && p != t.root.Path; p = filepath.Dir(p) {
		if t.SelectPath(p) {
			return
		}
		if filepath.Dir(p) == p {
			break
		}
	}
	t.refresh()
}

func (t *Tree) selectedPath() string {
	if sel := t.Selected(); sel != nil {
		return sel.Path
	}
	return ""
}

// Expand loads a directory's children and marks it expanded. Read errors are
// returned and attached to the node. Files and symlinks are left alone.
func (t *Tree) Expand(n *Node) error {
	if n == nil || !n.IsDir() {
		return nil
	}

	children, err := readChildren(n)
	if err != nil {
		n.Err = err
		t.invalidate()
		return err
	}

	n.Children = children
	n.Expanded = true
	n.Err = nil
	t.invalidate()
	return nil
}

// Collapse discards a directory's children. The root never collapses.
func (t *Tree) Collapse(n *Node) {
	if n == nil || !n.IsDir() || n.IsRoot() || !n.Expanded {
		return
	}

	sel := t.selectedPath()
	n.Children = nil
	n.Expanded = false
	t.invalidate()
	t.follow(sel)
}

// Toggle expands a collapsed directory or collapses an expanded one.
func (t *Tree) Toggle(n *Node) error {
	if n == nil || !n.IsDir() {
		return nil
	}
	if n.Expanded {
		t.Collapse(n)
		return nil
	}
	return t.Expand(n)
}

// ToggleHidden flips hidden-file visibility. Loaded directories keep their
// hidden entries, so this never touches the filesystem.
func (t *Tree) ToggleHidden() {
	t.SetShowHidden(!t.showHidden)
}

// SetShowHidden sets hidden-file visibility.
func (t *Tree) SetShowHidden(show bool) {
	if show == t.showHidden {
		return
	}
	sel := t.selectedPath()
	t.showHidden = show
	t.invalidate()
	t.follow(sel)
}

// ExpandAll expands every directory down to maxDepth levels below the root.
// Unreadable directories are skipped and reported together.
func (t *Tree) ExpandAll(maxDepth int) error {
	sel := t.selectedPath()
	var errs []error
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, child := range n.Children {
			if !child.IsDir() || child.Depth > maxDepth || child.Name == ".git" {
				continue
			}
			if !t.showHidden && child.IsHidden() {
				continue
			}
			if !child.Expanded {
				if err := t.Expand(child); err != nil {
					errs = append(errs, err)
					continue
				}
			}
			walk(child)
		}
	}
	walk(t.root)
	t.invalidate()
	t.follow(sel)
	return errors.Join(errs...)
}

// CollapseAll collapses every directory below the root.
func (t *Tree) CollapseAll() {
	sel := t.selectedPath()
	for _, child := range t.root.Children {
		if child.IsDir() {
			child.Children = nil
			child.Expanded = false
		}
	}
	t.invalidate()
	t.follow(sel)
}

// ToggleMark flips the mark on n and reports whether it is now marked.
func (t *Tree) ToggleMark(n *Node) bool {
	if n == nil {
		return false
	}
	if t.IsMarked(n.Path) {
		t.Unmark(n.Path)
		return false
	}
	t.Mark(n.Path)
	return true
}

// Mark adds path to the mark set.
func (t *Tree) Mark(path string) {
	t.marks[filepath.Clean(path)] = struct{}{}
}

// Unmark removes path from the mark set.
func (t *Tree) Unmark(path string) {
	delete(t.marks, filepath.Clean(path))
}

// IsMarked reports whether path is marked.
func (t *Tree) IsMarked(path string) bool {
	_, ok := t.marks[filepath.Clean(path)]
	return ok
}

// Marked returns the marked paths in sorted order.
func (t *Tree) Marked() []string {
	paths := make([]string, 0, len(t.marks))
	for p := range t.marks {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// MarkCount returns the number of marked paths.
func (t *Tree) MarkCount() int {
	return len(t.marks)
}

// ClearMarks empties the mark set.
func (t *Tree) ClearMarks() {
	clear(t.marks)
}

// Targets returns the marked paths, or the cursor path when nothing is marked.
func (t *Tree) Targets() []string {
	if len(t.marks) > 0 {
		return t.Marked()
	}
	if sel := t.Selected(); sel != nil {
		return []string{sel.Path}
	}
	return nil
}

// Reload re-reads the expanded directory containing path (the whole tree for
// the root), keeping expansion state for entries that still exist. Marks on
// paths that are gone are pruned. Read errors are attached to their nodes and
// do not stop the walk; they are returned joined.
func (t *Tree) Reload(path string) error {
	n := t.FindByPath(path)
	for n != nil && !(n.IsDir() && n.Expanded) {
		n = n.Parent
	}
	if n == nil {
		// Not loaded; reload the nearest loaded ancestor.
		for p := filepath.Dir(filepath.Clean(path)); ; p = filepath.Dir(p) {
			if n = t.FindByPath(p); n != nil && n.Expanded {
				break
			}
			if p == filepath.Dir(p) {
				n = t.root
				break
			}
		}
	}
	return t.reloadFrom(n)
}

// ReloadAll re-reads the whole tree.
func (t *Tree) ReloadAll() error {
	return t.reloadFrom(t.root)
}

func (t *Tree) reloadFrom(n *Node) error {
	sel := t.selectedPath()
	cursor := t.cursor

	var errs []error
	for n != nil {
		err := t.reloadNode(n, &errs)
		if err == nil || n.IsRoot() || !errors.Is(err, apperr.ErrNotFound) {
			break
		}
		// The directory itself vanished; drop it via its parent.
		errs = errs[:len(errs)-1]
		n = n.Parent
	}

	t.pruneMarks()
	t.invalidate()
	t.refresh()
	if !t.SelectPath(sel) {
		t.cursor = cursor
		t.clampCursor()
	}
	return errors.Join(errs...)
}

func (t *Tree) reloadNode(n *Node, errs *[]error) error {
	children, err := readChildren(n)
	if err != nil {
		n.Err = err
		*errs = append(*errs, err)
		return err
	}
	n.Err = nil

	old := make(map[string]*Node, len(n.Children))
	for _, c := range n.Children {
		old[c.Path] = c
	}
	n.Children = children

	for _, c := range children {
		prev, ok := old[c.Path]
		if !ok || !prev.Expanded || !c.IsDir() {
			continue
		}
		c.Expanded = true
		_ = t.reloadNode(c, errs)
	}
	return nil
}

func (t *Tree) pruneMarks() {
	for p := range t.marks {
		if _, err := os.Lstat(p); err != nil {
			delete(t.marks, p)
		}
	}
}
