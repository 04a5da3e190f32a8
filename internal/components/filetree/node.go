package filetree

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/avitaltamir/vibetree/internal/apperr"
)

// Kind is the type of filesystem entry a node represents.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
)

// Node represents a file or directory in the tree.
// Children are only populated while a directory is expanded.
type Node struct {
	Path     string
	Name     string
	Kind     Kind
	Size     int64
	ModTime  time.Time
	Expanded bool
	Children []*Node
	Parent   *Node
	Depth    int
	Err      error // last read error for this directory, shown inline
}

func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDir
	default:
		return KindFile
	}
}

// NewRootNode creates the root node for a directory.
func NewRootNode(path string) (*Node, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, apperr.FromFS("resolve", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, apperr.FromFS("stat", absPath, err)
	}
	if !info.IsDir() {
		return nil, apperr.New(apperr.KindIO, "open", absPath, errNotDir)
	}

	return &Node{
		Path:     absPath,
		Name:     filepath.Base(absPath),
		Kind:     KindDir,
		ModTime:  info.ModTime(),
		Expanded: true, // Root is always expanded
	}, nil
}

// IsDir reports whether the node is a real directory. Symlinks to directories are not.
func (n *Node) IsDir() bool {
	return n.Kind == KindDir
}

// IsRoot reports whether the node is the tree root.
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}

// IsHidden returns true if the node is a hidden file/directory.
func (n *Node) IsHidden() bool {
	return len(n.Name) > 0 && n.Name[0] == '.'
}

// Extension returns the file extension (empty for directories).
func (n *Node) Extension() string {
	if n.IsDir() {
		return ""
	}
	return strings.ToLower(filepath.Ext(n.Name))
}

// Dir returns the directory a paste or create at this node targets:
// the node itself for directories, its parent otherwise.
func (n *Node) Dir() string {
	if n.IsDir() || n.Parent == nil {
		return n.Path
	}
	return n.Parent.Path
}

// RelativePath returns the path relative to the root.
func (n *Node) RelativePath(root string) string {
	rel, err := filepath.Rel(root, n.Path)
	if err != nil {
		return n.Path
	}
	return rel
}

// IsLastChild returns true if this node is the last child of its parent.
func (n *Node) IsLastChild() bool {
	if n.Parent == nil || len(n.Parent.Children) == 0 {
		return true
	}
	return n.Parent.Children[len(n.Parent.Children)-1] == n
}

// readChildren lists a directory. Entries that disappear between the listing
// and the lstat are skipped.
func readChildren(n *Node) ([]*Node, error) {
	entries, err := os.ReadDir(n.Path)
	if err != nil {
		return nil, apperr.FromFS("read", n.Path, err)
	}

	children := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		childPath := filepath.Join(n.Path, entry.Name())
		info, err := os.Lstat(childPath)
		if err != nil {
			continue
		}

		child := &Node{
			Path:    childPath,
			Name:    entry.Name(),
			Kind:    kindOf(info.Mode()),
			Parent:  n,
			Depth:   n.Depth + 1,
			ModTime: info.ModTime(),
		}
		if child.Kind != KindDir {
			child.Size = info.Size()
		}
		children = append(children, child)
	}

	sortNodes(children)
	return children, nil
}

// sortNodes orders directories first, then by case-folded name, falling back
// to the raw bytes so the order is total.
func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return less(nodes[i], nodes[j])
	})
}

func less(a, b *Node) bool {
	if a.IsDir() != b.IsDir() {
		return a.IsDir()
	}
	la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if la != lb {
		return la < lb
	}
	return a.Name < b.Name
}
