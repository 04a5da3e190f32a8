package filetree

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avitaltamir/vibetree/internal/apperr"
)

func TestNewRootNode(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates expanded root node", func(t *testing.T) {
		node, err := NewRootNode(tmpDir)
		require.NoError(t, err)

		assert.True(t, node.IsDir())
		assert.True(t, node.IsRoot())
		assert.True(t, node.Expanded)
		assert.Equal(t, 0, node.Depth)
	})

	t.Run("resolves relative paths", func(t *testing.T) {
		cwd, err := os.Getwd()
		require.NoError(t, err)

		node, err := NewRootNode(".")
		require.NoError(t, err)
		assert.Equal(t, cwd, node.Path)
	})

	t.Run("missing root is not found", func(t *testing.T) {
		_, err := NewRootNode(filepath.Join(tmpDir, "missing"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})

	t.Run("file root is rejected", func(t *testing.T) {
		f := filepath.Join(tmpDir, "file.txt")
		require.NoError(t, os.WriteFile(f, nil, 0o644))
		_, err := NewRootNode(f)
		assert.Error(t, err)
	})
}

func TestReadChildren(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "subdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "file1.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "File2.go"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".hidden"), []byte(""), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "subdir"), filepath.Join(tmpDir, "link")))

	root, err := NewRootNode(tmpDir)
	require.NoError(t, err)

	children, err := readChildren(root)
	require.NoError(t, err)

	names := make([]string, len(children))
	for i, c := range children {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"subdir", ".hidden", "file1.txt", "File2.go", "link"}, names)

	t.Run("sets depth and parent", func(t *testing.T) {
		for _, child := range children {
			assert.Equal(t, 1, child.Depth)
			assert.Equal(t, root, child.Parent)
		}
	})

	t.Run("classifies kinds", func(t *testing.T) {
		assert.Equal(t, KindDir, children[0].Kind)
		assert.Equal(t, KindFile, children[2].Kind)
		assert.Equal(t, int64(5), children[2].Size)
		assert.Equal(t, KindSymlink, children[4].Kind)
		assert.False(t, children[4].IsDir())
	})

	t.Run("unreadable directory", func(t *testing.T) {
		gone := &Node{Path: filepath.Join(tmpDir, "gone"), Kind: KindDir}
		_, err := readChildren(gone)
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})
}

func TestSortNodes(t *testing.T) {
	nodes := []*Node{
		{Name: "b.txt"},
		{Name: "B.txt"},
		{Name: "a"},
		{Name: "zdir", Kind: KindDir},
		{Name: "Adir", Kind: KindDir},
	}
	sortNodes(nodes)

	var got []string
	for _, n := range nodes {
		got = append(got, n.Name)
	}
	assert.Equal(t, []string{"Adir", "zdir", "a", "B.txt", "b.txt"}, got)
}

func TestNodeProperties(t *testing.T) {
	t.Run("IsHidden", func(t *testing.T) {
		assert.True(t, (&Node{Name: ".gitignore"}).IsHidden())
		assert.False(t, (&Node{Name: "main.go"}).IsHidden())
	})

	t.Run("Extension", func(t *testing.T) {
		assert.Equal(t, ".go", (&Node{Name: "main.go"}).Extension())
		assert.Equal(t, ".txt", (&Node{Name: "README.TXT"}).Extension())
		assert.Equal(t, "", (&Node{Name: "Makefile"}).Extension())
		assert.Equal(t, "", (&Node{Name: "src.d", Kind: KindDir}).Extension())
	})

	t.Run("Dir", func(t *testing.T) {
		root := &Node{Path: "/r", Kind: KindDir}
		dir := &Node{Path: "/r/d", Kind: KindDir, Parent: root}
		file := &Node{Path: "/r/d/f", Parent: dir}

		assert.Equal(t, "/r", root.Dir())
		assert.Equal(t, "/r/d", dir.Dir())
		assert.Equal(t, "/r/d", file.Dir())
	})

	t.Run("IsLastChild", func(t *testing.T) {
		parent := &Node{Name: "parent"}
		child1 := &Node{Name: "child1", Parent: parent}
		child2 := &Node{Name: "child2", Parent: parent}
		parent.Children = []*Node{child1, child2}

		assert.False(t, child1.IsLastChild())
		assert.True(t, child2.IsLastChild())
	})

	t.Run("RelativePath", func(t *testing.T) {
		n := &Node{Path: "/r/a/b.go"}
		assert.Equal(t, filepath.Join("a", "b.go"), n.RelativePath("/r"))
	})
}
