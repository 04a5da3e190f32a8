package git

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheLookup(t *testing.T) {
	root := filepath.FromSlash("/repo")
	c := NewCache(&Report{
		Root:   root,
		Branch: "main",
		Files: map[string]Status{
			"a.txt":          StatusModified,
			"src/new.go":     StatusUntracked,
			"src/old.go":     StatusDeleted,
			"docs/draft.md":  StatusUntracked,
			"deep/x/y/z.txt": StatusAdded,
			"build/":         StatusIgnored,
			"debug.log":      StatusIgnored,
		},
	})

	join := func(p string) string { return filepath.Join(root, filepath.FromSlash(p)) }

	t.Run("files", func(t *testing.T) {
		assert.Equal(t, StatusModified, c.Lookup(join("a.txt")))
		assert.Equal(t, StatusUntracked, c.Lookup(join("src/new.go")))
		assert.Equal(t, StatusIgnored, c.Lookup(join("debug.log")))
		assert.Equal(t, StatusNone, c.Lookup(join("clean.txt")))
	})

	t.Run("directories aggregate", func(t *testing.T) {
		assert.Equal(t, StatusModified, c.Lookup(join("src")), "deleted beats untracked")
		assert.Equal(t, StatusUntracked, c.Lookup(join("docs")))
		assert.Equal(t, StatusModified, c.Lookup(join("deep")))
		assert.Equal(t, StatusModified, c.Lookup(join("deep/x/y")))
		assert.Equal(t, StatusNone, c.Lookup(root), "root itself is not decorated")
	})

	t.Run("ignored directories cover their contents", func(t *testing.T) {
		assert.Equal(t, StatusIgnored, c.Lookup(join("build")))
		assert.Equal(t, StatusIgnored, c.Lookup(join("build/out/bin")))
	})

	t.Run("metadata", func(t *testing.T) {
		assert.Equal(t, "main", c.Branch())
		assert.Equal(t, root, c.Root())
		assert.Equal(t, 7, c.Len())
	})
}

func TestEmptyCache(t *testing.T) {
	var nilCache *Cache
	assert.Equal(t, StatusNone, nilCache.Lookup("/any"))
	assert.Equal(t, 0, nilCache.Len())

	empty := NewCache(nil)
	assert.Equal(t, StatusNone, empty.Lookup("/any"))
	assert.Equal(t, "", empty.Root())
}
