package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoGitSource(t *testing.T) {
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracked.txt"), []byte("one"), 0o644))
	_, err = wt.Add("tracked.txt")
	require.NoError(t, err)
	_, err = wt.Commit("init", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracked.txt"), []byte("two"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "new.txt"), nil, 0o644))

	report, err := NewGoGitSource().Status(context.Background(), filepath.Join(dir, "sub"))
	require.NoError(t, err)

	assert.Equal(t, dir, report.Root)
	assert.Equal(t, "master", report.Branch)
	assert.Equal(t, StatusModified, report.Files["tracked.txt"])
	assert.Equal(t, StatusUntracked, report.Files["sub/new.txt"])

	cache := NewCache(report)
	assert.Equal(t, StatusUntracked, cache.Lookup(filepath.Join(dir, "sub")))
}

func TestGoGitSourceNotRepo(t *testing.T) {
	_, err := NewGoGitSource().Status(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNotRepo)
}
