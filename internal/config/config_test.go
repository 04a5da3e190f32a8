package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "vibetree")
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", c.DefaultCmd)
	assert.False(t, c.ShowHidden)
	assert.Equal(t, "sh", c.Command.Shell)
	assert.Equal(t, 64*1024, c.Command.OutputLimit)
	assert.Equal(t, "auto", c.Git.Backend)
	assert.Equal(t, 10*time.Second, c.Git.RefreshInterval)
	assert.Equal(t, 400*time.Millisecond, c.Mouse.DoubleClick)
	assert.Equal(t, 8, c.Tree.ExpandAllDepth)
	assert.True(t, c.Theme.NerdFonts)
	assert.Equal(t, filepath.Join(dir, "history.txt"), c.HistoryFile)
	assert.Equal(t, filepath.Join(dir, "vibetree.log"), c.Log.File)
	assert.Empty(t, c.File)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	yaml := `
default_cmd: "less <filepath>"
show_hidden: true
command:
  pty: true
git:
  backend: gogit
  refresh_interval: 30s
mouse:
  double_click: 250ms
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Run("file", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "less <filepath>", c.DefaultCmd)
		assert.True(t, c.ShowHidden)
		assert.True(t, c.Command.PTY)
		assert.Equal(t, "gogit", c.Git.Backend)
		assert.Equal(t, 30*time.Second, c.Git.RefreshInterval)
		assert.Equal(t, 250*time.Millisecond, c.Mouse.DoubleClick)
		assert.Equal(t, filepath.Join(dir, "config.yaml"), c.File)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("VIBETREE_DEFAULT_CMD", "bat <filepath>")
		t.Setenv("VIBETREE_GIT_BACKEND", "shell")
		t.Setenv("VIBETREE_TREE_EXPAND_ALL_DEPTH", "3")

		c, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "bat <filepath>", c.DefaultCmd)
		assert.Equal(t, "shell", c.Git.Backend)
		assert.Equal(t, 3, c.Tree.ExpandAllDepth)
	})
}

func TestLoadExplicitPath(t *testing.T) {
	isolate(t)

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("explicit file is read", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(p, []byte("history_file: /tmp/h.txt\n"), 0o644))
		c, err := Load(p)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/h.txt", c.HistoryFile)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Git.Backend = "svn" }},
		{"output limit", func(c *Config) { c.Command.OutputLimit = 0 }},
		{"expand depth", func(c *Config) { c.Tree.ExpandAllDepth = 0 }},
		{"double click", func(c *Config) { c.Mouse.DoubleClick = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			require.NoError(t, c.Validate())
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
