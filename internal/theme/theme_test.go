package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/avitaltamir/vibetree/internal/git"
)

func TestFileIcon(t *testing.T) {
	defer func(prev bool) { UseNerdFonts = prev }(UseNerdFonts)

	t.Run("with nerd fonts", func(t *testing.T) {
		UseNerdFonts = true
		assert.Equal(t, "󰟓", FileIcon("main.go", ".go"))
		assert.Equal(t, FileIcons["Makefile"], FileIcon("Makefile", ""))
		assert.Equal(t, FileIcons[""], FileIcon("data.unknown", ".unknown"))
	})

	t.Run("without nerd fonts", func(t *testing.T) {
		UseNerdFonts = false
		assert.Equal(t, IconFilePlain, FileIcon("main.go", ".go"))
		assert.Equal(t, IconSymlink, SymlinkIcon())
	})
}

func TestDirIcon(t *testing.T) {
	defer func(prev bool) { UseNerdFonts = prev }(UseNerdFonts)

	UseNerdFonts = true
	assert.Equal(t, IconDirExpanded, DirIcon("random", true))
	assert.Equal(t, IconDirCollapsed, DirIcon("random", false))
	assert.Equal(t, DirIcons["cmd"], DirIcon("cmd", false))

	UseNerdFonts = false
	assert.Equal(t, IconDirExpanded, DirIcon("cmd", true))
}

func TestRenderGitStatus(t *testing.T) {
	assert.Empty(t, RenderGitStatus(git.StatusNone))
	for _, s := range []git.Status{git.StatusModified, git.StatusUntracked, git.StatusConflict, git.StatusIgnored} {
		assert.Contains(t, RenderGitStatus(s), s.Symbol())
	}
}

func TestRenderPanel(t *testing.T) {
	out := RenderPanel("hello\nworld", PanelOptions{Title: "a.txt", Info: "50%", BottomHints: "q:close"}, 30, 5)
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, 5)
	for _, l := range lines {
		assert.Equal(t, 30, ansi.StringWidth(l))
	}
	assert.Contains(t, ansi.Strip(lines[0]), "a.txt")
	assert.Contains(t, ansi.Strip(lines[0]), "50%")
	assert.Contains(t, ansi.Strip(lines[1]), "hello")
	assert.Contains(t, ansi.Strip(lines[4]), "q:close")

	assert.Empty(t, RenderPanel("x", PanelOptions{}, 3, 1))
}

func TestSetThemeIndex(t *testing.T) {
	originalIdx := CurrentThemeIndex()
	defer SetThemeIndex(originalIdx)

	t.Run("valid index sets theme", func(t *testing.T) {
		assert.True(t, SetThemeIndex(2))
		assert.Equal(t, 2, CurrentThemeIndex())
		assert.Equal(t, AllThemes()[2].Colors.Primary, ColorPrimary)
	})

	t.Run("out of bounds index returns false", func(t *testing.T) {
		SetThemeIndex(0)
		assert.False(t, SetThemeIndex(-1))
		assert.False(t, SetThemeIndex(len(AllThemes())))
		assert.Equal(t, 0, CurrentThemeIndex(), "index should not change")
	})

	t.Run("next theme wraps", func(t *testing.T) {
		SetThemeIndex(len(AllThemes()) - 1)
		next := NextTheme()
		assert.Equal(t, 0, CurrentThemeIndex())
		assert.Equal(t, AllThemes()[0].Name, next.Name)
	})
}
