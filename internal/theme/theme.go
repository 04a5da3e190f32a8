package theme

import "github.com/charmbracelet/lipgloss"

// Theme is a named color palette.
type Theme struct {
	Name   string
	Colors Palette
}

// Palette holds every color the explorer draws with.
type Palette struct {
	// Accents
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Mark      lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Special   lipgloss.Color

	// Backgrounds
	BgCursor lipgloss.Color
	BgBar    lipgloss.Color

	// Text, brightest to dimmest
	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextDim       lipgloss.Color
}

// Active palette colors. ApplyTheme overwrites them and rebuilds the styles.
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorMark      lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorError     lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorSpecial   lipgloss.Color

	BgCursor lipgloss.Color
	BgBar    lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextDim       lipgloss.Color
)

// UseNerdFonts selects Nerd Font glyphs over plain unicode icons.
var UseNerdFonts = true

// DirIcon returns the icon for a directory.
func DirIcon(name string, expanded bool) string {
	if UseNerdFonts {
		if icon, ok := DirIcons[name]; ok {
			return icon
		}
	}
	if expanded {
		return IconDirExpanded
	}
	return IconDirCollapsed
}

// FileIcon returns the icon for a file with the given name and lowercase extension.
func FileIcon(name, ext string) string {
	if !UseNerdFonts {
		return IconFilePlain
	}
	if icon, ok := FileIcons[name]; ok {
		return icon
	}
	if icon, ok := FileIcons[ext]; ok {
		return icon
	}
	return FileIcons[""]
}

// SymlinkIcon returns the icon for a symbolic link.
func SymlinkIcon() string {
	if UseNerdFonts {
		return IconSymlinkNerd
	}
	return IconSymlink
}
