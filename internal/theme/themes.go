package theme

import "github.com/charmbracelet/lipgloss"

// Available themes
var (
	themes       []*Theme
	currentIndex int
)

func init() {
	themes = []*Theme{
		MidnightTheme(),
		DaylightTheme(),
		ForestTheme(),
		MonoTheme(),
	}
	currentIndex = 0
	ApplyTheme(themes[0])
}

// AllThemes returns all available themes.
func AllThemes() []*Theme {
	return themes
}

// CurrentTheme returns the currently active theme.
func CurrentTheme() *Theme {
	return themes[currentIndex]
}

// CurrentThemeIndex returns the index of the current theme.
func CurrentThemeIndex() int {
	return currentIndex
}

// NextTheme cycles to the next theme and applies it.
func NextTheme() *Theme {
	currentIndex = (currentIndex + 1) % len(themes)
	ApplyTheme(themes[currentIndex])
	return themes[currentIndex]
}

// SetThemeIndex sets the current theme by index and applies it.
// Returns false if index is out of bounds.
func SetThemeIndex(index int) bool {
	if index < 0 || index >= len(themes) {
		return false
	}
	currentIndex = index
	ApplyTheme(themes[currentIndex])
	return true
}

// ApplyTheme sets all the global color variables to match the theme.
func ApplyTheme(t *Theme) {
	ColorPrimary = t.Colors.Primary
	ColorSecondary = t.Colors.Secondary
	ColorMark = t.Colors.Mark
	ColorSuccess = t.Colors.Success
	ColorError = t.Colors.Error
	ColorWarning = t.Colors.Warning
	ColorSpecial = t.Colors.Special

	BgCursor = t.Colors.BgCursor
	BgBar = t.Colors.BgBar

	TextPrimary = t.Colors.Text
	TextSecondary = t.Colors.TextSecondary
	TextMuted = t.Colors.TextMuted
	TextDim = t.Colors.TextDim

	regenerateStyles()
}

// MidnightTheme - neon accents on a near-black bar
func MidnightTheme() *Theme {
	return &Theme{
		Name: "Midnight",
		Colors: Palette{
			Primary:       lipgloss.Color("#FF00FF"),
			Secondary:     lipgloss.Color("#00FFFF"),
			Mark:          lipgloss.Color("#FF10F0"),
			Success:       lipgloss.Color("#39FF14"),
			Error:         lipgloss.Color("#FF3131"),
			Warning:       lipgloss.Color("#FFFF00"),
			Special:       lipgloss.Color("#7B68EE"),
			BgCursor:      lipgloss.Color("#2D1B4E"),
			BgBar:         lipgloss.Color("#1A0A2E"),
			Text:          lipgloss.Color("#FFFFFF"),
			TextSecondary: lipgloss.Color("#E0E0E0"),
			TextMuted:     lipgloss.Color("#888899"),
			TextDim:       lipgloss.Color("#4A4A6A"),
		},
	}
}

// DaylightTheme - dark text for light terminals
func DaylightTheme() *Theme {
	return &Theme{
		Name: "Daylight",
		Colors: Palette{
			Primary:       lipgloss.Color("#C2185B"),
			Secondary:     lipgloss.Color("#00796B"),
			Mark:          lipgloss.Color("#D84315"),
			Success:       lipgloss.Color("#2E7D32"),
			Error:         lipgloss.Color("#C62828"),
			Warning:       lipgloss.Color("#EF6C00"),
			Special:       lipgloss.Color("#5E35B1"),
			BgCursor:      lipgloss.Color("#E0E0E0"),
			BgBar:         lipgloss.Color("#F0F0F0"),
			Text:          lipgloss.Color("#212121"),
			TextSecondary: lipgloss.Color("#424242"),
			TextMuted:     lipgloss.Color("#757575"),
			TextDim:       lipgloss.Color("#9E9E9E"),
		},
	}
}

// ForestTheme - greens and ambers
func ForestTheme() *Theme {
	return &Theme{
		Name: "Forest",
		Colors: Palette{
			Primary:       lipgloss.Color("#A3D977"),
			Secondary:     lipgloss.Color("#7FC8A9"),
			Mark:          lipgloss.Color("#F2C14E"),
			Success:       lipgloss.Color("#5FAD56"),
			Error:         lipgloss.Color("#E4572E"),
			Warning:       lipgloss.Color("#F2C14E"),
			Special:       lipgloss.Color("#B8B8FF"),
			BgCursor:      lipgloss.Color("#2F3E2C"),
			BgBar:         lipgloss.Color("#1B2419"),
			Text:          lipgloss.Color("#E8F0E3"),
			TextSecondary: lipgloss.Color("#C9D6C1"),
			TextMuted:     lipgloss.Color("#8A9A82"),
			TextDim:       lipgloss.Color("#56634F"),
		},
	}
}

// MonoTheme - grayscale for limited terminals
func MonoTheme() *Theme {
	return &Theme{
		Name: "Mono",
		Colors: Palette{
			Primary:       lipgloss.Color("#FFFFFF"),
			Secondary:     lipgloss.Color("#D0D0D0"),
			Mark:          lipgloss.Color("#FFFFFF"),
			Success:       lipgloss.Color("#B0B0B0"),
			Error:         lipgloss.Color("#FFFFFF"),
			Warning:       lipgloss.Color("#E0E0E0"),
			Special:       lipgloss.Color("#A0A0A0"),
			BgCursor:      lipgloss.Color("#404040"),
			BgBar:         lipgloss.Color("#202020"),
			Text:          lipgloss.Color("#E0E0E0"),
			TextSecondary: lipgloss.Color("#C0C0C0"),
			TextMuted:     lipgloss.Color("#808080"),
			TextDim:       lipgloss.Color("#606060"),
		},
	}
}
