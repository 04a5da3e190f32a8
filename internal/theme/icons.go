package theme

// Tree glyphs
const (
	IconDirCollapsed = "▸"
	IconDirExpanded  = "▾"
	IconFilePlain    = " "
	IconSymlink      = "↪"
	IconSymlinkNerd  = "\uf481"
	IconMarked       = "●"
	IconUnmarked     = " "
	IconError        = "✗"
)

// Indentation per tree level
const (
	TreeSpace        = "    "
	TreeSpaceCompact = "  "
)

// Clipboard indicators shown in the header
const (
	IconClipCopy = "⧉"
	IconClipMove = "✂"
)

// Status indicators
const (
	StatusRunning = "●"
	StatusIdle    = "○"
)

// FileIcons maps file names and extensions to Nerd Font icons.
var FileIcons = map[string]string{
	// Go
	".go":  "󰟓",
	".mod": "󰏗",
	".sum": "󰏗",

	// Web
	".js":   "\ue74e",
	".ts":   "\ue628",
	".html": "\ue736",
	".css":  "\ue749",

	// Data
	".json": "\ue60b",
	".yaml": "\ue6a8",
	".yml":  "\ue6a8",
	".toml": "\ue6b2",
	".xml":  "󰗀",

	// Documentation
	".md":  "󰍔",
	".txt": "󰈙",

	// Shell
	".sh":   "\uf489",
	".bash": "\uf489",
	".zsh":  "\uf489",

	// Other languages
	".py": "\ue606",
	".rs": "\ue7a8",
	".c":  "\ue61e",
	".h":  "\uf0fd",

	// Special names
	"Dockerfile": "\uf308",
	"Makefile":   "\ue779",
	".gitignore": "\ue702",

	// Images and archives
	".png": "\uf1c5",
	".jpg": "\uf1c5",
	".svg": "󰜡",
	".zip": "\uf410",
	".gz":  "\uf410",

	// Default
	"": "\uf15b",
}

// DirIcons maps well-known directory names to Nerd Font icons.
var DirIcons = map[string]string{
	"node_modules": "",
	"vendor":       "",
	"cmd":          "",
	"internal":     "",
	"docs":         "",
	"test":         "",
	"tests":        "",
	"bin":          "",
	".github":      "",
	".config":      "",
}
