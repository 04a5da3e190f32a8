// Package state persists UI preferences between runs and locates the
// per-user configuration directory.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	configDirName = ".config"
	appDirName    = "vibetree"
	stateFileName = "state.json"
)

// State represents the persisted UI state.
type State struct {
	// ShowHidden indicates if hidden files were visible
	ShowHidden bool `json:"show_hidden"`
	// ThemeIndex is the index of the selected theme
	ThemeIndex int `json:"theme_index"`
	// CompactIndent indicates if the tree uses compact (2-space) indentation
	CompactIndent bool `json:"compact_indent,omitempty"`
	// QuickPreview indicates if the preview panel follows the cursor
	QuickPreview bool `json:"quick_preview,omitempty"`
}

// DefaultState returns the default state for first run.
func DefaultState() State {
	return State{}
}

// ConfigDir returns the application's config directory:
// $XDG_CONFIG_HOME/vibetree when set, ~/.config/vibetree otherwise.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, appDirName), nil
}

// Path returns the path of a file inside the config directory.
func Path(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Load reads the global UI state.
// Returns default state if file doesn't exist or can't be read.
func Load() State {
	path, err := Path(stateFileName)
	if err != nil {
		return DefaultState()
	}
	return LoadFrom(path)
}

// LoadFrom reads state from path, falling back to defaults.
func LoadFrom(path string) State {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultState()
	}

	s := DefaultState()
	if err := json.Unmarshal(data, &s); err != nil {
		// Invalid JSON - return defaults
		return DefaultState()
	}
	return s
}

// Save writes the global UI state.
func Save(s State) error {
	path, err := Path(stateFileName)
	if err != nil {
		return err
	}
	return SaveTo(path, s)
}

// SaveTo writes state to path, creating its directory.
func SaveTo(path string, s State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
