// Package config loads vibetree's settings from defaults, an optional YAML
// file and VIBETREE_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/avitaltamir/vibetree/internal/history"
	"github.com/avitaltamir/vibetree/internal/logging"
	"github.com/avitaltamir/vibetree/internal/state"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "VIBETREE"

// Config is the resolved configuration.
type Config struct {
	DefaultCmd  string        `mapstructure:"default_cmd"`
	ShowHidden  bool          `mapstructure:"show_hidden"`
	HistoryFile string        `mapstructure:"history_file"`
	Log         LogConfig     `mapstructure:"log"`
	Command     CommandConfig `mapstructure:"command"`
	Git         GitConfig     `mapstructure:"git"`
	Preview     PreviewConfig `mapstructure:"preview"`
	Mouse       MouseConfig   `mapstructure:"mouse"`
	Tree        TreeConfig    `mapstructure:"tree"`
	Theme       ThemeConfig   `mapstructure:"theme"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type CommandConfig struct {
	Shell       string `mapstructure:"shell"`
	OutputLimit int    `mapstructure:"output_limit"`
	PTY         bool   `mapstructure:"pty"`
}

type GitConfig struct {
	Backend         string        `mapstructure:"backend"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type PreviewConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type MouseConfig struct {
	DoubleClick time.Duration `mapstructure:"double_click"`
}

type TreeConfig struct {
	ExpandAllDepth int `mapstructure:"expand_all_depth"`
}

type ThemeConfig struct {
	NerdFonts bool `mapstructure:"nerd_fonts"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_cmd", "")
	v.SetDefault("show_hidden", false)
	v.SetDefault("history_file", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("command.shell", "sh")
	v.SetDefault("command.output_limit", 64*1024)
	v.SetDefault("command.pty", false)
	v.SetDefault("git.backend", "auto")
	v.SetDefault("git.refresh_interval", 10*time.Second)
	v.SetDefault("preview.max_bytes", 1<<20)
	v.SetDefault("mouse.double_click", 400*time.Millisecond)
	v.SetDefault("tree.expand_all_depth", 8)
	v.SetDefault("theme.nerd_fonts", true)
}

// Default returns the configuration with no file and no environment.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load resolves the configuration. An explicit path must exist; otherwise
// config.yaml is looked up in the config directory and may be absent.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := state.ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.File = v.ConfigFileUsed()

	if err := c.resolvePaths(); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// resolvePaths fills the history and log files from the config directory
// when they are not set.
func (c *Config) resolvePaths() error {
	if c.HistoryFile != "" && c.Log.File != "" {
		return nil
	}
	dir, err := state.ConfigDir()
	if err != nil {
		return fmt.Errorf("config dir: %w", err)
	}
	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(dir, history.FileName)
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(dir, logging.DefaultFile)
	}
	return nil
}

// Validate rejects values the rest of the program cannot work with.
func (c Config) Validate() error {
	switch c.Git.Backend {
	case "auto", "shell", "gogit":
	default:
		return fmt.Errorf("git.backend: unknown backend %q", c.Git.Backend)
	}
	if c.Command.OutputLimit <= 0 {
		return fmt.Errorf("command.output_limit: must be positive, got %d", c.Command.OutputLimit)
	}
	if c.Tree.ExpandAllDepth < 1 {
		return fmt.Errorf("tree.expand_all_depth: must be at least 1, got %d", c.Tree.ExpandAllDepth)
	}
	if c.Mouse.DoubleClick <= 0 {
		return fmt.Errorf("mouse.double_click: must be positive, got %s", c.Mouse.DoubleClick)
	}
	return nil
}
