package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/avitaltamir/vibetree/internal/app"
	"github.com/avitaltamir/vibetree/internal/config"
	"github.com/avitaltamir/vibetree/internal/logging"
	"github.com/avitaltamir/vibetree/internal/state"
	"github.com/avitaltamir/vibetree/internal/theme"
)

var version = "dev"

func main() {
	app.Version = version

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:          "vt [path]",
		Short:        "A terminal file tree explorer",
		Long:         `vt browses a directory as a tree and runs file operations and shell commands on its entries.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return run(path, configPath, debug)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/vibetree/config.yaml)")
	cmd.Flags().BoolVar(&debug, "debug", false, "write debug logs")
	return cmd
}

func run(path, configPath string, debug bool) error {
	root, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	if err := logging.Configure(cfg.Log.File, level); err != nil {
		return err
	}
	defer logging.Close()

	theme.UseNerdFonts = cfg.Theme.NerdFonts

	m, err := app.New(root, app.Options{
		Config: cfg,
		State:  state.Load(),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if fm, ok := final.(app.Model); ok {
		fm.Close()
	}
	if err != nil {
		logging.L().WithError(err).Error("program exited")
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
