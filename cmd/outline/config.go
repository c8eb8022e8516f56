package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-git/gcfg/v2"
)

// projectConfigPath is read relative to the working directory.
const projectConfigPath = ".outline/config"

const (
	defaultIndent = 2
	defaultLevel  = "warn"
)

// Config is the resolved configuration: user file, then project file, then flags.
type Config struct {
	Store   StoreConfig   `toml:"store"`
	Display DisplayConfig `toml:"display"`
	Log     LogConfig     `toml:"log"`
}

// StoreConfig locates the order database.
type StoreConfig struct {
	Path string `toml:"path"`
}

// DisplayConfig shapes the outline printed by show.
type DisplayConfig struct {
	Indent int `toml:"indent"` // spaces per depth level
	Width  int `toml:"width"`  // 0 = terminal width when attached, else unlimited
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// ProjectConfig is the git-config style .outline/config file.
type ProjectConfig struct {
	Store struct {
		Path string
	}
	Display struct {
		Indent int
	}
}

// userConfigPath returns ~/.config/outline/config.toml, or "" without a home.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "outline", "config.toml")
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "orders.db"
	}
	return filepath.Join(home, ".local", "share", "outline", "orders.db")
}

// loadConfig reads the user TOML file and the project file, both optional.
// Non-empty project values override user values.
func loadConfig(userPath, projectPath string) (*Config, error) {
	cfg := &Config{
		Store:   StoreConfig{Path: defaultStorePath()},
		Display: DisplayConfig{Indent: defaultIndent},
		Log:     LogConfig{Level: defaultLevel},
	}

	if userPath != "" {
		if _, err := toml.DecodeFile(userPath, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("parse %s: %w", userPath, err)
		}
	}

	var project ProjectConfig
	if projectPath != "" {
		if err := gcfg.ReadFileInto(&project, projectPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("parse %s: %w", projectPath, err)
		}
	}
	if project.Store.Path != "" {
		cfg.Store.Path = project.Store.Path
		if !filepath.IsAbs(cfg.Store.Path) {
			cfg.Store.Path = filepath.Join(filepath.Dir(filepath.Dir(projectPath)), cfg.Store.Path)
		}
	}
	if project.Display.Indent != 0 {
		cfg.Display.Indent = project.Display.Indent
	}

	// Re-apply defaults for empty fields
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath()
	}
	if cfg.Display.Indent <= 0 {
		cfg.Display.Indent = defaultIndent
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLevel
	}
	return cfg, nil
}
