// Package config handles configuration loading and validation for codenote.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Themes used to pick the decoration color.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds the application configuration.
type Config struct {
	Decoration DecorationConfig `yaml:"decoration"`
	Theme      string           `yaml:"theme"`
	Storage    StorageConfig    `yaml:"storage"`
	TUI        TUIConfig        `yaml:"tui"`
	DataDir    string           `yaml:"-"` // set by caller, not from config file
}

// DecorationConfig controls how notes are drawn in editor views.
type DecorationConfig struct {
	// Enabled toggles decorations. nil means enabled.
	Enabled *bool `yaml:"enabled"`
	// Colors are the background colors of annotated ranges per theme.
	Colors DecorationColors `yaml:"colors"`
	// HoverStyle is an inline CSS declaration list applied to the note text
	// in hover content.
	HoverStyle string `yaml:"hover_style"`
}

// DecorationColors holds one background color per theme. Empty values fall
// back to the editor default.
type DecorationColors struct {
	Dark  string `yaml:"dark"`
	Light string `yaml:"light"`
}

// IsEnabled reports whether decorations should be drawn.
func (d DecorationConfig) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// StorageConfig selects where notes are persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // sqlite or json
	Path    string `yaml:"path"`    // json backend file; defaults to <data-dir>/notes.json
}

// NotesFile returns the JSON backend file path.
func (c *Config) NotesFile() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(c.DataDir, "notes.json")
}

// TUIConfig holds terminal editor settings.
type TUIConfig struct {
	TabWidth int `yaml:"tab_width"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Decoration: DecorationConfig{
			Colors: DecorationColors{
				Dark:  "#3d3d1a",
				Light: "#fff5b1",
			},
			HoverStyle: "color: #c0caf5; font-style: italic",
		},
		Theme: ThemeDark,
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
		TUI: TUIConfig{
			TabWidth: 4,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
// Decoration colors and hover style are left as written: an empty value is a
// deliberate request for the editor default.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.TUI.TabWidth == 0 {
		c.TUI.TabWidth = defaults.TUI.TabWidth
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	switch c.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("theme must be %q or %q, got %q", ThemeDark, ThemeLight, c.Theme)
	}

	switch c.Storage.Backend {
	case BackendSQLite, BackendJSON:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendSQLite, BackendJSON, c.Storage.Backend)
	}

	if c.TUI.TabWidth < 1 {
		return fmt.Errorf("tui.tab_width must be at least 1")
	}

	return nil
}
