// Package config loads tangle's TOML configuration file.
//
// The file lives at ~/.tangle.toml by default and every field is optional;
// missing fields fall back to [Default]. `tangle config init` writes a
// commented template.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the config file's base name in the home directory.
const FileName = ".tangle.toml"

// Config is the full configuration tree.
type Config struct {
	Graph      GraphConfig      `toml:"graph"`
	Display    DisplayConfig    `toml:"display"`
	Blueprints BlueprintsConfig `toml:"blueprints"`
}

// GraphConfig tunes engine housekeeping.
type GraphConfig struct {
	// AutoCompact compacts the node table after a mutating command when the
	// tombstone ratio exceeds CompactThreshold.
	AutoCompact bool `toml:"auto_compact"`
	// CompactThreshold is a percentage in (0,100].
	CompactThreshold int `toml:"compact_threshold"`
	// CountArchived includes archived children in completion aggregation.
	CountArchived bool `toml:"count_archived"`
}

// DisplayConfig tunes listing output.
type DisplayConfig struct {
	// ShowConnections prints each node's id and parent count in listings.
	ShowConnections bool `toml:"show_connections"`
	// Color force-enables or -disables styled output; "auto" follows the
	// terminal.
	Color string `toml:"color"`
}

// BlueprintsConfig locates the blueprint store.
type BlueprintsConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Graph: GraphConfig{
			AutoCompact:      false,
			CompactThreshold: 50,
			CountArchived:    true,
		},
		Display: DisplayConfig{
			ShowConnections: true,
			Color:           "auto",
		},
	}
}

// DefaultPath returns ~/.tangle.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the config at path, layered over [Default]. A missing file is
// not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("parse %s: unknown key %s", path, undec[0])
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Graph.CompactThreshold <= 0 || c.Graph.CompactThreshold > 100 {
		return fmt.Errorf("graph.compact_threshold must be in (0,100], got %d", c.Graph.CompactThreshold)
	}
	switch c.Display.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("display.color must be auto, always or never, got %q", c.Display.Color)
	}
	return nil
}

// BlueprintDir resolves the blueprint store directory: the configured one,
// or ~/.tangle-blueprints when unset.
func (c Config) BlueprintDir() (string, error) {
	if c.Blueprints.Dir != "" {
		return c.Blueprints.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".tangle-blueprints"), nil
}

// Template is the commented configuration written by `tangle config init`.
const Template = `# tangle configuration

[graph]
# Compact the node table automatically after mutating commands once the
# tombstone ratio exceeds compact_threshold (percent).
auto_compact = false
compact_threshold = 50
# Count archived children toward a parent's completion state.
count_archived = true

[display]
# Show node ids and parent counts in listings.
show_connections = true
# Styled output: "auto", "always" or "never".
color = "auto"

[blueprints]
# Where blueprints are stored. Defaults to ~/.tangle-blueprints.
# dir = "/home/me/.tangle-blueprints"
`

// WriteTemplate writes the commented template to path, refusing to overwrite
// an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
