// Package config handles global oxcheck configuration and the per-mod
// project file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/oxcheck/internal/atomicfile"
)

// Config represents the global oxcheck configuration.
type Config struct {
	// VanillaPath is the default vanilla ruleset directory, used when neither
	// the command line nor the mod's oxcheck.yaml names one.
	VanillaPath string `toml:"vanilla_path"`

	// Mods maps short names to mod roots so `--mod name` works from anywhere.
	Mods map[string]string `toml:"mods"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// ResolveMod returns the mod root for a --mod value: a configured name
// resolves through Mods, anything else is taken as a path.
func (c *Config) ResolveMod(value string) string {
	if c != nil && c.Mods != nil {
		if path, ok := c.Mods[value]; ok {
			return path
		}
	}
	return value
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads the configuration from a specific path.
// Returns a default config if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}

	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/oxcheck/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if p, err := XDGPath(); err == nil {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "oxcheck", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/oxcheck/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "oxcheck", "config.toml"), nil
}

const defaultGlobalConfig = `# oxcheck configuration

# Vanilla ruleset directory used when a mod does not name one
# vanilla_path = "/games/openxcom/standard/xcom1"

# Short names for mod roots, usable as --mod <name>
# [mods]
# mymod = "/games/openxcom/user/mods/MyMod"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

// CreateDefault writes a commented default config at path if none exists.
// Returns true if a new file was created.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, []byte(defaultGlobalConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
