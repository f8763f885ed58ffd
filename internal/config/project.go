package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/oxcheck/internal/atomicfile"
	"github.com/aidanlsb/oxcheck/internal/schema"
)

// ProjectFile is the name of the per-mod config file.
const ProjectFile = "oxcheck.yaml"

// Defaults for the discovery patterns and watcher debounce.
const (
	DefaultRulesGlob   = "**/*.rul"
	DefaultLocalesGlob = "**/Language/*.yml"
	DefaultDebounce    = 100 * time.Millisecond
)

// ErrNoVanilla is returned when no vanilla ruleset directory is configured.
var ErrNoVanilla = errors.New("no vanilla ruleset configured")

// ProjectConfig represents mod-level configuration from oxcheck.yaml.
type ProjectConfig struct {
	// VanillaPath is the vanilla ruleset directory. Relative paths are
	// resolved against the mod root.
	VanillaPath string `yaml:"vanilla_path,omitempty"`

	// Rules is the glob selecting rule files, relative to each root.
	Rules string `yaml:"rules,omitempty"`

	// Locales is the glob selecting locale files, relative to each root.
	Locales string `yaml:"locales,omitempty"`

	// Checks toggles the optional passes (both default to true).
	Checks ChecksConfig `yaml:"checks,omitempty"`

	// DebounceMS is the watcher debounce in milliseconds (default: 100).
	DebounceMS int `yaml:"debounce_ms,omitempty"`

	// Schema is merged over the built-in tables.
	Schema *schema.Contribution `yaml:"schema,omitempty"`
}

// ChecksConfig toggles the optional validation passes.
type ChecksConfig struct {
	Duplicates *bool `yaml:"duplicates,omitempty"`
	Logic      *bool `yaml:"logic,omitempty"`
}

// DefaultProjectConfig returns the default project configuration.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Rules:   DefaultRulesGlob,
		Locales: DefaultLocalesGlob,
	}
}

// DuplicatesEnabled reports whether duplicate detection runs (default: true).
func (pc *ProjectConfig) DuplicatesEnabled() bool {
	return pc.Checks.Duplicates == nil || *pc.Checks.Duplicates
}

// LogicEnabled reports whether the logic rules run (default: true).
func (pc *ProjectConfig) LogicEnabled() bool {
	return pc.Checks.Logic == nil || *pc.Checks.Logic
}

// Debounce returns the watcher debounce delay.
func (pc *ProjectConfig) Debounce() time.Duration {
	if pc.DebounceMS <= 0 {
		return DefaultDebounce
	}
	return time.Duration(pc.DebounceMS) * time.Millisecond
}

// ResolveVanilla picks the vanilla root with precedence:
//  1. explicit flag value
//  2. vanilla_path from oxcheck.yaml (relative to the mod root)
//  3. vanilla_path from the global config
func (pc *ProjectConfig) ResolveVanilla(modRoot, flagValue string, global *Config) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(pc.VanillaPath); v != "" {
		if filepath.IsAbs(v) {
			return filepath.Clean(v), nil
		}
		return filepath.Join(modRoot, filepath.FromSlash(v)), nil
	}
	if global != nil {
		if v := strings.TrimSpace(global.VanillaPath); v != "" {
			return v, nil
		}
	}
	return "", ErrNoVanilla
}

// LoadProjectConfig loads mod configuration from oxcheck.yaml.
// Returns default config if file doesn't exist.
func LoadProjectConfig(modRoot string) (*ProjectConfig, error) {
	configPath := filepath.Join(modRoot, ProjectFile)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultProjectConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config %s: %w", configPath, err)
	}

	var config ProjectConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse project config %s: %w", configPath, err)
	}
	if config.Schema != nil {
		if err := config.Schema.Validate(); err != nil {
			return nil, fmt.Errorf("invalid schema in %s: %w", configPath, err)
		}
	}

	// Apply defaults for missing values
	if config.Rules == "" {
		config.Rules = DefaultRulesGlob
	}
	if config.Locales == "" {
		config.Locales = DefaultLocalesGlob
	}

	return &config, nil
}

const defaultProjectConfig = `# oxcheck project configuration

# Vanilla ruleset directory (relative paths resolve against this mod)
# vanilla_path: ../../standard/xcom1

# Which files to scan, relative to the mod and vanilla roots
rules: "**/*.rul"
locales: "**/Language/*.yml"

# Optional passes
checks:
  duplicates: true
  logic: true

# Watcher debounce for 'oxc watch'
debounce_ms: 100

# Extra schema entries, merged over the built-in tables.
# schema:
#   links:
#     items.myCustomField: [items]
#   ignore:
#     - items.myFlavourText
#   strings:
#     - items.myDescription
`

// CreateDefaultProjectConfig creates a default oxcheck.yaml in the mod.
// Returns true if a new file was created, false if one already existed.
func CreateDefaultProjectConfig(modRoot string) (bool, error) {
	configPath := filepath.Join(modRoot, ProjectFile)

	// Skip if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	if err := atomicfile.WriteFile(configPath, []byte(defaultProjectConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write project config: %w", err)
	}

	return true, nil
}
