// Package testutil provides reusable test utilities for oxcheck tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestProject is a temporary mod directory with its vanilla base.
type TestProject struct {
	Root    string // parent of both trees
	Mod     string
	Vanilla string

	t       testing.TB
	mod     map[string]string
	vanilla map[string]string
	config  string
}

// NewTestProject creates a new test project builder.
// Call Build() to create the actual directories.
func NewTestProject(t testing.TB) *TestProject {
	t.Helper()
	return &TestProject{
		t:       t,
		mod:     make(map[string]string),
		vanilla: make(map[string]string),
	}
}

// WithModFile adds a file to the mod tree.
// The path is relative to the mod root.
func (p *TestProject) WithModFile(path, content string) *TestProject {
	p.mod[path] = content
	return p
}

// WithVanillaFile adds a file to the vanilla tree.
func (p *TestProject) WithVanillaFile(path, content string) *TestProject {
	p.vanilla[path] = content
	return p
}

// WithConfig sets the oxcheck.yaml content for the mod.
func (p *TestProject) WithConfig(yaml string) *TestProject {
	p.config = yaml
	return p
}

// Build creates both trees and all configured files.
func (p *TestProject) Build() *TestProject {
	p.t.Helper()

	p.Root = p.t.TempDir()
	p.Mod = filepath.Join(p.Root, "mod")
	p.Vanilla = filepath.Join(p.Root, "vanilla")
	for _, dir := range []string{p.Mod, p.Vanilla} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			p.t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	if p.config != "" {
		p.writeFile(p.Mod, "oxcheck.yaml", p.config)
	}
	for path, content := range p.vanilla {
		p.writeFile(p.Vanilla, path, content)
	}
	for path, content := range p.mod {
		p.writeFile(p.Mod, path, content)
	}
	return p
}

// WriteModFile writes (or overwrites) a mod file and returns its absolute path.
func (p *TestProject) WriteModFile(relPath, content string) string {
	p.t.Helper()
	return p.writeFile(p.Mod, relPath, content)
}

// RemoveModFile deletes a mod file and returns its absolute path.
func (p *TestProject) RemoveModFile(relPath string) string {
	p.t.Helper()
	full := p.ModPath(relPath)
	if err := os.Remove(full); err != nil {
		p.t.Fatalf("failed to remove %s: %v", full, err)
	}
	return full
}

// ModPath returns the absolute path of a mod file.
func (p *TestProject) ModPath(relPath string) string {
	return filepath.Join(p.Mod, filepath.FromSlash(relPath))
}

// VanillaPath returns the absolute path of a vanilla file.
func (p *TestProject) VanillaPath(relPath string) string {
	return filepath.Join(p.Vanilla, filepath.FromSlash(relPath))
}

// ReadModFile reads a mod file.
func (p *TestProject) ReadModFile(relPath string) string {
	p.t.Helper()
	content, err := os.ReadFile(p.ModPath(relPath))
	if err != nil {
		p.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// ModFileExists checks if a file exists in the mod tree.
func (p *TestProject) ModFileExists(relPath string) bool {
	_, err := os.Stat(p.ModPath(relPath))
	return err == nil
}

func (p *TestProject) writeFile(root, relPath, content string) string {
	p.t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		p.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		p.t.Fatalf("failed to write file %s: %v", full, err)
	}
	return full
}

// VanillaItems returns a small vanilla item and craft weapon ruleset.
func VanillaItems() string {
	return `items:
  - type: STR_PISTOL
    compatibleAmmo:
      - STR_PISTOL_CLIP
  - type: STR_PISTOL_CLIP
    clipSize: 12
  - type: STR_CANNON_UC
  - type: STR_CANNON_ROUNDS_X50
    clipSize: 50
craftWeapons:
  - type: STR_CANNON_UC
    launcher: STR_CANNON_UC
    clip: STR_CANNON_ROUNDS_X50
research:
  - name: STR_LASER_WEAPONS
`
}
