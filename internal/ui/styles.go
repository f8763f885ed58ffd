package ui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA, configurable): file paths, rule types
// - Muted (gray): positions, codes, hints
// - No colored error/warning - use unicode symbols only

const defaultAccent = "#A78BFA"

var (
	themeMu     sync.Mutex
	accentColor string

	// Accent style for file paths and highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info, hints, line numbers
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
)

// ConfigureTheme applies the accent from the global config. "none", "off"
// and "default" (or an invalid value) restore the built-in accent.
func ConfigureTheme(accent string) {
	themeMu.Lock()
	defer themeMu.Unlock()

	color, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		color = defaultAccent
	} else {
		accentColor = color
	}
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = Accent.Bold(true)
}

// AccentColor returns the configured accent, if any.
func AccentColor() (string, bool) {
	themeMu.Lock()
	defer themeMu.Unlock()
	return accentColor, accentColor != ""
}

// normalizeAccentColor accepts an ANSI code 0-255 or a #RGB / #RRGGBB hex color.
func normalizeAccentColor(raw string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "", "none", "off", "default":
		return "", false
	}

	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return "", false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return "", false
		}
		return "#" + hex, true
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return strconv.Itoa(n), true
}
