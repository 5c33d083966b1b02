package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	minContextLines = 1
	maxContextLines = 20
)

// Prefs holds user preferences for the TUI that persist across sessions.
type Prefs struct {
	// ContextLines is the number of code lines shown around a finding.
	ContextLines int `json:"context_lines"`
	// Highlight enables ABAP syntax highlighting in the detail pane.
	Highlight bool `json:"highlight"`
}

// DefaultPrefs returns the default preferences.
func DefaultPrefs() Prefs {
	return Prefs{ContextLines: 3, Highlight: true}
}

// prefsPath returns the path to the TUI preferences file.
func prefsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".drcscan", "tui_prefs.json"), nil
}

// LoadPrefs loads user preferences from disk, returning defaults if not found.
func LoadPrefs() Prefs {
	prefs := DefaultPrefs()

	path, err := prefsPath()
	if err != nil {
		return prefs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}
	_ = json.Unmarshal(data, &prefs) //nolint:errcheck // fall back to defaults
	prefs.ContextLines = clampContext(prefs.ContextLines)
	return prefs
}

// SavePrefs persists user preferences to disk.
func SavePrefs(prefs Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func clampContext(n int) int {
	if n < minContextLines {
		return minContextLines
	}
	if n > maxContextLines {
		return maxContextLines
	}
	return n
}
