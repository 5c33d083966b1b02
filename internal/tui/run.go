package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redactyl/drcscan/internal/report"
	"github.com/redactyl/drcscan/internal/types"
)

// Options wires the TUI to the scan that produced its results.
type Options struct {
	Root         string // repository root, for the audit log
	BaselinePath string
	Rescan       func() ([]types.UnitResult, error)
}

// Run starts the interactive viewer. Baselined findings are listed but marked.
func Run(results []types.UnitResult, baseline report.Baseline, opts Options) error {
	m := NewModel(results, baseline, opts)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
