package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/redactyl/drcscan/internal/report"
)

// toggleBaseline records the selected finding in the baseline file, or
// removes it when it is already there.
func (m *Model) toggleBaseline() tea.Cmd {
	it := m.selected()
	if it == nil {
		return func() tea.Msg { return statusMsg("No finding selected") }
	}
	if m.opts.BaselinePath == "" {
		return func() tea.Msg { return statusMsg("No baseline file configured") }
	}

	key := report.ItemKey(*it)
	added := !m.baseline.Items[key]
	if added {
		m.baseline.Items[key] = true
	} else {
		delete(m.baseline.Items, key)
	}
	m.applyFilters()

	base := report.Baseline{Items: make(map[string]bool, len(m.baseline.Items))}
	for k, v := range m.baseline.Items {
		base.Items[k] = v
	}
	path := m.opts.BaselinePath
	return func() tea.Msg {
		if err := base.Write(path); err != nil {
			return statusMsg(fmt.Sprintf("Error writing baseline: %v", err))
		}
		if added {
			return statusMsg("Added finding to baseline")
		}
		return statusMsg("Removed finding from baseline")
	}
}

func (m Model) copyLocation() tea.Cmd {
	it := m.selected()
	if it == nil {
		return func() tea.Msg { return statusMsg("No finding selected") }
	}
	loc := fmt.Sprintf("%s:%d", it.Location, it.Line)
	return func() tea.Msg {
		if err := clipboard.WriteAll(loc); err != nil {
			return statusMsg(fmt.Sprintf("Clipboard error: %v", err))
		}
		return statusMsg("Copied: " + loc)
	}
}

func (m Model) copySuggestion() tea.Cmd {
	it := m.selected()
	if it == nil {
		return func() tea.Msg { return statusMsg("No finding selected") }
	}
	text := it.Finding.Suggestion
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg(fmt.Sprintf("Clipboard error: %v", err))
		}
		return statusMsg("Copied suggestion to clipboard")
	}
}

func (m *Model) setContextLines(n int) tea.Cmd {
	m.prefs.ContextLines = clampContext(n)
	m.updateViewportContent()
	return m.savePrefs()
}

func (m Model) savePrefs() tea.Cmd {
	prefs := m.prefs
	return func() tea.Msg {
		if err := SavePrefs(prefs); err != nil {
			return statusMsg(fmt.Sprintf("Could not save preferences: %v", err))
		}
		return nil
	}
}
