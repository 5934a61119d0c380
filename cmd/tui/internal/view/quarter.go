package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/europemission/martha/internal/period"
)

// QuarterSelectedMsg is emitted when the user confirms a reporting period.
type QuarterSelectedMsg struct {
	Quarter period.Quarter
	Year    int
}

// QuarterPicker is a reusable component for selecting a quarter and year.
type QuarterPicker struct {
	quarter period.Quarter
	year    int
}

// NewQuarterPicker creates a picker positioned on the current quarter.
func NewQuarterPicker() QuarterPicker {
	q, year := period.Current()

	return QuarterPicker{quarter: q, year: year}
}

func (m QuarterPicker) Update(msg tea.Msg) (QuarterPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "h":
		m.quarter, m.year = period.Previous(m.quarter, m.year)
	case "right", "l":
		if m.quarter == period.Q4 {
			m.quarter = period.Q1
			m.year++
		} else {
			m.quarter++
		}
	case "up", "k":
		m.year++
	case "down", "j":
		m.year--
	case "enter":
		q, year := m.quarter, m.year

		return m, func() tea.Msg {
			return QuarterSelectedMsg{Quarter: q, Year: year}
		}
	}

	return m, nil
}

func (m QuarterPicker) View() string {
	selected := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Render(fmt.Sprintf("%s %d", m.quarter, m.year))

	return fmt.Sprintf(
		"Select Period:\n\n  %s  (%s)\n\n(←/→ quarter, ↑/↓ year, Enter to select, Esc to back)",
		selected,
		m.quarter.Label(),
	)
}

// Selected returns the currently highlighted period.
func (m QuarterPicker) Selected() (period.Quarter, int) {
	return m.quarter, m.year
}

// Reset returns the picker to the current quarter.
func (m *QuarterPicker) Reset() {
	m.quarter, m.year = period.Current()
}
