package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateConfirmArchive:
		content = m.viewConfirmArchive()
	default:
		content = docStyle.Render(m.habits.View())
	}

	parts := []string{m.viewHeader(), content}
	if m.statusMsg != "" {
		parts = append(parts, dangerStyle.Render(m.statusMsg))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	label := m.view.Date
	if t, err := utils.ParseDate(m.view.Date); err == nil {
		label = t.Format("Mon 2006-01-02")
	}
	if m.view.Date == m.today {
		label += " (today)"
	}

	week := 0
	for _, s := range m.view.Summaries() {
		week += s.Points
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		dateStyle.Render(label),
		pointsStyle.Render(fmt.Sprintf("%d pt today", m.view.Score().Total)),
		mutedStyle.Render(fmt.Sprintf("%d pt this week", week)),
	)
}

func (m Model) viewConfirmArchive() string {
	if m.form == nil {
		return ""
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		m.form.View(),
	)
}
