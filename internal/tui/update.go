package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habits.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case habitlist.ArchiveHabitMsg:
		cmd = m.confirmArchive(msg)
		return m, cmd
	}

	if m.state == constants.StateConfirmArchive {
		return m.updateConfirmArchive(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.PrevDay):
			m.shiftDate(-1)
			return m, nil
		case key.Matches(msg, m.keys.NextDay):
			m.shiftDate(1)
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.loadDate(m.today)
			return m, nil
		}
	}

	m.habits, cmd = m.habits.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmArchive(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.finishConfirm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.confirm != nil && *m.confirm {
			if err := m.archiveHabit(m.habitToArchiveID); err != nil {
				m.statusMsg = "archive failed: " + err.Error()
			}
		}
		m.finishConfirm()
		return m, nil
	case huh.StateAborted:
		m.finishConfirm()
		return m, nil
	}
	return m, cmd
}

func (m *Model) finishConfirm() {
	m.state = constants.StateHabits
	m.form = nil
	m.confirm = nil
	m.habitToArchiveID = ""
}
