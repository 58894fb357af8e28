package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/habit"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/tui/components/habitlist"
	"github.com/julianstephens/tally/internal/utils"
	"github.com/julianstephens/tally/internal/validation"
)

type Model struct {
	store    storage.Provider
	settings models.Settings
	today    string
	view     storage.DayView
	state    constants.SessionState
	keys     KeyMap
	help     help.Model
	habits   habitlist.Model
	form     *huh.Form
	confirm  *bool
	quitting bool
	width    int
	height   int

	habitToArchiveID string
	statusMsg        string
}

func NewModel(store storage.Provider, settings models.Settings, date string) (Model, error) {
	today, err := utils.GetTodayFromSettings(settings)
	if err != nil {
		return Model{}, err
	}
	view, err := storage.LoadDayView(store, date, settings.WeekStart)
	if err != nil {
		return Model{}, fmt.Errorf("failed to load %s: %w", date, err)
	}

	return Model{
		store:    store,
		settings: settings,
		today:    today,
		view:     view,
		state:    constants.StateHabits,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		habits:   habitlist.New(view, 0, 0),
	}, nil
}

func (m Model) Date() string {
	return m.view.Date
}

func (m Model) ShortHelp() []key.Binding {
	return append(m.keys.ShortHelp(), m.keys.Archive)
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return m.habits.Init()
}

// loadDate replaces the view with the given day, keeping the old one on error
func (m *Model) loadDate(date string) {
	view, err := storage.LoadDayView(m.store, date, m.settings.WeekStart)
	if err != nil {
		logger.Error("failed to load day", "date", date, "error", err)
		m.statusMsg = fmt.Sprintf("could not load %s", date)
		return
	}
	m.view = view
	m.habits.SetView(view)
	m.statusMsg = ""
}

func (m *Model) shiftDate(days int) {
	date, err := utils.AddDays(m.view.Date, days)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.loadDate(date)
}

// archiveHabit archives the habit from the current view's date onward
func (m *Model) archiveHabit(id string) error {
	h, err := m.store.GetHabit(id)
	if err != nil {
		return err
	}
	current := habit.ComputeHabit(h, m.view.Date)
	current.Archived = true
	if err := validation.ValidateDefinition(current); err != nil {
		return err
	}

	h, err = habit.CommitEdit(h, current, m.view.Date)
	if err != nil {
		return err
	}
	if err := m.store.SaveHabit(h); err != nil {
		return err
	}
	logger.Info("archived habit", "id", id, "date", m.view.Date)
	m.loadDate(m.view.Date)
	return nil
}

func (m *Model) confirmArchive(msg habitlist.ArchiveHabitMsg) tea.Cmd {
	confirmed := false
	m.confirm = &confirmed
	m.habitToArchiveID = msg.ID
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Archive %s from %s?", msg.Name, m.view.Date)).
				Description("It stops earning points; earlier days keep their history.").
				Affirmative("Archive").
				Negative("Cancel").
				Value(m.confirm),
		),
	)
	m.state = constants.StateConfirmArchive
	return m.form.Init()
}
