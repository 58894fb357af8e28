package habitlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tally/internal/habit"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

const barWidth = 16

var (
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type ArchiveHabitMsg struct {
	ID   string
	Name string
}

type Item struct {
	Habit      models.ComputedHabit
	Score      habit.HabitScore
	Conditions string
}

func (i Item) Title() string {
	mark := missStyle.Render("○")
	if i.Score.Completion.Complete {
		mark = doneStyle.Render("●")
	}
	return mark + " " + i.Habit.Name
}

func (i Item) Description() string {
	bar := progress.New(progress.WithWidth(barWidth), progress.WithoutPercentage(), progress.WithSolidFill("42"))
	desc := fmt.Sprintf("%s %3.0f%% | %+d pt", bar.ViewAs(i.Progress()), i.Progress()*100, i.Score.Points)
	if i.Habit.IsWeekly {
		desc += " | week so far"
	}
	return desc + " | " + mutedStyle.Render(i.Conditions)
}

func (i Item) FilterValue() string { return i.Habit.Name }

// Progress is the mean progress of the habit's conditions, or 1 when complete
func (i Item) Progress() float64 {
	c := i.Score.Completion
	if c.Complete {
		return 1
	}
	if len(c.ConditionProgressions) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range c.ConditionProgressions {
		sum += p
	}
	return sum / float64(len(c.ConditionProgressions))
}

type KeyMap struct {
	Archive key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Archive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "archive"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(view storage.DayView, width, height int) Model {
	l := list.New(Items(view), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Archive}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Archive}
	}

	return Model{list: l, keys: keys}
}

// Items scores the view's habits and wraps them for the list
func Items(view storage.DayView) []list.Item {
	score := view.Score()
	items := make([]list.Item, len(view.Habits))
	for i, h := range view.Habits {
		conds := make([]string, len(h.Conditions))
		for j, c := range h.Conditions {
			conds[j] = habit.FormatCondition(c, view.MeasurementName(c.MeasurementID))
		}
		joiner := " and "
		if h.Predicate == models.PredicateOr {
			joiner = " or "
		}
		items[i] = Item{Habit: h, Score: score.Habits[i], Conditions: strings.Join(conds, joiner)}
	}
	return items
}

func (m *Model) SetView(view storage.DayView) {
	m.list.SetItems(Items(view))
}

func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Archive) {
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ArchiveHabitMsg{ID: i.Habit.ID, Name: i.Habit.Name} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits for this day.\n  Add one with 'tally habit add'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
