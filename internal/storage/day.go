package storage

import (
	"time"

	"github.com/samber/lo"

	"github.com/julianstephens/tally/internal/habit"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

// DayView is everything needed to evaluate habits on one date
type DayView struct {
	Date         string
	Week         []string
	Habits       []models.ComputedHabit  // active habits as of Date, in display order
	Logs         map[string]models.Habit // update logs by habit id
	Measurements map[string]models.Measurement
	Lookup       *RecordingIndex
}

// LoadDayView replays every non-deleted habit as of date and indexes the
// recordings of the week containing it.
func LoadDayView(p Provider, date string, weekStart time.Weekday) (DayView, error) {
	week, err := utils.WeekDates(date, weekStart)
	if err != nil {
		return DayView{}, err
	}

	habits, err := p.GetAllHabits(false)
	if err != nil {
		return DayView{}, err
	}
	computed := lo.Filter(ComputeAll(habits, date), func(h models.ComputedHabit, _ int) bool {
		return !h.Archived && h.Name != ""
	})
	habit.SortForDisplay(computed)

	measurements, err := p.GetAllMeasurements(true)
	if err != nil {
		return DayView{}, err
	}

	idx, err := LoadRecordingIndex(p, week[0], week[len(week)-1])
	if err != nil {
		return DayView{}, err
	}

	return DayView{
		Date:   date,
		Week:   week,
		Habits: computed,
		Logs: lo.SliceToMap(habits, func(h models.Habit) (string, models.Habit) {
			return h.ID, h
		}),
		Measurements: lo.SliceToMap(measurements, func(m models.Measurement) (string, models.Measurement) {
			return m.ID, m
		}),
		Lookup: idx,
	}, nil
}

// Score evaluates the view's habits on its date
func (v DayView) Score() habit.DayScore {
	return habit.ScoreDay(v.Habits, v.Lookup, v.Date, v.Week)
}

// Summaries evaluates each habit over the full week
func (v DayView) Summaries() []habit.WeekSummary {
	return lo.Map(v.Habits, func(h models.ComputedHabit, _ int) habit.WeekSummary {
		if log, ok := v.Logs[h.ID]; ok {
			return habit.SummarizeHabitWeek(log, v.Date, v.Lookup, v.Week)
		}
		return habit.SummarizeWeek(h, v.Lookup, v.Week)
	})
}

// MeasurementName returns the display name for a measurement id
func (v DayView) MeasurementName(id string) string {
	if m, ok := v.Measurements[id]; ok {
		return m.Name
	}
	return id
}
