package habit

import (
	"sort"

	"github.com/samber/lo"

	"github.com/julianstephens/tally/internal/models"
)

// HabitScore is one habit's contribution to a day
type HabitScore struct {
	HabitID    string
	Name       string
	Completion Completion
	Points     int
}

// DayScore is the points earned on a single date
type DayScore struct {
	Date   string
	Habits []HabitScore
	Total  int
}

// WeekSummary describes how a habit did over one week
type WeekSummary struct {
	HabitID       string
	Days          []bool // per date in the week; for weekly habits only the completion day is set
	CompletedDays int
	GoalMet       bool
	CompletionDay int // weekly habits only, -1 when not completed
	Points        int
}

// scorable reports whether h can earn points at all.
func scorable(h models.ComputedHabit) bool {
	return !h.Archived && h.Points > 0 && len(h.Conditions) > 0
}

// ScoreDay scores every habit on date. week must contain date and is used to
// attribute weekly habits to the day their cumulative total first completes.
func ScoreDay(habits []models.ComputedHabit, lookup MeasurementLookup, date string, week []string) DayScore {
	score := DayScore{Date: date, Habits: []HabitScore{}}
	dayIdx := lo.IndexOf(week, date)

	for i := range habits {
		h := habits[i]
		if h.Archived {
			continue
		}

		hs := HabitScore{HabitID: h.ID, Name: h.Name}
		if h.IsWeekly {
			through := week
			if dayIdx >= 0 {
				through = week[:dayIdx+1]
			}
			hs.Completion = GetHabitCompletion(&h, lookup, through)
			if scorable(h) && dayIdx >= 0 && CompletionDay(&h, lookup, week) == dayIdx {
				hs.Points = h.Points
			}
		} else {
			hs.Completion = GetHabitCompletion(&h, lookup, []string{date})
			if scorable(h) && hs.Completion.Complete {
				hs.Points = h.Points
			}
		}

		score.Total += hs.Points
		score.Habits = append(score.Habits, hs)
	}

	return score
}

// SummarizeWeek evaluates h over every date in week. Every day is judged by
// the single definition h; SummarizeHabitWeek follows mid-week edits.
func SummarizeWeek(h models.ComputedHabit, lookup MeasurementLookup, week []string) WeekSummary {
	s := WeekSummary{
		HabitID:       h.ID,
		Days:          make([]bool, len(week)),
		CompletionDay: -1,
	}

	if h.IsWeekly {
		s.CompletionDay = CompletionDay(&h, lookup, week)
		if s.CompletionDay >= 0 {
			s.Days[s.CompletionDay] = true
			s.CompletedDays = 1
			s.GoalMet = true
			if scorable(h) {
				s.Points = h.Points
			}
		}
		return s
	}

	for i, date := range week {
		if GetHabitCompletion(&h, lookup, []string{date}).Complete {
			s.Days[i] = true
			s.CompletedDays++
			if scorable(h) {
				s.Points += h.Points
			}
		}
	}
	s.GoalMet = h.DaysPerWeek > 0 && s.CompletedDays >= h.DaysPerWeek
	return s
}

// SummarizeHabitWeek is SummarizeWeek for an update log. Each day of a daily
// habit is judged by the definition in effect on that day, so the result is
// the same whichever day of the week asOf names. Weekly habits accumulate
// across the week and use the definition as of asOf.
func SummarizeHabitWeek(h models.Habit, asOf string, lookup MeasurementLookup, week []string) WeekSummary {
	current := ComputeHabit(h, asOf)
	if current.IsWeekly {
		return SummarizeWeek(current, lookup, week)
	}

	s := WeekSummary{
		HabitID:       h.ID,
		Days:          make([]bool, len(week)),
		CompletionDay: -1,
	}
	goal := current
	for i, date := range week {
		day := ComputeHabit(h, date)
		if day.Name != "" {
			goal = day
		}
		if day.Name == "" || day.Archived || day.IsWeekly {
			continue
		}
		if GetHabitCompletion(&day, lookup, []string{date}).Complete {
			s.Days[i] = true
			s.CompletedDays++
			if scorable(day) {
				s.Points += day.Points
			}
		}
	}
	s.GoalMet = goal.DaysPerWeek > 0 && s.CompletedDays >= goal.DaysPerWeek
	return s
}

// SortForDisplay orders habits by priority, then name.
func SortForDisplay(habits []models.ComputedHabit) {
	sort.SliceStable(habits, func(i, j int) bool {
		if habits[i].Priority != habits[j].Priority {
			return habits[i].Priority < habits[j].Priority
		}
		return habits[i].Name < habits[j].Name
	})
}
