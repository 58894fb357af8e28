// Package habit reconstructs habit definitions from their update logs and
// evaluates them against measurement recordings.
package habit

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
)

// ComputeHabit replays the updates of h dated on or before asOf and returns
// the resulting definition. Fields never set keep their sentinel values.
func ComputeHabit(h models.Habit, asOf string) models.ComputedHabit {
	// YYYY-MM-DD is fixed width, so string order is date order
	applicable := lo.Filter(h.Updates, func(u models.HabitUpdate, _ int) bool {
		return u.Date <= asOf
	})
	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Date < applicable[j].Date
	})

	computed := models.NewComputedHabit()
	computed.ID = h.ID
	computed.UserID = h.UserID
	if h.Updates != nil {
		computed.Updates = h.Updates
	}
	for _, u := range applicable {
		computed = ApplyUpdate(computed, u)
	}

	if computed.ID == "" || computed.UserID == "" {
		logger.Error("habit is missing identity", "habit_id", computed.ID, "user_id", computed.UserID, "as_of", asOf)
	}

	return computed
}

// ComputeHabitToday replays h as of the current date in loc.
func ComputeHabitToday(h models.Habit, loc *time.Location) models.ComputedHabit {
	if loc == nil {
		loc = time.Local
	}
	return ComputeHabit(h, time.Now().In(loc).Format(constants.DateFormat))
}

// ApplyUpdate assigns every field set in u onto acc.
func ApplyUpdate(acc models.ComputedHabit, u models.HabitUpdate) models.ComputedHabit {
	if u.Name != nil {
		acc.Name = *u.Name
	}
	if u.IsWeekly != nil {
		acc.IsWeekly = *u.IsWeekly
	}
	if u.DaysPerWeek != nil {
		acc.DaysPerWeek = *u.DaysPerWeek
	}
	if u.Points != nil {
		acc.Points = *u.Points
	}
	if u.Archived != nil {
		acc.Archived = *u.Archived
	}
	if u.Conditions != nil {
		acc.Conditions = copyConditions(*u.Conditions)
	}
	if u.Predicate != nil {
		acc.Predicate = *u.Predicate
	}
	if u.Priority != nil {
		acc.Priority = *u.Priority
	}
	return acc
}

func copyConditions(conditions []models.Condition) []models.Condition {
	out := make([]models.Condition, len(conditions))
	copy(out, conditions)
	return out
}
