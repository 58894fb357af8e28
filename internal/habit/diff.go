package habit

import (
	"github.com/samber/lo"

	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

// ConstructHabitUpdate returns the smallest update that turns previous into
// current. Identity and the update log itself are never part of the patch.
func ConstructHabitUpdate(current, previous models.ComputedHabit, date string) models.HabitUpdate {
	u := models.HabitUpdate{Date: date}

	if current.Name != previous.Name {
		u.Name = lo.ToPtr(current.Name)
	}
	if current.IsWeekly != previous.IsWeekly {
		u.IsWeekly = lo.ToPtr(current.IsWeekly)
	}
	if current.DaysPerWeek != previous.DaysPerWeek {
		u.DaysPerWeek = lo.ToPtr(current.DaysPerWeek)
	}
	if current.Points != previous.Points {
		u.Points = lo.ToPtr(current.Points)
	}
	if current.Archived != previous.Archived {
		u.Archived = lo.ToPtr(current.Archived)
	}
	if conditionsChanged(current.Conditions, previous.Conditions) {
		conditions := copyConditions(current.Conditions)
		u.Conditions = &conditions
	}
	if current.Predicate != previous.Predicate {
		u.Predicate = lo.ToPtr(current.Predicate)
	}
	if current.Priority != previous.Priority {
		u.Priority = lo.ToPtr(current.Priority)
	}

	return u
}

// conditionsChanged compares position by position, so reordering counts as a change.
func conditionsChanged(a, b []models.Condition) bool {
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i].MeasurementID != b[i].MeasurementID ||
			a[i].Operator != b[i].Operator ||
			a[i].Target != b[i].Target {
			return true
		}
	}
	return false
}

// IsEmptyHabitUpdate reports whether u changes nothing besides its date.
func IsEmptyHabitUpdate(u models.HabitUpdate) bool {
	return u.Name == nil &&
		u.IsWeekly == nil &&
		u.DaysPerWeek == nil &&
		u.Points == nil &&
		u.Archived == nil &&
		u.Conditions == nil &&
		u.Predicate == nil &&
		u.Priority == nil
}

// CommitEdit records current as the definition of h starting at date.
// An existing update for date is replaced in place, or dropped when the
// edit restores the definition of the previous day.
func CommitEdit(h models.Habit, current models.ComputedHabit, date string) (models.Habit, error) {
	dayBefore, err := utils.PreviousDay(date)
	if err != nil {
		return h, err
	}

	previous := ComputeHabit(h, dayBefore)
	update := ConstructHabitUpdate(current, previous, date)
	empty := IsEmptyHabitUpdate(update)

	_, idx, exists := lo.FindIndexOf(h.Updates, func(u models.HabitUpdate) bool {
		return u.Date == date
	})

	updates := make([]models.HabitUpdate, 0, len(h.Updates)+1)
	switch {
	case exists && empty:
		updates = append(updates, h.Updates[:idx]...)
		updates = append(updates, h.Updates[idx+1:]...)
		logger.Debug("edit matches previous day, removing update", "habit_id", h.ID, "date", date)
	case exists:
		updates = append(updates, h.Updates...)
		updates[idx] = update
	case empty:
		updates = append(updates, h.Updates...)
	default:
		updates = append(updates, h.Updates...)
		updates = append(updates, update)
	}

	h.Updates = updates
	return h, nil
}
