package habit

import (
	"math"

	"github.com/samber/lo"

	"github.com/julianstephens/tally/internal/models"
)

// Completion is the evaluation of a habit over a window of dates.
// The per-condition slices are parallel to the habit's Conditions.
type Completion struct {
	Complete              bool
	ConditionCompletions  []bool
	ConditionValues       []*float64 // nil when the window has no recordings
	ConditionProgressions []float64  // in [0, 1], for display only
}

// GetHabitCompletion evaluates h against the recordings on dates. Values on
// multiple dates are summed, so a single date checks one day and a week of
// dates checks the cumulative weekly total.
func GetHabitCompletion(h *models.ComputedHabit, lookup MeasurementLookup, dates []string) Completion {
	if h == nil || len(h.Conditions) == 0 {
		return Completion{
			ConditionCompletions:  []bool{},
			ConditionValues:       []*float64{},
			ConditionProgressions: []float64{},
		}
	}

	n := len(h.Conditions)
	c := Completion{
		ConditionCompletions:  make([]bool, n),
		ConditionValues:       make([]*float64, n),
		ConditionProgressions: make([]float64, n),
	}

	for i, cond := range h.Conditions {
		value, ok := windowTotal(lookup, cond.MeasurementID, dates)
		if !ok {
			continue
		}
		c.ConditionValues[i] = lo.ToPtr(value)
		c.ConditionCompletions[i], c.ConditionProgressions[i] = evaluateCondition(cond, value)
	}

	if h.Predicate == models.PredicateOr {
		c.Complete = lo.Contains(c.ConditionCompletions, true)
	} else {
		c.Complete = !lo.Contains(c.ConditionCompletions, false)
	}

	return c
}

// windowTotal sums the recordings of measurementID over dates. ok is false
// when none of the dates has a recording.
func windowTotal(lookup MeasurementLookup, measurementID string, dates []string) (float64, bool) {
	if lookup == nil {
		return 0, false
	}
	total := 0.0
	found := false
	for _, date := range dates {
		v, ok := lookup.Value(measurementID, date)
		if !ok {
			continue
		}
		total += v
		found = true
	}
	return total, found
}

func evaluateCondition(cond models.Condition, value float64) (complete bool, progress float64) {
	target := cond.Target

	switch cond.Operator {
	case models.OpGreaterOrEqual:
		return value >= target, ratio(value, target)
	case models.OpGreater:
		return value > target, ratio(value, target)
	case models.OpLess:
		return value < target, ratio(value, target)
	case models.OpLessOrEqual:
		if target == 0 && value == 0 {
			return true, 1
		}
		return value <= target, ratio(value, target)
	case models.OpEqual:
		if target == 0 && value == 0 {
			return true, 1
		}
		return value == target, ratio(value, target)
	case models.OpNotEqual:
		return value != target, ratio(value, target)
	default:
		return false, 0
	}
}

// ratio is value/target capped to [0, 1]; NaN and infinities become 0.
func ratio(value, target float64) float64 {
	r := math.Min(value/target, 1)
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return 0
	}
	return r
}

// CompletionDay returns the index of the first date in week at which the
// cumulative window completes h, or -1 if it never does.
func CompletionDay(h *models.ComputedHabit, lookup MeasurementLookup, week []string) int {
	for i := range week {
		if GetHabitCompletion(h, lookup, week[:i+1]).Complete {
			return i
		}
	}
	return -1
}
