package habit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tally/internal/models"
)

func singleCondition(op models.Operator, target float64) *models.ComputedHabit {
	h := models.NewComputedHabit()
	h.ID, h.UserID, h.Name = "h", "u", "test"
	h.Predicate = models.PredicateAnd
	h.Conditions = []models.Condition{{MeasurementID: "m1", Operator: op, Target: target}}
	return &h
}

func lookupOf(values map[string]float64) MapLookup {
	return MapLookup{"m1": values}
}

func TestGetHabitCompletionShortCircuits(t *testing.T) {
	empty := models.NewComputedHabit()
	for name, h := range map[string]*models.ComputedHabit{"nil habit": nil, "no conditions": &empty} {
		t.Run(name, func(t *testing.T) {
			c := GetHabitCompletion(h, MapLookup{}, []string{"2024-01-01"})
			assert.False(t, c.Complete)
			assert.NotNil(t, c.ConditionCompletions)
			assert.Empty(t, c.ConditionCompletions)
			assert.Empty(t, c.ConditionValues)
			assert.Empty(t, c.ConditionProgressions)
		})
	}
}

func TestGetHabitCompletionScenarios(t *testing.T) {
	tests := []struct {
		name         string
		habit        *models.ComputedHabit
		values       map[string]float64
		dates        []string
		wantComplete bool
		wantValue    float64
		wantProgress float64
	}{
		{
			name:         "target met",
			habit:        singleCondition(models.OpGreaterOrEqual, 10),
			values:       map[string]float64{"2024-01-01": 12},
			dates:        []string{"2024-01-01"},
			wantComplete: true,
			wantValue:    12,
			wantProgress: 1,
		},
		{
			name:         "target missed",
			habit:        singleCondition(models.OpGreaterOrEqual, 10),
			values:       map[string]float64{"2024-01-01": 5},
			dates:        []string{"2024-01-01"},
			wantComplete: false,
			wantValue:    5,
			wantProgress: 0.5,
		},
		{
			name:         "weekly window sums and skips missing days",
			habit:        singleCondition(models.OpGreaterOrEqual, 7),
			values:       map[string]float64{"2024-01-01": 3, "2024-01-02": 4},
			dates:        []string{"2024-01-01", "2024-01-02", "2024-01-03"},
			wantComplete: true,
			wantValue:    7,
			wantProgress: 1,
		},
		{
			name:         "zero target with <= and zero value",
			habit:        singleCondition(models.OpLessOrEqual, 0),
			values:       map[string]float64{"2024-01-01": 0, "2024-01-02": 0},
			dates:        []string{"2024-01-01", "2024-01-02"},
			wantComplete: true,
			wantValue:    0,
			wantProgress: 1,
		},
		{
			name:         "zero target with == and zero value",
			habit:        singleCondition(models.OpEqual, 0),
			values:       map[string]float64{"2024-01-01": 0},
			dates:        []string{"2024-01-01"},
			wantComplete: true,
			wantValue:    0,
			wantProgress: 1,
		},
		{
			name:         "zero target with <= exceeded",
			habit:        singleCondition(models.OpLessOrEqual, 0),
			values:       map[string]float64{"2024-01-01": 2},
			dates:        []string{"2024-01-01"},
			wantComplete: false,
			wantValue:    2,
			wantProgress: 1,
		},
		{
			name:         "<= under target",
			habit:        singleCondition(models.OpLessOrEqual, 4),
			values:       map[string]float64{"2024-01-01": 1},
			dates:        []string{"2024-01-01"},
			wantComplete: true,
			wantValue:    1,
			wantProgress: 0.25,
		},
		{
			name:         "== exact match",
			habit:        singleCondition(models.OpEqual, 8),
			values:       map[string]float64{"2024-01-01": 8},
			dates:        []string{"2024-01-01"},
			wantComplete: true,
			wantValue:    8,
			wantProgress: 1,
		},
		{
			name:         "== has no tolerance",
			habit:        singleCondition(models.OpEqual, 0.3),
			values:       map[string]float64{"2024-01-01": 0.1, "2024-01-02": 0.2},
			dates:        []string{"2024-01-01", "2024-01-02"},
			wantComplete: false,
			wantValue:    0.1 + 0.2,
			wantProgress: 1,
		},
		{
			name:         "!= differs",
			habit:        singleCondition(models.OpNotEqual, 3),
			values:       map[string]float64{"2024-01-01": 6},
			dates:        []string{"2024-01-01"},
			wantComplete: true,
			wantValue:    6,
			wantProgress: 1,
		},
		{
			name:         "!= zero target and zero value",
			habit:        singleCondition(models.OpNotEqual, 0),
			values:       map[string]float64{"2024-01-01": 0},
			dates:        []string{"2024-01-01"},
			wantComplete: false,
			wantValue:    0,
			wantProgress: 0,
		},
		{
			name:         "> strict",
			habit:        singleCondition(models.OpGreater, 10),
			values:       map[string]float64{"2024-01-01": 10},
			dates:        []string{"2024-01-01"},
			wantComplete: false,
			wantValue:    10,
			wantProgress: 1,
		},
		{
			name:         "< strict",
			habit:        singleCondition(models.OpLess, 10),
			values:       map[string]float64{"2024-01-01": 5},
			dates:        []string{"2024-01-01"},
			wantComplete: true,
			wantValue:    5,
			wantProgress: 0.5,
		},
		{
			name:         ">= zero target with zero value has no progress",
			habit:        singleCondition(models.OpGreaterOrEqual, 0),
			values:       map[string]float64{"2024-01-01": 0},
			dates:        []string{"2024-01-01"},
			wantComplete: true,
			wantValue:    0,
			wantProgress: 0,
		},
		{
			name:         "negative total clamps progress",
			habit:        singleCondition(models.OpLess, 5),
			values:       map[string]float64{"2024-01-01": -2},
			dates:        []string{"2024-01-01"},
			wantComplete: true,
			wantValue:    -2,
			wantProgress: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := GetHabitCompletion(tt.habit, lookupOf(tt.values), tt.dates)
			assert.Equal(t, tt.wantComplete, c.Complete)
			require.Len(t, c.ConditionCompletions, 1)
			assert.Equal(t, tt.wantComplete, c.ConditionCompletions[0])
			require.NotNil(t, c.ConditionValues[0])
			assert.InDelta(t, tt.wantValue, *c.ConditionValues[0], 1e-12)
			assert.InDelta(t, tt.wantProgress, c.ConditionProgressions[0], 1e-12)
			assert.False(t, math.IsNaN(c.ConditionProgressions[0]))
		})
	}
}

func TestGetHabitCompletionMissingData(t *testing.T) {
	h := singleCondition(models.OpLessOrEqual, 0)

	for name, dates := range map[string][]string{
		"no dates":        {},
		"no recordings":   {"2024-01-05", "2024-01-06"},
		"other dates set": {"2024-01-02"},
	} {
		t.Run(name, func(t *testing.T) {
			c := GetHabitCompletion(h, lookupOf(map[string]float64{"2024-01-01": 0}), dates)
			assert.False(t, c.Complete)
			assert.Equal(t, []bool{false}, c.ConditionCompletions)
			assert.Nil(t, c.ConditionValues[0])
			assert.Equal(t, []float64{0}, c.ConditionProgressions)
		})
	}

	// a nil lookup behaves like no recordings
	c := GetHabitCompletion(h, nil, []string{"2024-01-01"})
	assert.Nil(t, c.ConditionValues[0])
}

func TestGetHabitCompletionPredicates(t *testing.T) {
	build := func(p models.Predicate) *models.ComputedHabit {
		h := models.NewComputedHabit()
		h.Predicate = p
		h.Conditions = []models.Condition{
			{MeasurementID: "steps", Operator: models.OpGreaterOrEqual, Target: 10000},
			{MeasurementID: "coffee", Operator: models.OpLessOrEqual, Target: 2},
		}
		return &h
	}
	lookup := MapLookup{
		"steps":  {"2024-01-01": 12000},
		"coffee": {"2024-01-01": 4},
	}
	dates := []string{"2024-01-01"}

	tests := []struct {
		predicate models.Predicate
		want      bool
	}{
		{models.PredicateAnd, false},
		{models.PredicateOr, true},
		{models.PredicateUnset, false},
		{models.Predicate("garbage"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.predicate), func(t *testing.T) {
			c := GetHabitCompletion(build(tt.predicate), lookup, dates)
			assert.Equal(t, []bool{true, false}, c.ConditionCompletions)
			assert.Equal(t, tt.want, c.Complete)
		})
	}

	// AND succeeds once every condition is satisfied
	lookup.Set("coffee", "2024-01-01", 1)
	assert.True(t, GetHabitCompletion(build(models.PredicateAnd), lookup, dates).Complete)
}

func TestCompletionDay(t *testing.T) {
	h := singleCondition(models.OpGreaterOrEqual, 10)
	week := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07"}

	lookup := lookupOf(map[string]float64{"2024-01-01": 4, "2024-01-03": 5, "2024-01-04": 1, "2024-01-06": 8})
	assert.Equal(t, 3, CompletionDay(h, lookup, week))

	assert.Equal(t, -1, CompletionDay(h, lookupOf(map[string]float64{"2024-01-01": 2}), week))
	assert.Equal(t, -1, CompletionDay(h, lookup, nil))
}

func TestLookupFunc(t *testing.T) {
	calls := 0
	lookup := LookupFunc(func(id, date string) (float64, bool) {
		calls++
		return 10, id == "m1"
	})
	c := GetHabitCompletion(singleCondition(models.OpGreaterOrEqual, 10), lookup, []string{"a", "b"})
	assert.True(t, c.Complete)
	assert.Equal(t, 20.0, *c.ConditionValues[0])
	assert.Equal(t, 2, calls)
}
