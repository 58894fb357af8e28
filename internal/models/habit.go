package models

import "time"

// Operator compares an aggregated measurement value against a condition target
type Operator string

const (
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
)

// Operators lists every supported operator. Two-character operators come
// first so that prefix matching never mistakes ">=" for ">".
var Operators = []Operator{
	OpGreaterOrEqual,
	OpLessOrEqual,
	OpEqual,
	OpNotEqual,
	OpGreater,
	OpLess,
}

// Valid reports whether o is one of the supported operators
func (o Operator) Valid() bool {
	for _, op := range Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Predicate combines the results of a habit's conditions
type Predicate string

const (
	// PredicateUnset is the value of a habit whose predicate was never configured.
	// It evaluates like PredicateAnd.
	PredicateUnset Predicate = ""
	PredicateAnd   Predicate = "AND"
	PredicateOr    Predicate = "OR"
)

// Valid reports whether p is AND or OR
func (p Predicate) Valid() bool {
	return p == PredicateAnd || p == PredicateOr
}

// Condition is a single measurement threshold a habit must satisfy
type Condition struct {
	MeasurementID string   `json:"measurement_id" yaml:"measurement_id" validate:"required"`
	Operator      Operator `json:"operator" yaml:"operator" validate:"required,oneof=>= <= > < == !="`
	Target        float64  `json:"target" yaml:"target"`
}

// HabitUpdate is a dated partial patch to a habit definition.
// Nil fields were not changed at Date.
type HabitUpdate struct {
	Date        string       `json:"date" yaml:"date"` // YYYY-MM-DD format
	Name        *string      `json:"name,omitempty" yaml:"name,omitempty"`
	IsWeekly    *bool        `json:"is_weekly,omitempty" yaml:"is_weekly,omitempty"`
	DaysPerWeek *int         `json:"days_per_week,omitempty" yaml:"days_per_week,omitempty"`
	Points      *int         `json:"points,omitempty" yaml:"points,omitempty"`
	Archived    *bool        `json:"archived,omitempty" yaml:"archived,omitempty"`
	Conditions  *[]Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Predicate   *Predicate   `json:"predicate,omitempty" yaml:"predicate,omitempty"`
	Priority    *int         `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Habit is a recurring goal. Its definition lives entirely in Updates.
type Habit struct {
	ID        string        `json:"id" yaml:"id"`
	UserID    string        `json:"user_id" yaml:"user_id"`
	Updates   []HabitUpdate `json:"updates" yaml:"updates"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	DeletedAt *time.Time    `json:"deleted_at,omitempty" yaml:"deleted_at,omitempty"`
}

// ComputedHabit is a habit definition materialized as of a given date.
// Fields that were never set hold the sentinels returned by NewComputedHabit.
type ComputedHabit struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Updates     []HabitUpdate `json:"updates"`
	Name        string        `json:"name" validate:"required"`
	IsWeekly    bool          `json:"is_weekly"`
	DaysPerWeek int           `json:"days_per_week" validate:"min=1,max=7"`
	Points      int           `json:"points" validate:"min=0"`
	Archived    bool          `json:"archived"`
	Conditions  []Condition   `json:"conditions" validate:"min=1,dive"`
	Predicate   Predicate     `json:"predicate" validate:"oneof=AND OR"`
	Priority    int           `json:"priority" validate:"min=0"`
}

// Sentinel values for never-configured fields
const (
	UnsetDaysPerWeek = -1
	UnsetPoints      = -1
	UnsetPriority    = -1
)

// NewComputedHabit returns a habit with every field at its "never configured" sentinel
func NewComputedHabit() ComputedHabit {
	return ComputedHabit{
		Updates:     []HabitUpdate{},
		DaysPerWeek: UnsetDaysPerWeek,
		Points:      UnsetPoints,
		Conditions:  []Condition{},
		Predicate:   PredicateUnset,
		Priority:    UnsetPriority,
	}
}
