package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/tally/internal/models"
)

func validHabit() models.ComputedHabit {
	return models.ComputedHabit{
		ID:          "h",
		UserID:      "u",
		Name:        "Walk",
		DaysPerWeek: 5,
		Points:      1,
		Conditions:  []models.Condition{{MeasurementID: "steps", Operator: models.OpGreaterOrEqual, Target: 8000}},
		Predicate:   models.PredicateAnd,
		Priority:    0,
	}
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(h *models.ComputedHabit)
		wantField string
	}{
		{name: "valid", mutate: func(h *models.ComputedHabit) {}},
		{name: "OR predicate", mutate: func(h *models.ComputedHabit) { h.Predicate = models.PredicateOr }},
		{name: "every operator", mutate: func(h *models.ComputedHabit) {
			h.Conditions = nil
			for _, op := range models.Operators {
				h.Conditions = append(h.Conditions, models.Condition{MeasurementID: "m", Operator: op})
			}
		}},
		{name: "missing name", mutate: func(h *models.ComputedHabit) { h.Name = "" }, wantField: "name"},
		{name: "unset predicate", mutate: func(h *models.ComputedHabit) { h.Predicate = models.PredicateUnset }, wantField: "predicate"},
		{name: "unknown predicate", mutate: func(h *models.ComputedHabit) { h.Predicate = "XOR" }, wantField: "predicate"},
		{name: "no conditions", mutate: func(h *models.ComputedHabit) { h.Conditions = []models.Condition{} }, wantField: "conditions"},
		{name: "unknown operator", mutate: func(h *models.ComputedHabit) { h.Conditions[0].Operator = "=>" }, wantField: "condition operator"},
		{name: "missing measurement", mutate: func(h *models.ComputedHabit) { h.Conditions[0].MeasurementID = "" }, wantField: "condition measurement"},
		{name: "days per week too high", mutate: func(h *models.ComputedHabit) { h.DaysPerWeek = 8 }, wantField: "days per week"},
		{name: "days per week unset", mutate: func(h *models.ComputedHabit) { h.DaysPerWeek = models.UnsetDaysPerWeek }, wantField: "days per week"},
		{name: "negative points", mutate: func(h *models.ComputedHabit) { h.Points = -1 }, wantField: "points"},
		{name: "negative priority", mutate: func(h *models.ComputedHabit) { h.Priority = -3 }, wantField: "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHabit()
			tt.mutate(&h)
			err := ValidateDefinition(h)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid habit, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q", tt.wantField)
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantField)
			}
		})
	}
}

func TestValidateMeasurement(t *testing.T) {
	valid := models.Measurement{ID: "m", Name: "steps", Type: models.MeasurementCount}
	if err := ValidateMeasurement(valid); err != nil {
		t.Fatalf("expected valid measurement, got %v", err)
	}

	bad := valid
	bad.Type = "percentage"
	err := ValidateMeasurement(bad)
	if err == nil || !strings.Contains(err.Error(), "type must be one of") {
		t.Errorf("expected type error, got %v", err)
	}

	bad = valid
	bad.Name = ""
	if err := ValidateMeasurement(bad); err == nil {
		t.Error("expected missing name to fail")
	}
}
