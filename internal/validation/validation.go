package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/tally/internal/models"
)

// validate is shared; validator caches struct metadata per instance.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Problem describes one invalid field
type Problem struct {
	Field   string
	Message string
}

// Error is returned when a definition fails validation
type Error struct {
	Subject  string
	Problems []Problem
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Subject, strings.Join(msgs, "; "))
}

// ValidateDefinition checks a habit definition before it is committed.
// The predicate must be AND or OR, and every condition must name a
// measurement and use a known operator.
func ValidateDefinition(h models.ComputedHabit) error {
	return check("habit", h)
}

// ValidateMeasurement checks a measurement definition.
func ValidateMeasurement(m models.Measurement) error {
	return check("measurement", m)
}

func check(subject string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &Error{Subject: subject}
	for _, fe := range fieldErrs {
		out.Problems = append(out.Problems, Problem{
			Field:   fe.Namespace(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	field := fieldLabel(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s needs at least %s entry", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

var labels = map[string]string{
	"Name":          "name",
	"DaysPerWeek":   "days per week",
	"Points":        "points",
	"Priority":      "priority",
	"Predicate":     "predicate",
	"Conditions":    "conditions",
	"MeasurementID": "condition measurement",
	"Operator":      "condition operator",
	"Type":          "type",
	"Unit":          "unit",
}

func fieldLabel(fe validator.FieldError) string {
	if l, ok := labels[fe.StructField()]; ok {
		return l
	}
	return strings.ToLower(fe.StructField())
}
