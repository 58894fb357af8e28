package habit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/tally/internal/models"
)

// ConditionExpr is a condition as typed by a user, naming its measurement
type ConditionExpr struct {
	Measurement string
	Operator    models.Operator
	Target      float64
}

// ParseCondition parses expressions like "steps>=10000" or "coffee == 0".
func ParseCondition(expr string) (ConditionExpr, error) {
	s := strings.TrimSpace(expr)
	for _, op := range models.Operators {
		idx := strings.Index(s, string(op))
		if idx <= 0 {
			continue
		}
		name := strings.TrimSpace(s[:idx])
		rawTarget := strings.TrimSpace(s[idx+len(op):])
		target, err := strconv.ParseFloat(rawTarget, 64)
		if err != nil {
			return ConditionExpr{}, fmt.Errorf("invalid target %q in condition %q", rawTarget, expr)
		}
		if name == "" {
			return ConditionExpr{}, fmt.Errorf("missing measurement in condition %q", expr)
		}
		return ConditionExpr{Measurement: name, Operator: op, Target: target}, nil
	}
	return ConditionExpr{}, fmt.Errorf("condition %q must look like <measurement><op><target> with op one of >= <= > < == !=", expr)
}

// FormatCondition renders a condition using the given measurement name.
func FormatCondition(cond models.Condition, measurementName string) string {
	return fmt.Sprintf("%s %s %s", measurementName, cond.Operator, strconv.FormatFloat(cond.Target, 'f', -1, 64))
}

// ParsePredicate accepts "and" or "or" in any case.
func ParsePredicate(s string) (models.Predicate, error) {
	p := models.Predicate(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return models.PredicateUnset, fmt.Errorf("predicate must be AND or OR, got %q", s)
	}
	return p, nil
}
