package domain

import (
	"errors"
	"fmt"
)

// Operator identifies a condition comparison.
type Operator string

const (
	OpEq      Operator = "eq"
	OpNeq     Operator = "neq"
	OpGt      Operator = "gt"
	OpGte     Operator = "gte"
	OpLt      Operator = "lt"
	OpLte     Operator = "lte"
	OpBetween Operator = "between"
	OpIn      Operator = "in"
	OpNotIn   Operator = "not_in"
)

var knownOperators = map[Operator]struct{}{
	OpEq: {}, OpNeq: {}, OpGt: {}, OpGte: {}, OpLt: {}, OpLte: {},
	OpBetween: {}, OpIn: {}, OpNotIn: {},
}

// Known reports whether the operator is one the evaluator understands.
func (op Operator) Known() bool {
	_, ok := knownOperators[op]
	return ok
}

// Numeric reports whether the operator orders its operands numerically.
func (op Operator) Numeric() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte, OpBetween:
		return true
	default:
		return false
	}
}

// Symbol returns the display form used in filter summaries.
func (op Operator) Symbol() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpBetween:
		return "between"
	case OpIn:
		return "in"
	case OpNotIn:
		return "not in"
	default:
		return string(op)
	}
}

// Direction is the betting side a filter simulates.
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// Valid reports whether the direction is one of the two betting sides.
func (d Direction) Valid() bool {
	return d == DirectionOver || d == DirectionUnder
}

// FilterCondition is one (field, operator, value) triple. Label and Category
// are display-only. Conditions are immutable once evaluated.
type FilterCondition struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    Value    `json:"value" yaml:"value"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
}

// NewCondition builds a condition, rejecting operator/value arity mismatches
// up front. Conditions decoded straight from YAML/JSON bypass this check and
// fall back on the evaluator's fail-closed runtime semantics.
func NewCondition(field string, op Operator, value Value) (FilterCondition, error) {
	if field == "" {
		return FilterCondition{}, errors.New("condition field is required")
	}
	if err := CheckOperatorValue(op, value); err != nil {
		return FilterCondition{}, err
	}
	return FilterCondition{Field: field, Operator: op, Value: value}, nil
}

// CheckOperatorValue verifies that a value's shape fits the operator's arity:
// ordering operators need a number, between needs an ordered pair, membership
// operators need a list.
func CheckOperatorValue(op Operator, v Value) error {
	if !op.Known() {
		return fmt.Errorf("unknown operator %q", op)
	}
	if v.IsZero() {
		return errors.New("value is required")
	}
	switch op {
	case OpGt, OpGte, OpLt, OpLte:
		if _, ok := v.Number(); !ok {
			return fmt.Errorf("operator %q requires a numeric value", op)
		}
	case OpBetween:
		if _, _, ok := v.Pair(); !ok {
			return errors.New(`operator "between" requires a [low, high] pair`)
		}
	case OpIn, OpNotIn:
		if _, ok := v.List(); !ok {
			return fmt.Errorf("operator %q requires a list of values", op)
		}
	}
	return nil
}

// CustomFilter is a named, ordered, AND-combined set of conditions plus the
// betting direction it simulates. Condition order affects only short-circuit
// cost, never the outcome.
type CustomFilter struct {
	Name       string            `json:"name" yaml:"name"`
	Sport      string            `json:"sport,omitempty" yaml:"sport,omitempty"`
	Direction  Direction         `json:"direction,omitempty" yaml:"direction,omitempty"`
	Conditions []FilterCondition `json:"conditions" yaml:"conditions"`
}

// BetDirection resolves the filter's direction, defaulting to over.
func (f CustomFilter) BetDirection() Direction {
	if f.Direction == DirectionUnder {
		return DirectionUnder
	}
	return DirectionOver
}

// FilterMatch explains one passed condition of a full filter match.
type FilterMatch struct {
	Field     string `json:"field"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	Threshold string `json:"threshold"`
}
