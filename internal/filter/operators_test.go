package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/proplab/proplab/internal/domain"
)

func TestEvaluateConditionEquality(t *testing.T) {
	tests := []struct {
		name     string
		op       domain.Operator
		actual   interface{}
		expected domain.Value
		want     bool
	}{
		{"eq numbers", domain.OpEq, 20.0, domain.NumberValue(20), true},
		{"eq int vs float", domain.OpEq, 20, domain.NumberValue(20.0), true},
		{"eq numbers unequal", domain.OpEq, 19.5, domain.NumberValue(20), false},
		{"eq strings", domain.OpEq, "BOS", domain.ScalarValue("BOS"), true},
		{"eq strings unequal", domain.OpEq, "BOS", domain.ScalarValue("LAL"), false},
		{"eq bools", domain.OpEq, true, domain.ScalarValue(true), true},
		{"eq mixed types", domain.OpEq, "20", domain.NumberValue(20), false},
		{"eq nil both", domain.OpEq, nil, domain.Value{}, true},
		{"eq nil actual", domain.OpEq, nil, domain.NumberValue(20), false},
		{"neq numbers", domain.OpNeq, 19.0, domain.NumberValue(20), true},
		{"neq equal numbers", domain.OpNeq, 20.0, domain.NumberValue(20), false},
		{"neq mixed types", domain.OpNeq, "20", domain.NumberValue(20), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCondition(tt.op, tt.actual, tt.expected)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateConditionOrdering(t *testing.T) {
	tests := []struct {
		name     string
		op       domain.Operator
		actual   interface{}
		expected domain.Value
		want     bool
	}{
		{"gt above", domain.OpGt, 21.0, domain.NumberValue(20), true},
		{"gt equal", domain.OpGt, 20.0, domain.NumberValue(20), false},
		{"gte equal", domain.OpGte, 20.0, domain.NumberValue(20), true},
		{"gte below", domain.OpGte, 19.9, domain.NumberValue(20), false},
		{"lt below", domain.OpLt, 19.0, domain.NumberValue(20), true},
		{"lt equal", domain.OpLt, 20.0, domain.NumberValue(20), false},
		{"lte equal", domain.OpLte, 20.0, domain.NumberValue(20), true},
		{"lte above", domain.OpLte, 20.1, domain.NumberValue(20), false},
		{"gt int actual", domain.OpGt, 25, domain.NumberValue(20), true},
		{"gt string actual fails closed", domain.OpGt, "25", domain.NumberValue(20), false},
		{"gt nil actual fails closed", domain.OpGt, nil, domain.NumberValue(20), false},
		{"gt bool actual fails closed", domain.OpGt, true, domain.NumberValue(0), false},
		{"gte non-numeric expected fails closed", domain.OpGte, 25.0, domain.ScalarValue("high"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCondition(tt.op, tt.actual, tt.expected)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateConditionBetween(t *testing.T) {
	rng := domain.RangeValue(25, 30)

	tests := []struct {
		name     string
		actual   interface{}
		expected domain.Value
		want     bool
	}{
		{"inside", 27.0, rng, true},
		{"lower bound inclusive", 25.0, rng, true},
		{"upper bound inclusive", 30.0, rng, true},
		{"just below", 24.9, rng, false},
		{"just above", 30.1, rng, false},
		{"inverted bounds never match", 27.0, domain.RangeValue(30, 25), false},
		{"inverted bounds low end", 25.0, domain.RangeValue(30, 25), false},
		{"inverted bounds high end", 30.0, domain.RangeValue(30, 25), false},
		{"three elements", 27.0, domain.ListValue(25.0, 27.0, 30.0), false},
		{"non-numeric element", 27.0, domain.ListValue(25.0, "30"), false},
		{"scalar operand", 27.0, domain.NumberValue(25), false},
		{"non-numeric actual", "27", rng, false},
		{"nil actual", nil, rng, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCondition(domain.OpBetween, tt.actual, tt.expected)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateConditionMembership(t *testing.T) {
	positions := domain.ListValue("G", "F")
	numbers := domain.ListValue(1, 2.0, 3)

	tests := []struct {
		name     string
		op       domain.Operator
		actual   interface{}
		expected domain.Value
		want     bool
	}{
		{"in present", domain.OpIn, "G", positions, true},
		{"in absent", domain.OpIn, "C", positions, false},
		{"in numeric cross-typed", domain.OpIn, 2, numbers, true},
		{"in numeric absent", domain.OpIn, 4.0, numbers, false},
		{"in malformed operand fails closed", domain.OpIn, "G", domain.ScalarValue("G"), false},
		{"in empty value fails closed", domain.OpIn, "G", domain.Value{}, false},
		{"not_in absent", domain.OpNotIn, "C", positions, true},
		{"not_in present", domain.OpNotIn, "G", positions, false},
		{"not_in malformed operand fails open", domain.OpNotIn, "G", domain.ScalarValue("G"), true},
		{"not_in empty value fails open", domain.OpNotIn, "G", domain.Value{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCondition(tt.op, tt.actual, tt.expected)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateConditionUnknownOperator(t *testing.T) {
	assert.False(t, EvaluateCondition(domain.Operator("regex"), "abc", domain.ScalarValue("a.*")))
	assert.False(t, EvaluateCondition(domain.Operator(""), 20.0, domain.NumberValue(20)))
}

func TestEqualValuesUncomparableTypes(t *testing.T) {
	a := []interface{}{"G", "F"}
	b := []interface{}{"G", "F"}

	assert.True(t, EvaluateCondition(domain.OpEq, a, domain.ScalarValue(b)))
	assert.False(t, EvaluateCondition(domain.OpEq, a, domain.ScalarValue([]interface{}{"G"})))
}
