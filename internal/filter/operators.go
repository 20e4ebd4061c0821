// Package filter evaluates user-defined multi-condition filters against
// enriched game logs and validates filter definitions before use.
package filter

import (
	"reflect"

	"github.com/proplab/proplab/internal/domain"
)

// EvaluateCondition applies one operator to the actual value drawn from a
// game log and the condition's expected operand. It never panics and fails
// closed on type mismatches, with one deliberate exception: not_in with a
// malformed operand fails open, so a misconfigured exclusion list does not
// silently exclude every record.
func EvaluateCondition(op domain.Operator, actual interface{}, expected domain.Value) bool {
	switch op {
	case domain.OpEq:
		return equalValues(actual, expected.Raw())

	case domain.OpNeq:
		return !equalValues(actual, expected.Raw())

	case domain.OpGt, domain.OpGte, domain.OpLt, domain.OpLte:
		a, ok := domain.ToFloat(actual)
		if !ok {
			return false
		}
		e, ok := expected.Number()
		if !ok {
			return false
		}
		switch op {
		case domain.OpGt:
			return a > e
		case domain.OpGte:
			return a >= e
		case domain.OpLt:
			return a < e
		default:
			return a <= e
		}

	case domain.OpBetween:
		a, ok := domain.ToFloat(actual)
		if !ok {
			return false
		}
		lo, hi, ok := expected.Pair()
		if !ok {
			return false
		}
		// Bounds are inclusive and never reordered: an inverted pair
		// matches nothing.
		return a >= lo && a <= hi

	case domain.OpIn:
		items, ok := expected.List()
		if !ok {
			return false
		}
		return containsValue(items, actual)

	case domain.OpNotIn:
		items, ok := expected.List()
		if !ok {
			return true
		}
		return !containsValue(items, actual)
	}

	// Unrecognized operators never match.
	return false
}

func containsValue(items []interface{}, actual interface{}) bool {
	for _, item := range items {
		if equalValues(actual, item) {
			return true
		}
	}
	return false
}

// equalValues compares exactly, with numerics compared numerically so an
// int-encoded 20 equals a float-encoded 20.0.
func equalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, aOK := domain.ToFloat(a); aOK {
		bf, bOK := domain.ToFloat(b)
		return bOK && af == bf
	}
	if _, bOK := domain.ToFloat(b); bOK {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}
