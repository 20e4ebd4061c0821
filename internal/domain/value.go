package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueKind discriminates the shapes a condition value can take.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindNumber
	KindScalar
	KindList
)

// Value is the expected operand of a FilterCondition. Exactly one shape is
// populated: a number (ordering operators), a non-numeric scalar (equality),
// or a list (membership). A 2-element all-numeric list doubles as the ordered
// pair consumed by between, since the operator disambiguates the shape.
type Value struct {
	kind ValueKind
	num  float64
	raw  interface{}
}

// NumberValue wraps a numeric operand.
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n, raw: n}
}

// ScalarValue wraps a scalar operand, routing numerics through NumberValue.
func ScalarValue(v interface{}) Value {
	if v == nil {
		return Value{}
	}
	if f, ok := ToFloat(v); ok {
		return Value{kind: KindNumber, num: f, raw: v}
	}
	return Value{kind: KindScalar, raw: v}
}

// ListValue wraps a membership list.
func ListValue(items ...interface{}) Value {
	return Value{kind: KindList, raw: items}
}

// RangeValue wraps the ordered [low, high] pair used by between.
func RangeValue(lo, hi float64) Value {
	return ListValue(lo, hi)
}

// Kind reports which shape the value carries.
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether no value was supplied.
func (v Value) IsZero() bool { return v.kind == KindNone }

// Number returns the numeric shape.
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Pair returns the ordered-pair view of a 2-element numeric list. The order
// is preserved exactly as supplied; callers decide what an inverted pair means.
func (v Value) Pair() (lo, hi float64, ok bool) {
	items, isList := v.List()
	if !isList || len(items) != 2 {
		return 0, 0, false
	}
	lo, loOK := ToFloat(items[0])
	hi, hiOK := ToFloat(items[1])
	if !loOK || !hiOK {
		return 0, 0, false
	}
	return lo, hi, true
}

// List returns the membership-list shape.
func (v Value) List() ([]interface{}, bool) {
	if v.kind != KindList {
		return nil, false
	}
	items, ok := v.raw.([]interface{})
	return items, ok
}

// Raw exposes the underlying operand for equality checks and rendering.
func (v Value) Raw() interface{} { return v.raw }

// String renders the value for match metadata and summaries.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return ""
	case KindList:
		items, _ := v.List()
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, FormatValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return FormatValue(v.raw)
	}
}

// classify builds a Value from a freshly decoded YAML/JSON operand.
func classify(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return Value{}
	case []interface{}:
		return Value{kind: KindList, raw: x}
	default:
		return ScalarValue(x)
	}
}

// UnmarshalJSON accepts a scalar or an array and classifies its shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = classify(raw)
	return nil
}

// MarshalJSON emits the original operand shape.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// UnmarshalYAML accepts a scalar or a sequence and classifies its shape.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*v = classify(raw)
	return nil
}

// MarshalYAML emits the original operand shape.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.raw, nil
}

// ToFloat coerces the numeric types a decoded log or filter operand can carry.
func ToFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// FormatValue renders a field value or operand for human-readable output.
// Numbers keep their shortest representation (20, not 20.000000).
func FormatValue(v interface{}) string {
	if v == nil {
		return ""
	}
	if f, ok := ToFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
