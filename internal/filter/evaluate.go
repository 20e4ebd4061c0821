package filter

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/proplab/proplab/internal/domain"
	"github.com/proplab/proplab/internal/fields"
)

// Evaluator applies filters to game logs using an injected field registry.
type Evaluator struct {
	registry *fields.Registry
}

// NewEvaluator returns an Evaluator backed by the given registry.
func NewEvaluator(registry *fields.Registry) *Evaluator {
	return &Evaluator{registry: registry}
}

// EvaluateFilter checks every condition of the filter against one game log.
// Conditions are combined with AND in declared order and evaluation stops at
// the first failure, returning no match metadata. When all conditions pass it
// returns one FilterMatch per condition describing what matched.
//
// A condition whose field cannot be resolved passes vacuously so that a
// filter written against a richer data set still works on a thinner one.
// Resolution failures are surfaced by ValidateFilter instead.
func (e *Evaluator) EvaluateFilter(f domain.CustomFilter, gl domain.EnrichedGameLog) (bool, []domain.FilterMatch, error) {
	matches := make([]domain.FilterMatch, 0, len(f.Conditions))

	for _, cond := range f.Conditions {
		def, ok := e.registry.Get(cond.Field)
		if !ok {
			log.Debug().
				Str("filter", f.Name).
				Str("field", cond.Field).
				Msg("field not resolvable, condition skipped")
			matches = append(matches, domain.FilterMatch{
				Field:     cond.Field,
				Label:     e.conditionLabel(cond),
				Value:     "",
				Threshold: FormatThreshold(cond.Operator, cond.Value),
			})
			continue
		}

		actual, err := def.Evaluate(gl)
		if err != nil {
			return false, nil, fmt.Errorf("field %q: %w", cond.Field, err)
		}

		if !EvaluateCondition(cond.Operator, actual, cond.Value) {
			return false, nil, nil
		}

		matches = append(matches, domain.FilterMatch{
			Field:     cond.Field,
			Label:     e.conditionLabel(cond),
			Value:     domain.FormatValue(actual),
			Threshold: FormatThreshold(cond.Operator, cond.Value),
		})
	}

	return true, matches, nil
}

// EvaluateBatch partitions logs into those matching the filter and those not,
// preserving input order within each partition.
func (e *Evaluator) EvaluateBatch(f domain.CustomFilter, logs []domain.EnrichedGameLog) ([]domain.EnrichedGameLog, []domain.EnrichedGameLog, error) {
	matched := make([]domain.EnrichedGameLog, 0, len(logs))
	unmatched := make([]domain.EnrichedGameLog, 0, len(logs))

	for _, gl := range logs {
		ok, _, err := e.EvaluateFilter(f, gl)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			matched = append(matched, gl)
		} else {
			unmatched = append(unmatched, gl)
		}
	}

	return matched, unmatched, nil
}

// Summarize renders a filter as a one-line human-readable description, for
// example "Points >= 20 AND Minutes >= 25 (over)".
func (e *Evaluator) Summarize(f domain.CustomFilter) string {
	if len(f.Conditions) == 0 {
		return fmt.Sprintf("no conditions (%s)", f.BetDirection())
	}

	parts := make([]string, 0, len(f.Conditions))
	for _, cond := range f.Conditions {
		label := e.conditionLabel(cond)
		if cond.Operator == domain.OpNotIn {
			// FormatThreshold already carries the "not" prefix, so
			// compose this one from the raw item list.
			parts = append(parts, fmt.Sprintf("%s not in %s", label, joinList(cond.Value)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s %s", label, cond.Operator.Symbol(), FormatThreshold(cond.Operator, cond.Value)))
	}

	return fmt.Sprintf("%s (%s)", strings.Join(parts, " AND "), f.BetDirection())
}

// conditionLabel prefers the condition's own label, then the registered
// field's, then the raw field key.
func (e *Evaluator) conditionLabel(cond domain.FilterCondition) string {
	if cond.Label != "" {
		return cond.Label
	}
	if def, ok := e.registry.Get(cond.Field); ok {
		return def.Label()
	}
	return cond.Field
}

// FormatThreshold renders a condition's operand for display in match
// metadata: ranges as "lo-hi", lists comma-joined, exclusion lists with a
// leading "not".
func FormatThreshold(op domain.Operator, v domain.Value) string {
	switch op {
	case domain.OpBetween:
		if lo, hi, ok := v.Pair(); ok {
			return fmt.Sprintf("%s-%s", domain.FormatValue(lo), domain.FormatValue(hi))
		}
	case domain.OpIn:
		if _, ok := v.List(); ok {
			return joinList(v)
		}
	case domain.OpNotIn:
		if _, ok := v.List(); ok {
			return "not " + joinList(v)
		}
	}
	return v.String()
}

func joinList(v domain.Value) string {
	items, ok := v.List()
	if !ok {
		return v.String()
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, domain.FormatValue(item))
	}
	return strings.Join(parts, ", ")
}
