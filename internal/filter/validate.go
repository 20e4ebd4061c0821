package filter

import (
	"fmt"

	"github.com/proplab/proplab/internal/domain"
	"github.com/proplab/proplab/internal/fields"
)

// ValidateFilter checks a filter definition for problems before it is used
// and returns one message per problem, or an empty slice when the filter is
// well formed. Unlike evaluation, validation is strict: a field that does not
// resolve is reported rather than skipped. The filter is never modified.
func (e *Evaluator) ValidateFilter(f domain.CustomFilter) []string {
	problems := []string{}

	if f.Name == "" {
		problems = append(problems, "filter name is required")
	}
	if f.Direction != "" && !f.Direction.Valid() {
		problems = append(problems, fmt.Sprintf("invalid direction %q (want %q or %q)", f.Direction, domain.DirectionOver, domain.DirectionUnder))
	}
	if len(f.Conditions) == 0 {
		problems = append(problems, "filter must define at least one condition")
	}

	for i, cond := range f.Conditions {
		ref := fmt.Sprintf("condition %d", i+1)

		var def fields.FieldDef
		if cond.Field == "" {
			problems = append(problems, ref+": field is required")
		} else {
			var ok bool
			def, ok = e.registry.Get(cond.Field)
			if !ok {
				problems = append(problems, fmt.Sprintf("%s: unknown field %q", ref, cond.Field))
			}
		}

		if err := domain.CheckOperatorValue(cond.Operator, cond.Value); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %s", ref, err))
			continue
		}

		if def != nil && cond.Operator.Numeric() {
			switch def.Type() {
			case fields.TypeString, fields.TypeBool:
				problems = append(problems, fmt.Sprintf("%s: operator %q needs a numeric field, %q is %s", ref, cond.Operator, cond.Field, def.Type()))
			}
		}
	}

	return problems
}
