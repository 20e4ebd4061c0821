package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proplab/proplab/internal/domain"
	"github.com/proplab/proplab/internal/fields"
)

func evalLog() domain.EnrichedGameLog {
	return domain.EnrichedGameLog{
		Date:           time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		PlayerName:     "Jalen Carter",
		PrimaryStatKey: "points",
		Stats:          map[string]float64{"points": 27, "minutes": 33.5},
		PropLines:      map[string]float64{"points": 22.5},
		Context:        map[string]interface{}{"home_game": true, "opponent": "BOS", "position": "G"},
	}
}

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	return NewEvaluator(fields.NewStandardRegistry())
}

func TestEvaluateFilterAllConditionsMatch(t *testing.T) {
	ev := newTestEvaluator(t)
	f := domain.CustomFilter{
		Name: "points-and-minutes",
		Conditions: []domain.FilterCondition{
			{Field: "stat.points", Operator: domain.OpGte, Value: domain.NumberValue(20)},
			{Field: "stat.minutes", Operator: domain.OpGte, Value: domain.NumberValue(25)},
		},
	}

	ok, matches, err := ev.EvaluateFilter(f, evalLog())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, matches, 2)

	assert.Equal(t, "stat.points", matches[0].Field)
	assert.Equal(t, "Points", matches[0].Label)
	assert.Equal(t, "27", matches[0].Value)
	assert.Equal(t, "20", matches[0].Threshold)

	assert.Equal(t, "stat.minutes", matches[1].Field)
	assert.Equal(t, "Minutes", matches[1].Label)
	assert.Equal(t, "33.5", matches[1].Value)
	assert.Equal(t, "25", matches[1].Threshold)
}

func TestEvaluateFilterConditionLabelOverride(t *testing.T) {
	ev := newTestEvaluator(t)
	f := domain.CustomFilter{
		Name: "labeled",
		Conditions: []domain.FilterCondition{
			{Field: "stat.points", Operator: domain.OpGte, Value: domain.NumberValue(20), Label: "Scoring"},
		},
	}

	ok, matches, err := ev.EvaluateFilter(f, evalLog())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, matches, 1)
	assert.Equal(t, "Scoring", matches[0].Label)
}

func TestEvaluateFilterShortCircuits(t *testing.T) {
	reg := fields.NewStandardRegistry()
	reg.MustRegister(fields.NewDef("boom", "Boom", fields.TypeNumber, func(domain.EnrichedGameLog) (interface{}, error) {
		return nil, errors.New("should never be evaluated")
	}))
	ev := NewEvaluator(reg)

	f := domain.CustomFilter{
		Name: "short-circuit",
		Conditions: []domain.FilterCondition{
			{Field: "stat.points", Operator: domain.OpGte, Value: domain.NumberValue(30)},
			{Field: "boom", Operator: domain.OpGt, Value: domain.NumberValue(0)},
		},
	}

	ok, matches, err := ev.EvaluateFilter(f, evalLog())
	require.NoError(t, err, "a condition past the first failure must not run")
	assert.False(t, ok)
	assert.Nil(t, matches, "no partial match metadata on failure")
}

func TestEvaluateFilterFieldError(t *testing.T) {
	reg := fields.NewStandardRegistry()
	reg.MustRegister(fields.NewDef("boom", "Boom", fields.TypeNumber, func(domain.EnrichedGameLog) (interface{}, error) {
		return nil, errors.New("backing store unavailable")
	}))
	ev := NewEvaluator(reg)

	f := domain.CustomFilter{
		Name: "erroring",
		Conditions: []domain.FilterCondition{
			{Field: "boom", Operator: domain.OpGt, Value: domain.NumberValue(0)},
		},
	}

	ok, matches, err := ev.EvaluateFilter(f, evalLog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "boom"`)
	assert.False(t, ok)
	assert.Nil(t, matches)
}

func TestEvaluateFilterUnresolvedFieldPassesVacuously(t *testing.T) {
	ev := newTestEvaluator(t)
	f := domain.CustomFilter{
		Name: "thin-data",
		Conditions: []domain.FilterCondition{
			{Field: "scouting.grade", Operator: domain.OpGte, Value: domain.NumberValue(8)},
			{Field: "stat.points", Operator: domain.OpGte, Value: domain.NumberValue(20)},
		},
	}

	ok, matches, err := ev.EvaluateFilter(f, evalLog())
	require.NoError(t, err)
	require.True(t, ok, "an unresolvable field must not fail the filter")
	require.Len(t, matches, 2)
	assert.Equal(t, "scouting.grade", matches[0].Field)
	assert.Equal(t, "", matches[0].Value)
	assert.Equal(t, "8", matches[0].Threshold)
}

func TestEvaluateBatchPartitions(t *testing.T) {
	ev := newTestEvaluator(t)
	f := domain.CustomFilter{
		Name: "twenty-plus",
		Conditions: []domain.FilterCondition{
			{Field: "stat.points", Operator: domain.OpGte, Value: domain.NumberValue(20)},
		},
	}

	mk := func(points float64) domain.EnrichedGameLog {
		gl := evalLog()
		gl.Stats = map[string]float64{"points": points}
		return gl
	}
	logs := []domain.EnrichedGameLog{mk(27), mk(12), mk(20), mk(19.5), mk(31)}

	matched, unmatched, err := ev.EvaluateBatch(f, logs)
	require.NoError(t, err)
	require.Len(t, matched, 3)
	require.Len(t, unmatched, 2)

	assert.Equal(t, 27.0, matched[0].Stats["points"])
	assert.Equal(t, 20.0, matched[1].Stats["points"])
	assert.Equal(t, 31.0, matched[2].Stats["points"])
	assert.Equal(t, 12.0, unmatched[0].Stats["points"])
	assert.Equal(t, 19.5, unmatched[1].Stats["points"])
	assert.Equal(t, len(logs), len(matched)+len(unmatched), "partition loses nothing")
}

func TestEvaluateBatchEmptyInput(t *testing.T) {
	ev := newTestEvaluator(t)
	f := domain.CustomFilter{
		Name: "anything",
		Conditions: []domain.FilterCondition{
			{Field: "stat.points", Operator: domain.OpGt, Value: domain.NumberValue(0)},
		},
	}

	matched, unmatched, err := ev.EvaluateBatch(f, nil)
	require.NoError(t, err)
	assert.Empty(t, matched)
	assert.Empty(t, unmatched)
}

func TestSummarize(t *testing.T) {
	ev := newTestEvaluator(t)

	tests := []struct {
		name   string
		filter domain.CustomFilter
		want   string
	}{
		{
			name: "two numeric conditions",
			filter: domain.CustomFilter{
				Name: "volume-scorer",
				Conditions: []domain.FilterCondition{
					{Field: "stat.points", Operator: domain.OpGte, Value: domain.NumberValue(20)},
					{Field: "stat.minutes", Operator: domain.OpGte, Value: domain.NumberValue(25)},
				},
			},
			want: "Points >= 20 AND Minutes >= 25 (over)",
		},
		{
			name: "between renders as range",
			filter: domain.CustomFilter{
				Name:      "mid-minutes",
				Direction: domain.DirectionUnder,
				Conditions: []domain.FilterCondition{
					{Field: "stat.minutes", Operator: domain.OpBetween, Value: domain.RangeValue(25, 30)},
				},
			},
			want: "Minutes between 25-30 (under)",
		},
		{
			name: "membership renders joined list",
			filter: domain.CustomFilter{
				Name: "guards-forwards",
				Conditions: []domain.FilterCondition{
					{Field: "ctx.position", Operator: domain.OpIn, Value: domain.ListValue("G", "F")},
				},
			},
			want: "Position in G, F (over)",
		},
		{
			name: "exclusion avoids doubled not",
			filter: domain.CustomFilter{
				Name: "no-bigs",
				Conditions: []domain.FilterCondition{
					{Field: "ctx.position", Operator: domain.OpNotIn, Value: domain.ListValue("C", "PF")},
				},
			},
			want: "Position not in C, PF (over)",
		},
		{
			name:   "no conditions",
			filter: domain.CustomFilter{Name: "empty"},
			want:   "no conditions (over)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ev.Summarize(tt.filter))
		})
	}
}

func TestFormatThreshold(t *testing.T) {
	tests := []struct {
		name string
		op   domain.Operator
		v    domain.Value
		want string
	}{
		{"ordering threshold", domain.OpGte, domain.NumberValue(20), "20"},
		{"between range", domain.OpBetween, domain.RangeValue(25, 30), "25-30"},
		{"between fractional", domain.OpBetween, domain.RangeValue(22.5, 27.5), "22.5-27.5"},
		{"in joined", domain.OpIn, domain.ListValue("G", "F"), "G, F"},
		{"not_in prefixed", domain.OpNotIn, domain.ListValue("G", "F"), "not G, F"},
		{"in numeric items", domain.OpIn, domain.ListValue(1, 2, 3), "1, 2, 3"},
		{"malformed between falls back", domain.OpBetween, domain.NumberValue(25), "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatThreshold(tt.op, tt.v))
		})
	}
}
