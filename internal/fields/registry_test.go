package fields

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proplab/proplab/internal/domain"
)

func testLog() domain.EnrichedGameLog {
	return domain.EnrichedGameLog{
		Date:           time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		PlayerName:     "Jalen Carter",
		PrimaryStatKey: "points",
		Stats:          map[string]float64{"points": 27, "minutes": 33.5},
		PropLines:      map[string]float64{"points": 22.5},
		Context:        map[string]interface{}{"home_game": true, "opponent": "BOS"},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	def := NewDef("custom.rest_days", "Rest Days", TypeNumber, func(gl domain.EnrichedGameLog) (interface{}, error) {
		return 2.0, nil
	})
	require.NoError(t, r.Register(def))

	got, ok := r.Get("custom.rest_days")
	require.True(t, ok)
	assert.Equal(t, "Rest Days", got.Label())
	assert.Equal(t, TypeNumber, got.Type())

	err := r.Register(def)
	require.Error(t, err, "duplicate keys are rejected")
	assert.Contains(t, err.Error(), "already registered")

	_, ok = r.Get("custom.unknown")
	assert.False(t, ok)
}

func TestStandardRegistryBuiltins(t *testing.T) {
	r := NewStandardRegistry()
	gl := testLog()

	month, ok := r.Get("date.month")
	require.True(t, ok)
	v, err := month.Evaluate(gl)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	year, ok := r.Get("date.year")
	require.True(t, ok)
	v, err = year.Evaluate(gl)
	require.NoError(t, err)
	assert.Equal(t, 2024.0, v)

	name, ok := r.Get("player.name")
	require.True(t, ok)
	v, err = name.Evaluate(gl)
	require.NoError(t, err)
	assert.Equal(t, "Jalen Carter", v)

	assert.Equal(t, []string{"date.month", "date.year", "player.name"}, r.Keys())
}

func TestStandardRegistryStatFamily(t *testing.T) {
	r := NewStandardRegistry()
	gl := testLog()

	def, ok := r.Get("stat.points")
	require.True(t, ok)
	assert.Equal(t, "Points", def.Label())
	assert.Equal(t, TypeNumber, def.Type())

	v, err := def.Evaluate(gl)
	require.NoError(t, err)
	assert.Equal(t, 27.0, v)

	missing, ok := r.Get("stat.rebounds")
	require.True(t, ok, "stat family resolves any name")
	v, err = missing.Evaluate(gl)
	require.NoError(t, err)
	assert.Nil(t, v, "absent stats yield nil, not an error")

	_, ok = r.Get("stat.")
	assert.False(t, ok, "empty stat name does not resolve")
}

func TestStandardRegistryLineAndDiffFamilies(t *testing.T) {
	r := NewStandardRegistry()
	gl := testLog()

	line, ok := r.Get("line.points")
	require.True(t, ok)
	v, err := line.Evaluate(gl)
	require.NoError(t, err)
	assert.Equal(t, 22.5, v)

	diff, ok := r.Get("diff.points")
	require.True(t, ok)
	v, err = diff.Evaluate(gl)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	// diff needs both sides posted.
	diffMinutes, ok := r.Get("diff.minutes")
	require.True(t, ok)
	v, err = diffMinutes.Evaluate(gl)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestStandardRegistryContextFamily(t *testing.T) {
	r := NewStandardRegistry()
	gl := testLog()

	def, ok := r.Get("ctx.home_game")
	require.True(t, ok)
	assert.Equal(t, "Home Game", def.Label())
	assert.Equal(t, TypeAny, def.Type())

	v, err := def.Evaluate(gl)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	absent, ok := r.Get("ctx.travel_miles")
	require.True(t, ok)
	v, err = absent.Evaluate(gl)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestResolverDeterminism(t *testing.T) {
	r := NewStandardRegistry()
	gl := testLog()

	first, ok := r.Get("stat.points")
	require.True(t, ok)
	second, ok := r.Get("stat.points")
	require.True(t, ok)

	v1, err := first.Evaluate(gl)
	require.NoError(t, err)
	v2, err := second.Evaluate(gl)
	require.NoError(t, err)
	assert.Equal(t, v1, v2, "repeated resolution evaluates identically")
}

func TestRegisteredDefWinsOverResolver(t *testing.T) {
	r := NewStandardRegistry()
	override := NewDef("stat.points", "Adjusted Points", TypeNumber, func(gl domain.EnrichedGameLog) (interface{}, error) {
		return nil, errors.New("boom")
	})
	require.NoError(t, r.Register(override))

	def, ok := r.Get("stat.points")
	require.True(t, ok)
	assert.Equal(t, "Adjusted Points", def.Label(), "explicit registrations shadow resolver families")

	_, err := def.Evaluate(testLog())
	assert.Error(t, err)
}

func TestPrettyLabel(t *testing.T) {
	assert.Equal(t, "Points", prettyLabel("points"))
	assert.Equal(t, "Three Pointers", prettyLabel("three_pointers"))
	assert.Equal(t, "Home Game", prettyLabel("home_game"))
}
