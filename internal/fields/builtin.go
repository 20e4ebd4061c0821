package fields

import (
	"strings"

	"github.com/proplab/proplab/internal/domain"
)

// Key families the standard registry resolves dynamically.
const (
	StatPrefix = "stat."
	LinePrefix = "line."
	DiffPrefix = "diff."
	CtxPrefix  = "ctx."
)

// NewStandardRegistry builds the registry the product ships with:
//
//	stat.<name>  box-score stat by name
//	line.<name>  posted prop line by stat name
//	diff.<name>  stat minus line for the same name
//	ctx.<key>    enrichment context entry
//
// plus date.month, date.year, and player.name. Absent data yields a nil
// value, so conditions over it fail closed rather than erroring.
func NewStandardRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(
		NewDef("date.month", "Month", TypeNumber, func(gl domain.EnrichedGameLog) (interface{}, error) {
			return float64(gl.Date.Month()), nil
		}),
		NewDef("date.year", "Year", TypeNumber, func(gl domain.EnrichedGameLog) (interface{}, error) {
			return float64(gl.Date.Year()), nil
		}),
		NewDef("player.name", "Player", TypeString, func(gl domain.EnrichedGameLog) (interface{}, error) {
			return gl.PlayerName, nil
		}),
	)
	r.AddResolver(resolveFamily)
	return r
}

// resolveFamily synthesizes defs for the prefix families. Each lookup builds
// an equivalent def, so resolution stays deterministic and stateless.
func resolveFamily(key string) (FieldDef, bool) {
	switch {
	case strings.HasPrefix(key, StatPrefix):
		name := strings.TrimPrefix(key, StatPrefix)
		if name == "" {
			return nil, false
		}
		return NewDef(key, prettyLabel(name), TypeNumber, func(gl domain.EnrichedGameLog) (interface{}, error) {
			v, ok := gl.Stat(name)
			if !ok {
				return nil, nil
			}
			return v, nil
		}), true

	case strings.HasPrefix(key, LinePrefix):
		name := strings.TrimPrefix(key, LinePrefix)
		if name == "" {
			return nil, false
		}
		return NewDef(key, prettyLabel(name)+" Line", TypeNumber, func(gl domain.EnrichedGameLog) (interface{}, error) {
			v, ok := gl.PropLine(name)
			if !ok {
				return nil, nil
			}
			return v, nil
		}), true

	case strings.HasPrefix(key, DiffPrefix):
		name := strings.TrimPrefix(key, DiffPrefix)
		if name == "" {
			return nil, false
		}
		return NewDef(key, prettyLabel(name)+" vs Line", TypeNumber, func(gl domain.EnrichedGameLog) (interface{}, error) {
			stat, statOK := gl.Stat(name)
			line, lineOK := gl.PropLine(name)
			if !statOK || !lineOK {
				return nil, nil
			}
			return stat - line, nil
		}), true

	case strings.HasPrefix(key, CtxPrefix):
		name := strings.TrimPrefix(key, CtxPrefix)
		if name == "" {
			return nil, false
		}
		return NewDef(key, prettyLabel(name), TypeAny, func(gl domain.EnrichedGameLog) (interface{}, error) {
			v, ok := gl.Context[name]
			if !ok {
				return nil, nil
			}
			return v, nil
		}), true
	}
	return nil, false
}

// prettyLabel turns "three_pointers" into "Three Pointers".
func prettyLabel(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
