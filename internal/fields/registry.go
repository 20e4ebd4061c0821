// Package fields resolves filter field keys to pure extraction functions
// over enriched game logs. The registry is injected into the evaluator so
// tests and callers can swap in synthetic fields; there is no package-level
// instance.
package fields

import (
	"fmt"
	"sort"

	"github.com/proplab/proplab/internal/domain"
)

// FieldType classifies what a field definition yields. Validation uses it to
// reject ordering operators on non-numeric fields before a filter runs.
type FieldType string

const (
	TypeNumber FieldType = "number"
	TypeString FieldType = "string"
	TypeBool   FieldType = "bool"
	TypeAny    FieldType = "any"
)

// FieldDef is one resolvable field capability. Evaluate must be pure and
// deterministic for the engine's reproducibility guarantee to hold; an error
// from a def the registry claims to know is a configuration defect and is the
// only error the engine propagates.
type FieldDef interface {
	Key() string
	Label() string
	Type() FieldType
	Evaluate(gl domain.EnrichedGameLog) (interface{}, error)
}

// EvalFunc extracts a field value from one game log. Absent data returns a
// nil value and no error; conditions then fail closed on it.
type EvalFunc func(gl domain.EnrichedGameLog) (interface{}, error)

type funcDef struct {
	key   string
	label string
	typ   FieldType
	fn    EvalFunc
}

// NewDef builds a FieldDef from a function.
func NewDef(key, label string, typ FieldType, fn EvalFunc) FieldDef {
	return funcDef{key: key, label: label, typ: typ, fn: fn}
}

func (d funcDef) Key() string     { return d.key }
func (d funcDef) Label() string   { return d.label }
func (d funcDef) Type() FieldType { return d.typ }

func (d funcDef) Evaluate(gl domain.EnrichedGameLog) (interface{}, error) {
	return d.fn(gl)
}

// Resolver synthesizes defs for a whole key family (e.g. "stat.<name>").
// Resolvers must be stateless so repeated lookups stay deterministic.
type Resolver func(key string) (FieldDef, bool)

// Registry maps field keys to definitions. Lookups try registered defs
// first, then each resolver in registration order.
type Registry struct {
	defs      map[string]FieldDef
	resolvers []Resolver
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]FieldDef)}
}

// Register adds a def, rejecting duplicate keys.
func (r *Registry) Register(def FieldDef) error {
	if def == nil || def.Key() == "" {
		return fmt.Errorf("field def requires a key")
	}
	if _, exists := r.defs[def.Key()]; exists {
		return fmt.Errorf("field %q already registered", def.Key())
	}
	r.defs[def.Key()] = def
	return nil
}

// MustRegister adds defs and panics on duplicates. Registries are assembled
// at startup, so a duplicate key is a programming error.
func (r *Registry) MustRegister(defs ...FieldDef) {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
}

// AddResolver appends a key-family resolver.
func (r *Registry) AddResolver(resolver Resolver) {
	r.resolvers = append(r.resolvers, resolver)
}

// Get resolves a field key to its definition.
func (r *Registry) Get(key string) (FieldDef, bool) {
	if def, ok := r.defs[key]; ok {
		return def, true
	}
	for _, resolve := range r.resolvers {
		if def, ok := resolve(key); ok {
			return def, true
		}
	}
	return nil, false
}

// Keys lists the explicitly registered field keys, sorted. Resolver families
// are open-ended and not enumerated here.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.defs))
	for key := range r.defs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
