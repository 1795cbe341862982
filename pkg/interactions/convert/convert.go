// Package convert implements the type-converter registry: the exact/
// generic two-table resolution spec.md §4.3 describes, plus the built-in
// converters for platform primitives, mentionable-ish types, and
// TimeSpan.
//
// The resolution and caching strategy is grounded on
// internal/agent/tool_exec.go's registry pattern in the teacher repo
// (a concurrent map guarded for writes by the framework mutex, read
// lock-free) generalized to support a second, generic-factory table the
// teacher's flat tool registry doesn't need.
package convert

import (
	"context"
	"reflect"
	"sync"

	"github.com/cenngo/interactions/pkg/interactions/errors"
)

// OptionType is the platform option-type enum a converter maps to. The
// framework core never interprets these values; they exist purely so a
// sync-payload builder can ask a converter what platform type its
// parameter becomes.
type OptionType int

const (
	OptionTypeString OptionType = iota + 1
	OptionTypeInteger
	OptionTypeBoolean
	OptionTypeUser
	OptionTypeChannel
	OptionTypeRole
	OptionTypeMentionable
	OptionTypeNumber
	OptionTypeStringArray
)

// RawOption is the opaque platform value a converter reads. The core
// never interprets its Value; concrete transports populate it from
// whatever wire shape the platform uses for command options.
type RawOption struct {
	Name  string
	Value any
}

// Converter turns one RawOption into a native Go value.
type Converter interface {
	// DiscordOptionType reports the platform option type this converter
	// maps to (named for the framework's primary target platform; other
	// transports interpret it by int value).
	DiscordOptionType() OptionType

	// Read performs the (possibly suspending) conversion.
	Read(ctx context.Context, raw RawOption) (any, error)

	// CanConvertTo reports whether this converter, registered under its
	// own exact type, can also serve requests for t (used by registry
	// resolution step 2).
	CanConvertTo(t reflect.Type) bool
}

// GenericConverterFactory builds a Converter specialized for t. Key
// identifies the factory's "shape" purely for specificity ranking among
// competing qualifying factories (see Registry.mostSpecificGeneric);
// Qualifies is the actual test for whether the factory can serve t,
// since many factories key on a reflect.Kind family (all integer kinds,
// all string-underlain kinds) that plain AssignableTo can't express for
// named types.
type GenericConverterFactory interface {
	// Key is the type this factory is registered under.
	Key() reflect.Type

	// Qualifies reports whether this factory can build a Converter for t.
	Qualifies(t reflect.Type) bool

	// Make builds a Converter specialized for t.
	Make(t reflect.Type) Converter
}

// Registry holds the exact and generic converter tables. Writers
// (Add/Remove) are expected to be called only while the caller holds the
// framework-wide mutex (see pkg/interactions facade); readers
// (Resolve) take only the registry's own RWMutex and never block on each
// other.
type Registry struct {
	mu      sync.RWMutex
	exact   map[reflect.Type]Converter
	named   map[string]Converter
	generic []GenericConverterFactory
}

// NewRegistry creates an empty registry. Use RegisterBuiltins to populate
// it with the framework's default converters.
func NewRegistry() *Registry {
	return &Registry{exact: make(map[reflect.Type]Converter), named: make(map[string]Converter)}
}

// Add registers an exact converter for t, overwriting any previous entry.
func (r *Registry) Add(t reflect.Type, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exact[t] = c
}

// AddNamed registers a converter under a TypeConverterRef key — the
// escape hatch for parameter types the core has no universal Go type
// for (platform entities like users, channels, and roles), which a host
// binds by name instead of by reflect.Type.
func (r *Registry) AddNamed(key string, c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.named[key] = c
}

// ResolveNamed looks up a converter registered under key, failing with
// NoConverter if none was registered.
func (r *Registry) ResolveNamed(key string) (Converter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.named[key]
	if !ok {
		return nil, errors.NoConverter(key)
	}
	return c, nil
}

// AddGeneric registers a generic converter factory.
func (r *Registry) AddGeneric(f GenericConverterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generic = append(r.generic, f)
}

// Remove deletes the exact converter registered for t, if any.
func (r *Registry) Remove(t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.exact, t)
}

// Resolve implements spec.md §4.3's four-step resolution:
//  1. exact hit
//  2. any exact converter reporting CanConvertTo(t)
//  3. the most specific qualifying generic factory, instantiated and
//     cached into the exact table
//  4. NoConverter(t)
func (r *Registry) Resolve(t reflect.Type) (Converter, error) {
	r.mu.RLock()
	if c, ok := r.exact[t]; ok {
		r.mu.RUnlock()
		return c, nil
	}
	for _, c := range r.exact {
		if c.CanConvertTo(t) {
			r.mu.RUnlock()
			return c, nil
		}
	}

	best := r.mostSpecificGeneric(t)
	r.mu.RUnlock()

	if best == nil {
		return nil, errors.NoConverter(t.String())
	}

	converter := best.Make(t)

	r.mu.Lock()
	r.exact[t] = converter
	r.mu.Unlock()

	return converter, nil
}

// mostSpecificGeneric implements step 3's qualification and ranking.
// Caller must hold r.mu (read lock is sufficient).
//
// A factory qualifies when its Qualifies method accepts t. Among
// qualifying factories, the most specific is the one whose Key is
// assignable from
// the fewest other qualifying Keys (i.e. the "narrowest" shape, deepest in
// the assignability lattice). When two qualifying factories are mutually
// incomparable (neither key assignable to the other), the tie is broken
// by registration order — the first-registered qualifying factory wins,
// the same first-inserted-wins principle spec.md §4.2 already specifies
// for the command map's wildcard bucket (see SPEC_FULL.md open question
// 2).
func (r *Registry) mostSpecificGeneric(t reflect.Type) GenericConverterFactory {
	var qualifying []GenericConverterFactory
	for _, f := range r.generic {
		if f.Qualifies(t) {
			qualifying = append(qualifying, f)
		}
	}
	if len(qualifying) == 0 {
		return nil
	}

	bestIdx := 0
	bestScore := -1
	for i, f := range qualifying {
		score := 0
		for j, other := range qualifying {
			if i == j {
				continue
			}
			if other.Key().AssignableTo(f.Key()) && !f.Key().AssignableTo(other.Key()) {
				score++
			}
		}
		if bestScore == -1 || score < bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	return qualifying[bestIdx]
}
