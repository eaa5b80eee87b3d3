// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Type parses and suggests values for one named argument kind.
// Implementations must be stateless and safe for concurrent use.
type Type interface {
	// Parse converts a raw token into a typed value. Errors are wrapped
	// into INVALID_ARGUMENT by the argument parser.
	Parse(tc *TypeContext, raw string) (any, error)

	// Suggest returns candidate completions for a partial token. It never
	// fails; lookups that error yield an empty list.
	Suggest(tc *TypeContext, partial string) []string

	// Greedy reports whether the type consumes all remaining tokens.
	Greedy() bool
}

// TypeRegistry holds named argument types. Owner-scoped registrations
// shadow global ones, letting plugins override built-ins without affecting
// other owners. It is safe for concurrent use.
type TypeRegistry struct {
	mu     sync.RWMutex
	global map[string]Type
	owned  map[string]map[string]Type // owner → name → type
}

// NewTypeRegistry creates a registry pre-populated with the built-in types:
// string, greedy, int, float, bool, actor, and world.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{
		global: make(map[string]Type),
		owned:  make(map[string]map[string]Type),
	}
	r.Register("string", StringType{})
	r.Register("greedy", GreedyStringType{})
	r.Register("int", IntType{Min: math.MinInt64, Max: math.MaxInt64})
	r.Register("float", FloatType{Min: math.Inf(-1), Max: math.Inf(1)})
	r.Register("bool", BoolType{})
	r.Register("actor", ActorType{})
	r.Register("world", WorldType{})
	return r
}

// Register adds or replaces a global type under the given name.
func (r *TypeRegistry) Register(name string, t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global[strings.ToLower(name)] = t
}

// Get returns the global type registered under name.
func (r *TypeRegistry) Get(name string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.global[strings.ToLower(name)]
	return t, ok
}

// RegisterForOwner adds or replaces an owner-scoped type. Owner-scoped
// types shadow global ones for that owner only.
func (r *TypeRegistry) RegisterForOwner(owner, name string, t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owned[owner] == nil {
		r.owned[owner] = make(map[string]Type)
	}
	r.owned[owner][strings.ToLower(name)] = t
}

// GetForOwner returns the type visible to owner under name, checking the
// owner's scope before the global one.
func (r *TypeRegistry) GetForOwner(owner, name string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if scoped, ok := r.owned[owner]; ok {
		if t, ok := scoped[strings.ToLower(name)]; ok {
			return t, true
		}
	}
	t, ok := r.global[strings.ToLower(name)]
	return t, ok
}

// RemoveOwner drops all of an owner's scoped types. Called when an owner
// is unregistered.
func (r *TypeRegistry) RemoveOwner(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.owned, owner)
}

// StringType accepts any single token verbatim.
type StringType struct{}

// Parse returns the raw token.
func (StringType) Parse(_ *TypeContext, raw string) (any, error) { return raw, nil }

// Suggest returns no candidates; free-form strings have no suggestions.
func (StringType) Suggest(_ *TypeContext, _ string) []string { return nil }

// Greedy reports false.
func (StringType) Greedy() bool { return false }

// GreedyStringType consumes all remaining tokens, joined by single spaces.
type GreedyStringType struct{}

// Parse returns the joined remainder.
func (GreedyStringType) Parse(_ *TypeContext, raw string) (any, error) { return raw, nil }

// Suggest returns no candidates.
func (GreedyStringType) Suggest(_ *TypeContext, _ string) []string { return nil }

// Greedy reports true.
func (GreedyStringType) Greedy() bool { return true }

// IntType parses a signed integer with inclusive bounds.
type IntType struct {
	Min, Max int64
}

// Parse converts raw to int64 and checks bounds.
func (t IntType) Parse(_ *TypeContext, raw string) (any, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not a whole number: %q", raw)
	}
	if v < t.Min || v > t.Max {
		return nil, fmt.Errorf("%d is out of range %d..%d", v, t.Min, t.Max)
	}
	return v, nil
}

// Suggest returns no candidates.
func (IntType) Suggest(_ *TypeContext, _ string) []string { return nil }

// Greedy reports false.
func (IntType) Greedy() bool { return false }

// FloatType parses a floating point number with inclusive bounds. NaN is
// always rejected.
type FloatType struct {
	Min, Max float64
}

// Parse converts raw to float64 and checks bounds.
func (t FloatType) Parse(_ *TypeContext, raw string) (any, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return nil, fmt.Errorf("not a number: %q", raw)
	}
	if v < t.Min || v > t.Max {
		return nil, fmt.Errorf("%v is out of range %v..%v", v, t.Min, t.Max)
	}
	return v, nil
}

// Suggest returns no candidates.
func (FloatType) Suggest(_ *TypeContext, _ string) []string { return nil }

// Greedy reports false.
func (FloatType) Greedy() bool { return false }

// BoolType parses the true/yes/1/on and false/no/0/off families,
// case-insensitive.
type BoolType struct{}

// Parse converts raw to bool.
func (BoolType) Parse(_ *TypeContext, raw string) (any, error) {
	switch strings.ToLower(raw) {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	}
	return nil, fmt.Errorf("not a boolean: %q", raw)
}

// Suggest returns the canonical pair.
func (BoolType) Suggest(_ *TypeContext, _ string) []string {
	return []string{"true", "false"}
}

// Greedy reports false.
func (BoolType) Greedy() bool { return false }

// EnumType parses one of a fixed set of names, case-insensitive, and
// suggests the members.
type EnumType struct {
	Values []string
}

// NewEnumType creates an enum over the given values.
func NewEnumType(values ...string) EnumType {
	return EnumType{Values: values}
}

// Parse matches raw against the enum members.
func (t EnumType) Parse(_ *TypeContext, raw string) (any, error) {
	for _, v := range t.Values {
		if strings.EqualFold(v, raw) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("must be one of: %s", strings.Join(t.Values, ", "))
}

// Suggest returns the enum members.
func (t EnumType) Suggest(_ *TypeContext, _ string) []string {
	out := make([]string, len(t.Values))
	copy(out, t.Values)
	return out
}

// Greedy reports false.
func (EnumType) Greedy() bool { return false }

// ActorType resolves an online actor by name through the host's actor
// directory.
type ActorType struct{}

// Parse looks up the actor; unknown or offline names fail.
func (ActorType) Parse(tc *TypeContext, raw string) (any, error) {
	if tc == nil || tc.Services == nil || tc.Services.Actors == nil {
		return nil, fmt.Errorf("actor lookup unavailable")
	}
	a, ok := tc.Services.Actors.FindActor(raw)
	if !ok {
		return nil, fmt.Errorf("no actor named %q is online", raw)
	}
	return a, nil
}

// Suggest returns online actor names.
func (ActorType) Suggest(tc *TypeContext, _ string) []string {
	if tc == nil || tc.Services == nil || tc.Services.Actors == nil {
		return nil
	}
	return tc.Services.Actors.ActorNames()
}

// Greedy reports false.
func (ActorType) Greedy() bool { return false }

// WorldType resolves a loaded world by name through the host's world
// directory.
type WorldType struct{}

// Parse looks up the world.
func (WorldType) Parse(tc *TypeContext, raw string) (any, error) {
	if tc == nil || tc.Services == nil || tc.Services.Worlds == nil {
		return nil, fmt.Errorf("world lookup unavailable")
	}
	w, ok := tc.Services.Worlds.FindWorld(raw)
	if !ok {
		return nil, fmt.Errorf("no world named %q is loaded", raw)
	}
	return w, nil
}

// Suggest returns loaded world names.
func (WorldType) Suggest(tc *TypeContext, _ string) []string {
	if tc == nil || tc.Services == nil || tc.Services.Worlds == nil {
		return nil
	}
	return tc.Services.Worlds.WorldNames()
}

// Greedy reports false.
func (WorldType) Greedy() bool { return false }
