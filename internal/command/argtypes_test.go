// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRegistry_Builtins(t *testing.T) {
	r := NewTypeRegistry()
	for _, name := range []string{"string", "greedy", "int", "float", "bool", "actor", "world"} {
		_, ok := r.Get(name)
		assert.True(t, ok, "builtin %s missing", name)
	}
}

func TestTypeRegistry_NamesCaseInsensitive(t *testing.T) {
	r := NewTypeRegistry()
	r.Register("Coordinate", IntType{Min: -1000, Max: 1000})

	_, ok := r.Get("coordinate")
	assert.True(t, ok)
	_, ok = r.Get("COORDINATE")
	assert.True(t, ok)
}

func TestTypeRegistry_OwnerScope(t *testing.T) {
	r := NewTypeRegistry()
	r.RegisterForOwner("plugin-a", "mode", NewEnumType("on", "off"))

	_, ok := r.Get("mode")
	assert.False(t, ok, "owner-scoped type must not leak into the global scope")

	_, ok = r.GetForOwner("plugin-a", "mode")
	assert.True(t, ok)
	_, ok = r.GetForOwner("plugin-b", "mode")
	assert.False(t, ok)

	// Fallthrough to global for names the owner never scoped.
	_, ok = r.GetForOwner("plugin-a", "int")
	assert.True(t, ok)

	r.RemoveOwner("plugin-a")
	_, ok = r.GetForOwner("plugin-a", "mode")
	assert.False(t, ok)
}

func TestIntType_Bounds(t *testing.T) {
	typ := IntType{Min: 1, Max: 64}

	v, err := typ.Parse(nil, "64")
	require.NoError(t, err)
	assert.Equal(t, int64(64), v)

	_, err = typ.Parse(nil, "0")
	assert.Error(t, err)
	_, err = typ.Parse(nil, "65")
	assert.Error(t, err)
	_, err = typ.Parse(nil, "12.5")
	assert.Error(t, err)
	_, err = typ.Parse(nil, "lots")
	assert.Error(t, err)
}

func TestFloatType_RejectsNaN(t *testing.T) {
	typ := FloatType{Min: math.Inf(-1), Max: math.Inf(1)}

	v, err := typ.Parse(nil, "-3.14")
	require.NoError(t, err)
	assert.Equal(t, -3.14, v)

	_, err = typ.Parse(nil, "NaN")
	assert.Error(t, err)
}

func TestBoolType_Families(t *testing.T) {
	typ := BoolType{}

	for _, raw := range []string{"true", "YES", "1", "On"} {
		v, err := typ.Parse(nil, raw)
		require.NoError(t, err, raw)
		assert.Equal(t, true, v, raw)
	}
	for _, raw := range []string{"false", "No", "0", "OFF"} {
		v, err := typ.Parse(nil, raw)
		require.NoError(t, err, raw)
		assert.Equal(t, false, v, raw)
	}
	_, err := typ.Parse(nil, "maybe")
	assert.Error(t, err)
}

func TestEnumType(t *testing.T) {
	typ := NewEnumType("survival", "creative", "adventure")

	v, err := typ.Parse(nil, "CREATIVE")
	require.NoError(t, err)
	assert.Equal(t, "creative", v)

	_, err = typ.Parse(nil, "spectator")
	assert.Error(t, err)

	assert.Equal(t, []string{"survival", "creative", "adventure"}, typ.Suggest(nil, ""))
}

func TestActorAndWorldTypes_NilServices(t *testing.T) {
	tc := &TypeContext{}

	_, err := ActorType{}.Parse(tc, "Steve")
	assert.Error(t, err)
	assert.Nil(t, ActorType{}.Suggest(tc, ""))

	_, err = WorldType{}.Parse(tc, "nether")
	assert.Error(t, err)
	assert.Nil(t, WorldType{}.Suggest(tc, ""))
}

func TestActorType_Suggest(t *testing.T) {
	tc := testTypeContext(t)
	names := ActorType{}.Suggest(tc, "")
	assert.ElementsMatch(t, []string{"Steve", "Alex"}, names)
}

func TestGreedyOnlyForGreedyType(t *testing.T) {
	assert.True(t, GreedyStringType{}.Greedy())
	assert.False(t, StringType{}.Greedy())
	assert.False(t, IntType{}.Greedy())
	assert.False(t, BoolType{}.Greedy())
	assert.False(t, ActorType{}.Greedy())
}
