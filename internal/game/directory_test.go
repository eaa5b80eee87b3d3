// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_Actors(t *testing.T) {
	d := NewDirectory()
	d.AddActor(Actor{Name: "Steve"})
	d.AddActor(Actor{Name: "Alex"})

	a, ok := d.FindActor("steve")
	require.True(t, ok)
	assert.Equal(t, "Steve", a.Name, "lookup is case-insensitive, casing preserved")

	assert.Equal(t, []string{"Alex", "Steve"}, d.ActorNames())

	d.RemoveActor("STEVE")
	_, ok = d.FindActor("steve")
	assert.False(t, ok)
}

func TestDirectory_Worlds(t *testing.T) {
	d := NewDirectory()
	d.AddWorld(World{Name: "overworld"})
	d.AddWorld(World{Name: "nether"})

	w, ok := d.FindWorld("NETHER")
	require.True(t, ok)
	assert.Equal(t, "nether", w.Name)

	assert.Equal(t, []string{"nether", "overworld"}, d.WorldNames())

	d.RemoveWorld("nether")
	assert.Equal(t, []string{"overworld"}, d.WorldNames())
}

func TestDirectory_Concurrent(t *testing.T) {
	d := NewDirectory()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.AddActor(Actor{Name: fmt.Sprintf("actor%d", i)})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.FindActor("actor0")
				d.ActorNames()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, d.ActorNames(), 8)
}
