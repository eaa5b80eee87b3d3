// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

// Package game defines the host collaborators the command framework looks
// up at parse and completion time: online actors and loaded worlds. The
// real game engine supplies these; Directory is an in-memory implementation
// used by tests and the interactive console.
package game

import (
	"sort"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Actor is an online actor visible to name lookup.
type Actor struct {
	ID   ulid.ULID
	Name string
}

// World is a loaded world visible to name lookup.
type World struct {
	Name string
}

// ActorDirectory resolves online actors by name.
type ActorDirectory interface {
	// FindActor returns the actor with the given name, case-insensitive.
	FindActor(name string) (Actor, bool)
	// ActorNames returns the display names of all online actors.
	ActorNames() []string
}

// WorldDirectory resolves loaded worlds by name.
type WorldDirectory interface {
	// FindWorld returns the world with the given name, case-insensitive.
	FindWorld(name string) (World, bool)
	// WorldNames returns the names of all loaded worlds.
	WorldNames() []string
}

// Directory is an in-memory ActorDirectory and WorldDirectory.
// It is safe for concurrent use.
type Directory struct {
	mu     sync.RWMutex
	actors map[string]Actor // lowercase name → actor
	worlds map[string]World // lowercase name → world
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{
		actors: make(map[string]Actor),
		worlds: make(map[string]World),
	}
}

// AddActor registers an online actor. An existing actor with the same
// name (case-insensitive) is replaced.
func (d *Directory) AddActor(a Actor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actors[strings.ToLower(a.Name)] = a
}

// RemoveActor removes an actor by name.
func (d *Directory) RemoveActor(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.actors, strings.ToLower(name))
}

// FindActor implements ActorDirectory.
func (d *Directory) FindActor(name string) (Actor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.actors[strings.ToLower(name)]
	return a, ok
}

// ActorNames implements ActorDirectory. Names are sorted for deterministic
// suggestion output.
func (d *Directory) ActorNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.actors))
	for _, a := range d.actors {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// AddWorld registers a loaded world.
func (d *Directory) AddWorld(w World) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.worlds[strings.ToLower(w.Name)] = w
}

// RemoveWorld removes a world by name.
func (d *Directory) RemoveWorld(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.worlds, strings.ToLower(name))
}

// FindWorld implements WorldDirectory.
func (d *Directory) FindWorld(name string) (World, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	w, ok := d.worlds[strings.ToLower(name)]
	return w, ok
}

// WorldNames implements WorldDirectory.
func (d *Directory) WorldNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.worlds))
	for _, w := range d.worlds {
		names = append(names, w.Name)
	}
	sort.Strings(names)
	return names
}
