// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Graph is the concurrent registry of root command nodes. Resolution and
// completion read lock-free at high frequency from the game loop;
// registration is rare and may come from any goroutine, so all three
// indexes are mutated together under a single writer lock.
type Graph struct {
	writeMu sync.Mutex
	roots   sync.Map // name → *RootNode
	aliases sync.Map // alias → name
	owners  sync.Map // owner → map[string]bool (root names)
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Register inserts a root, indexes its aliases, and records it under its
// owner. A name already claimed by a different owner is overwritten with a
// logged warning: plugins load independently and last write wins.
func (g *Graph) Register(root *RootNode) {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	if prev, ok := g.roots.Load(root.Name()); ok {
		prevRoot := prev.(*RootNode)
		if prevRoot.Owner() != root.Owner() {
			slog.Warn("command conflict: overwriting existing command",
				"command", root.Name(),
				"previous_owner", prevRoot.Owner(),
				"new_owner", root.Owner())
		}
		g.removeLocked(prevRoot)
	}

	g.roots.Store(root.Name(), root)
	for _, a := range root.Aliases() {
		g.aliases.Store(a, root.Name())
	}

	names := map[string]bool{root.Name(): true}
	if existing, ok := g.owners.Load(root.Owner()); ok {
		for n := range existing.(map[string]bool) {
			names[n] = true
		}
	}
	g.owners.Store(root.Owner(), names)
}

// Unregister removes a root by name along with its aliases and owner-index
// entry. Unknown names are a no-op.
func (g *Graph) Unregister(name string) {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	if v, ok := g.roots.Load(strings.ToLower(name)); ok {
		g.removeLocked(v.(*RootNode))
	}
}

// UnregisterAll atomically purges every root registered by owner.
func (g *Graph) UnregisterAll(owner string) {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	v, ok := g.owners.Load(owner)
	if !ok {
		return
	}
	for name := range v.(map[string]bool) {
		if rv, ok := g.roots.Load(name); ok {
			root := rv.(*RootNode)
			// A later registration by another owner may have claimed
			// the name; only remove what this owner still holds.
			if root.Owner() == owner {
				g.removeLocked(root)
			}
		}
	}
	g.owners.Delete(owner)
}

// removeLocked deletes a root from all three indexes. Caller holds writeMu.
func (g *Graph) removeLocked(root *RootNode) {
	g.roots.Delete(root.Name())
	for _, a := range root.Aliases() {
		// Aliases may have been re-pointed by a later registration.
		if cur, ok := g.aliases.Load(a); ok && cur.(string) == root.Name() {
			g.aliases.Delete(a)
		}
	}
	if v, ok := g.owners.Load(root.Owner()); ok {
		names := v.(map[string]bool)
		remaining := make(map[string]bool, len(names))
		for n := range names {
			if n != root.Name() {
				remaining[n] = true
			}
		}
		if len(remaining) == 0 {
			g.owners.Delete(root.Owner())
		} else {
			g.owners.Store(root.Owner(), remaining)
		}
	}
}

// Root returns the root registered under a name or alias. O(1) either way.
func (g *Graph) Root(nameOrAlias string) (*RootNode, bool) {
	key := strings.ToLower(nameOrAlias)
	if v, ok := g.roots.Load(key); ok {
		return v.(*RootNode), true
	}
	if v, ok := g.aliases.Load(key); ok {
		if r, ok := g.roots.Load(v.(string)); ok {
			return r.(*RootNode), true
		}
	}
	return nil, false
}

// Names returns the registered root names, sorted.
func (g *Graph) Names() []string {
	var names []string
	g.roots.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}

// Resolution is the result of resolving a token list against the graph.
type Resolution struct {
	Root *RootNode
	Node *Node    // deepest matched node
	Path []string // canonical names from root to Node
	Args []string // unconsumed token suffix (candidate arguments)
}

// Resolve finds the deepest node matching a greedy longest prefix of
// tokens. A child name that collides with an intended argument value is
// always treated as a subcommand; that ambiguity is documented behavior.
func (g *Graph) Resolve(tokens []string) (Resolution, bool) {
	if len(tokens) == 0 {
		return Resolution{}, false
	}
	root, ok := g.Root(tokens[0])
	if !ok {
		return Resolution{}, false
	}

	node := &root.Node
	path := []string{root.Name()}
	rest := tokens[1:]
	for len(rest) > 0 {
		child, ok := node.Child(rest[0])
		if !ok {
			break
		}
		node = child
		path = append(path, child.Name())
		rest = rest[1:]
	}

	return Resolution{
		Root: root,
		Node: node,
		Path: path,
		Args: append([]string(nil), rest...),
	}, true
}
