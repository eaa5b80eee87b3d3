// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"

	"github.com/stonemud/stonemud/internal/access"
)

// Completion defaults.
const (
	// DefaultCompletionLimit caps the suggestion list to bound response size.
	DefaultCompletionLimit = 50

	// DefaultSuggestTTL is how long a type's suggestion list is cached.
	// Suggestion sources may scan large live collections, so identical
	// requests within the window reuse the cached list.
	DefaultSuggestTTL = 2 * time.Second

	// DefaultSuggestCacheSize bounds the number of cached suggestion lists.
	DefaultSuggestCacheSize = 256

	// suggestKeyPartialLen is how much of the partial token participates
	// in the cache key.
	suggestKeyPartialLen = 8
)

// CompleterConfig configures a Completer.
type CompleterConfig struct {
	// Limit caps the returned suggestion count. Defaults to
	// DefaultCompletionLimit if zero.
	Limit int

	// SuggestTTL is the cache window for type suggestions. Defaults to
	// DefaultSuggestTTL if zero.
	SuggestTTL time.Duration

	// SuggestCacheSize bounds cached suggestion lists. Defaults to
	// DefaultSuggestCacheSize if zero.
	SuggestCacheSize int
}

// Completer produces ranked tab-completion suggestions for partial input.
// It is safe for concurrent use; the suggestion cache is an independent
// concurrent structure decoupled from the graph's registration lock.
type Completer struct {
	graph    *Graph
	types    *TypeRegistry
	perms    access.Permissions
	services *Services
	limit    int
	ttl      time.Duration
	suggests cache.Cache[string, []string]
}

// NewCompleter creates a completer over the given graph, type registry,
// and permission checker.
func NewCompleter(graph *Graph, types *TypeRegistry, perms access.Permissions, services *Services, cfg CompleterConfig) *Completer {
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultCompletionLimit
	}
	ttl := cfg.SuggestTTL
	if ttl <= 0 {
		ttl = DefaultSuggestTTL
	}
	size := cfg.SuggestCacheSize
	if size <= 0 {
		size = DefaultSuggestCacheSize
	}
	if services == nil {
		services = &Services{}
	}
	return &Completer{
		graph:    graph,
		types:    types,
		perms:    perms,
		services: services,
		limit:    limit,
		ttl:      ttl,
		suggests: cache.NewCache[string, []string]().WithTTL(ttl).WithMaxKeys(size),
	}
}

// Complete returns ordered suggestions for the in-progress last token of
// args under the command labeled label. Results are deduplicated, filtered
// by case-insensitive prefix, sorted case-insensitively, and capped.
// Deterministic for identical inputs within the cache window.
func (c *Completer) Complete(ctx context.Context, sender access.Subject, label string, args []string) []string {
	partial := ""
	consumed := args
	if len(args) > 0 {
		partial = args[len(args)-1]
		consumed = args[:len(args)-1]
	}

	tokens := append([]string{label}, consumed...)
	res, ok := c.graph.Resolve(tokens)
	if !ok {
		return nil
	}
	if !c.reachable(ctx, sender, res) {
		return nil
	}
	node := res.Node

	var candidates []string
	switch {
	case strings.HasPrefix(partial, "--"):
		candidates = longFlagCandidates(node)

	case strings.HasPrefix(partial, "-") && len(partial) > 1 && !negativeNumber.MatchString(partial):
		candidates = shortFlagCandidates(node)

	default:
		candidates = c.defaultCandidates(ctx, sender, res, partial)
	}

	return rank(candidates, partial, c.limit)
}

// defaultCandidates merges visible child names, positional argument
// suggestions, and the help child.
func (c *Completer) defaultCandidates(ctx context.Context, sender access.Subject, res Resolution, partial string) []string {
	node := res.Node
	var candidates []string

	for _, child := range node.Children() {
		if !c.visible(ctx, sender, child) {
			continue
		}
		candidates = append(candidates, child.Name())
		candidates = append(candidates, child.Aliases()...)
	}

	if node.Executable() && len(node.args) > 0 {
		positional := flaglessTokens(res.Args, partial, node.flags)
		if idx := SuggestIndex(positional, node.args); idx >= 0 {
			spec := node.args[idx]
			candidates = append(candidates, c.suggestFor(ctx, sender, res, spec, idx, partial)...)
		}
	}

	if len(node.Children()) > 0 {
		candidates = append(candidates, "help")
	}

	return candidates
}

// reachable reports whether sender may traverse every node on the resolved
// chain. Mirrors the dispatcher's permission walk so completion never leaks
// names the sender could not execute anyway.
func (c *Completer) reachable(ctx context.Context, sender access.Subject, res Resolution) bool {
	node := &res.Root.Node
	for depth := 0; ; depth++ {
		if !c.visible(ctx, sender, node) {
			return false
		}
		if depth+1 >= len(res.Path) {
			return true
		}
		child, ok := node.Child(res.Path[depth+1])
		if !ok {
			return true
		}
		node = child
	}
}

// visible reports whether sender may see a child in completion output.
func (c *Completer) visible(ctx context.Context, sender access.Subject, child *Node) bool {
	if child.PlayerOnly() && sender.Class != access.ClassPlayer {
		return false
	}
	if p := child.Permission(); p != "" && !c.perms.Has(ctx, sender, p) {
		return false
	}
	return true
}

// suggestFor returns the type's suggestions for one argument position,
// served from the bounded TTL cache when possible. Cached lists are
// immutable; callers receive them read-only through rank's copy.
func (c *Completer) suggestFor(ctx context.Context, sender access.Subject, res Resolution, spec ArgumentSpec, pos int, partial string) []string {
	trunc := strings.ToLower(partial)
	if len(trunc) > suggestKeyPartialLen {
		trunc = trunc[:suggestKeyPartialLen]
	}
	key := strings.Join(res.Path, " ") + "|" + strconv.Itoa(pos) + "|" + spec.Type + "|" + trunc

	if cached, ok := c.suggests.Get(key); ok {
		RecordCompletionCacheLookup("hit")
		return cached
	}
	RecordCompletionCacheLookup("miss")

	typ, ok := c.types.GetForOwner(res.Root.Owner(), spec.Type)
	if !ok {
		return nil
	}
	tc := &TypeContext{Context: ctx, Sender: sender, Services: c.services}
	suggestions := typ.Suggest(tc, partial)

	frozen := make([]string, len(suggestions))
	copy(frozen, suggestions)
	c.suggests.Set(key, frozen, c.ttl)
	return frozen
}

// longFlagCandidates returns "--name" for each flag spec plus the
// always-available "--help".
func longFlagCandidates(node *Node) []string {
	out := make([]string, 0, len(node.flags)+1)
	for _, f := range node.flags {
		out = append(out, "--"+strings.ToLower(f.Name))
	}
	out = append(out, "--help")
	return out
}

// shortFlagCandidates returns "-x" for each declared short name.
func shortFlagCandidates(node *Node) []string {
	var out []string
	for _, f := range node.flags {
		if f.Short != "" {
			out = append(out, "-"+strings.ToLower(f.Short))
		}
	}
	return out
}

// flaglessTokens rebuilds the positional token list the cursor sits in:
// consumed tokens minus flags, plus the in-progress partial.
func flaglessTokens(consumed []string, partial string, specs []FlagSpec) []string {
	_, positional := ParseFlags(consumed, specs)
	return append(positional, partial)
}

// rank deduplicates, prefix-filters, sorts case-insensitively, and caps
// the candidate list.
func rank(candidates []string, partial string, limit int) []string {
	prefix := strings.ToLower(partial)
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		if cand == "" {
			continue
		}
		lower := strings.ToLower(cand)
		if seen[lower] {
			continue
		}
		if prefix != "" && !strings.HasPrefix(lower, prefix) {
			continue
		}
		seen[lower] = true
		out = append(out, cand)
	}

	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i]), strings.ToLower(out[j])
		if li == lj {
			return out[i] < out[j]
		}
		return li < lj
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
