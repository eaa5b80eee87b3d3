// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"sort"
	"strings"
	"time"
)

// Node is one entry in a command tree. Nodes are immutable after build;
// a node may have children and still be directly executable.
type Node struct {
	name       string
	aliases    []string
	permission string
	playerOnly bool
	cooldown   time.Duration
	args       []ArgumentSpec
	flags      []FlagSpec
	children   map[string]*Node // keyed by child name AND child alias
	executor   Executor
	help       string
}

// Name returns the canonical lowercase name.
func (n *Node) Name() string { return n.name }

// Aliases returns a copy of the node's aliases.
func (n *Node) Aliases() []string {
	return append([]string(nil), n.aliases...)
}

// Permission returns the permission required to use this node, or "".
func (n *Node) Permission() string { return n.permission }

// PlayerOnly reports whether only player senders may execute this node.
func (n *Node) PlayerOnly() bool { return n.playerOnly }

// Cooldown returns the per-sender cooldown window, or 0 for none.
func (n *Node) Cooldown() time.Duration { return n.cooldown }

// Args returns a copy of the ordered argument specs.
func (n *Node) Args() []ArgumentSpec {
	return append([]ArgumentSpec(nil), n.args...)
}

// Flags returns a copy of the flag specs.
func (n *Node) Flags() []FlagSpec {
	return append([]FlagSpec(nil), n.flags...)
}

// Help returns the one-line description.
func (n *Node) Help() string { return n.help }

// Child looks up a direct child by name or alias, case-insensitive.
func (n *Node) Child(nameOrAlias string) (*Node, bool) {
	c, ok := n.children[strings.ToLower(nameOrAlias)]
	return c, ok
}

// Children returns the distinct child nodes sorted by name.
func (n *Node) Children() []*Node {
	seen := make(map[string]*Node, len(n.children))
	for _, c := range n.children {
		seen[c.name] = c
	}
	out := make([]*Node, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Executable reports whether the node has a compiled executor.
func (n *Node) Executable() bool { return n.executor != nil }

// Executor returns the node's compiled executor, or nil.
func (n *Node) Executor() Executor { return n.executor }

// RootNode is a top-level command tree entry. It additionally records the
// registering owner for bulk lifecycle and carries the alias set used for
// top-level lookup.
type RootNode struct {
	Node
	owner string
}

// Owner returns the registering owner.
func (r *RootNode) Owner() string { return r.owner }

// Builder assembles a Node. All setters canonicalize and defensively copy;
// Build validates and freezes the result. Spec invariants that need the
// type registry (greedy placement, unknown types) are enforced by the
// Processor.
type Builder struct {
	node Node
	subs []*Builder
}

// NewSub starts a builder for a nested subcommand node.
func NewSub(name string) *Builder {
	return &Builder{node: Node{
		name:     strings.ToLower(strings.TrimSpace(name)),
		children: make(map[string]*Node),
	}}
}

// Aliases adds lowercase-canonicalized aliases.
func (b *Builder) Aliases(aliases ...string) *Builder {
	for _, a := range aliases {
		b.node.aliases = append(b.node.aliases, strings.ToLower(strings.TrimSpace(a)))
	}
	return b
}

// Permission sets the permission required for this node.
func (b *Builder) Permission(p string) *Builder {
	b.node.permission = p
	return b
}

// PlayerOnly marks the node as unusable from the console.
func (b *Builder) PlayerOnly() *Builder {
	b.node.playerOnly = true
	return b
}

// Cooldown sets the per-sender cooldown window.
func (b *Builder) Cooldown(d time.Duration) *Builder {
	b.node.cooldown = d
	return b
}

// Help sets the one-line description.
func (b *Builder) Help(h string) *Builder {
	b.node.help = h
	return b
}

// Arg appends an argument spec.
func (b *Builder) Arg(spec ArgumentSpec) *Builder {
	b.node.args = append(b.node.args, spec)
	return b
}

// Args appends argument specs in order.
func (b *Builder) Args(specs ...ArgumentSpec) *Builder {
	b.node.args = append(b.node.args, specs...)
	return b
}

// Flag appends a flag spec.
func (b *Builder) Flag(spec FlagSpec) *Builder {
	b.node.flags = append(b.node.flags, spec)
	return b
}

// Flags appends flag specs.
func (b *Builder) Flags(specs ...FlagSpec) *Builder {
	b.node.flags = append(b.node.flags, specs...)
	return b
}

// Executes sets the node's executor.
func (b *Builder) Executes(e Executor) *Builder {
	b.node.executor = e
	return b
}

// Sub attaches a child builder.
func (b *Builder) Sub(sub *Builder) *Builder {
	b.subs = append(b.subs, sub)
	return b
}

// build validates this builder and its subtree and produces the frozen node.
func (b *Builder) build() (*Node, error) {
	if err := ValidateCommandName(b.node.name); err != nil {
		return nil, err
	}
	for _, a := range b.node.aliases {
		if err := ValidateAliasName(a); err != nil {
			return nil, err
		}
	}
	if err := validateArgOrder(b.node.name, b.node.args); err != nil {
		return nil, err
	}
	if err := validateFlagSpecs(b.node.name, b.node.flags); err != nil {
		return nil, err
	}

	n := b.node
	n.aliases = append([]string(nil), b.node.aliases...)
	n.args = append([]ArgumentSpec(nil), b.node.args...)
	n.flags = append([]FlagSpec(nil), b.node.flags...)
	n.children = make(map[string]*Node)

	for _, sub := range b.subs {
		child, err := sub.build()
		if err != nil {
			return nil, err
		}
		if _, dup := n.children[child.name]; dup {
			return nil, ErrProcessing(n.name, "duplicate subcommand "+child.name)
		}
		n.children[child.name] = child
		for _, a := range child.aliases {
			if _, dup := n.children[a]; dup {
				return nil, ErrProcessing(n.name, "alias "+a+" collides within sibling scope")
			}
			n.children[a] = child
		}
	}

	return &n, nil
}

// validateArgOrder enforces that required arguments precede optional ones.
func validateArgOrder(cmd string, specs []ArgumentSpec) error {
	optionalSeen := false
	for _, s := range specs {
		optional := s.Optional || s.Default != ""
		if optionalSeen && !optional {
			return ErrProcessing(cmd, "required argument "+s.Name+" follows an optional one")
		}
		if optional {
			optionalSeen = true
		}
	}
	return nil
}

// validateFlagSpecs enforces case-insensitive uniqueness and the reserved
// help/h names.
func validateFlagSpecs(cmd string, specs []FlagSpec) error {
	names := make(map[string]bool, len(specs))
	shorts := make(map[string]bool, len(specs))
	for _, s := range specs {
		name := strings.ToLower(s.Name)
		if name == "help" || name == "h" {
			return ErrProcessing(cmd, "flag name "+name+" is reserved")
		}
		if names[name] {
			return ErrProcessing(cmd, "duplicate flag "+name)
		}
		names[name] = true
		if s.Short == "" {
			continue
		}
		short := strings.ToLower(s.Short)
		if len(short) != 1 {
			return ErrProcessing(cmd, "short flag for "+name+" must be a single character")
		}
		if short == "h" {
			return ErrProcessing(cmd, "short flag h is reserved")
		}
		if shorts[short] {
			return ErrProcessing(cmd, "duplicate short flag "+short)
		}
		shorts[short] = true
	}
	return nil
}

// RootBuilder assembles a RootNode for an owner.
type RootBuilder struct {
	Builder
	owner string
}

// NewRoot starts a builder for a top-level command owned by owner.
func NewRoot(name, owner string) *RootBuilder {
	rb := &RootBuilder{owner: owner}
	rb.node = Node{
		name:     strings.ToLower(strings.TrimSpace(name)),
		children: make(map[string]*Node),
	}
	return rb
}

// Aliases adds lowercase-canonicalized aliases.
func (rb *RootBuilder) Aliases(aliases ...string) *RootBuilder {
	rb.Builder.Aliases(aliases...)
	return rb
}

// Permission sets the permission required for this command.
func (rb *RootBuilder) Permission(p string) *RootBuilder {
	rb.Builder.Permission(p)
	return rb
}

// PlayerOnly marks the command as unusable from the console.
func (rb *RootBuilder) PlayerOnly() *RootBuilder {
	rb.Builder.PlayerOnly()
	return rb
}

// Cooldown sets the per-sender cooldown window.
func (rb *RootBuilder) Cooldown(d time.Duration) *RootBuilder {
	rb.Builder.Cooldown(d)
	return rb
}

// Help sets the one-line description.
func (rb *RootBuilder) Help(h string) *RootBuilder {
	rb.Builder.Help(h)
	return rb
}

// Arg appends an argument spec.
func (rb *RootBuilder) Arg(spec ArgumentSpec) *RootBuilder {
	rb.Builder.Arg(spec)
	return rb
}

// Args appends argument specs in order.
func (rb *RootBuilder) Args(specs ...ArgumentSpec) *RootBuilder {
	rb.Builder.Args(specs...)
	return rb
}

// Flag appends a flag spec.
func (rb *RootBuilder) Flag(spec FlagSpec) *RootBuilder {
	rb.Builder.Flag(spec)
	return rb
}

// Flags appends flag specs.
func (rb *RootBuilder) Flags(specs ...FlagSpec) *RootBuilder {
	rb.Builder.Flags(specs...)
	return rb
}

// Executes sets the root's own executor.
func (rb *RootBuilder) Executes(e Executor) *RootBuilder {
	rb.Builder.Executes(e)
	return rb
}

// Sub attaches a child builder.
func (rb *RootBuilder) Sub(sub *Builder) *RootBuilder {
	rb.Builder.Sub(sub)
	return rb
}

// Build validates the whole tree and produces the immutable root.
func (rb *RootBuilder) Build() (*RootNode, error) {
	if rb.owner == "" {
		return nil, ErrProcessing(rb.node.name, "owner is required")
	}
	n, err := rb.build()
	if err != nil {
		return nil, err
	}
	return &RootNode{Node: *n, owner: rb.owner}, nil
}
