// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"context"
	"reflect"
	"strings"
	"time"
)

// Declaration describes a reflective handler's command tree. The processor
// pairs each SubDecl with a method on the declaring value.
type Declaration struct {
	Name        string
	Aliases     []string
	Permission  string
	PlayerOnly  bool
	Cooldown    time.Duration
	Help        string
	Subcommands []SubDecl
}

// SubDecl declares one executable path of a reflective handler. Path is a
// space-separated subcommand path under the root; "" or "default" binds the
// method as the root's own executor. Intermediate path segments become
// non-executable nodes.
type SubDecl struct {
	Method     string // exported method name on the handler value
	Path       string
	Aliases    []string // aliases for the final path segment
	Permission string
	PlayerOnly bool
	Cooldown   time.Duration
	Help       string
	Args       []ArgumentSpec
	Flags      []FlagSpec
}

// Declarer is implemented by reflective command handlers.
type Declarer interface {
	Declare() Declaration
}

// Processor compiles declarative command descriptions into immutable root
// nodes with one pre-bound executor per executable path. All reflection
// happens here, exactly once per registration; dispatch never inspects
// type metadata.
type Processor struct {
	types *TypeRegistry
}

// NewProcessor creates a processor resolving argument types through reg.
func NewProcessor(reg *TypeRegistry) *Processor {
	return &Processor{types: reg}
}

// Compile finalizes a fluent builder tree, applying the registry-dependent
// spec checks (known types, greedy placement) the builder cannot do alone.
func (p *Processor) Compile(rb *RootBuilder) (*RootNode, error) {
	root, err := rb.Build()
	if err != nil {
		return nil, err
	}
	if err := p.validateTree(root.Owner(), &root.Node); err != nil {
		return nil, err
	}
	return root, nil
}

// Process compiles a reflective handler into a root node. Malformed
// declarations fail fast with a PROCESSING error; nothing is registered.
func (p *Processor) Process(owner string, h Declarer) (*RootNode, error) {
	decl := h.Declare()

	rb := NewRoot(decl.Name, owner).
		Aliases(decl.Aliases...).
		Permission(decl.Permission).
		Cooldown(decl.Cooldown).
		Help(decl.Help)
	if decl.PlayerOnly {
		rb.PlayerOnly()
	}

	hv := reflect.ValueOf(h)
	// One builder per path segment, shared between declarations: a path
	// may be both an executable leaf and a parent of deeper leaves, in
	// either declaration order.
	builders := make(map[string]*Builder)

	for _, sub := range decl.Subcommands {
		exec, err := bindMethod(decl.Name, hv, sub.Method)
		if err != nil {
			return nil, err
		}

		path := strings.Fields(strings.ToLower(sub.Path))
		if len(path) == 0 || (len(path) == 1 && path[0] == "default") {
			rb.Args(sub.Args...).Flags(sub.Flags...).Executes(exec)
			continue
		}

		leaf := attachSub(rb, builders, path)
		if leaf.node.executor != nil {
			return nil, ErrProcessing(decl.Name, "duplicate declaration for path "+sub.Path)
		}
		leaf.Aliases(sub.Aliases...).
			Permission(sub.Permission).
			Cooldown(sub.Cooldown).
			Help(sub.Help).
			Args(sub.Args...).
			Flags(sub.Flags...).
			Executes(exec)
		if sub.PlayerOnly {
			leaf.PlayerOnly()
		}
	}

	return p.Compile(rb)
}

// attachSub returns the builder at path, creating and attaching any missing
// builders along the way. Nodes created for inner segments stay
// non-executable until a declaration claims them.
func attachSub(rb *RootBuilder, builders map[string]*Builder, path []string) *Builder {
	var parent *Builder
	for i := range path {
		key := strings.Join(path[:i+1], " ")
		b, ok := builders[key]
		if !ok {
			b = NewSub(path[i])
			builders[key] = b
			if parent == nil {
				rb.Sub(b)
			} else {
				parent.Sub(b)
			}
		}
		parent = b
	}
	return parent
}

// bindMethod resolves and binds a handler method once, producing a
// reflection-free executor. The method must have the canonical signature
// func(context.Context, *Execution) error.
func bindMethod(cmd string, hv reflect.Value, method string) (Executor, error) {
	if method == "" {
		return nil, ErrProcessing(cmd, "subcommand declaration missing method name")
	}
	m := hv.MethodByName(method)
	if !m.IsValid() {
		return nil, ErrProcessing(cmd, "no method "+method+" on handler")
	}
	fn, ok := m.Interface().(func(context.Context, *Execution) error)
	if !ok {
		return nil, ErrProcessing(cmd, "method "+method+" does not have signature func(context.Context, *Execution) error")
	}
	return Executor(fn), nil
}

// validateTree applies registry-dependent spec checks to every node.
func (p *Processor) validateTree(owner string, n *Node) error {
	for i, spec := range n.args {
		typ, ok := p.types.GetForOwner(owner, spec.Type)
		if !ok {
			return ErrProcessing(n.name, "unknown argument type "+spec.Type+" for "+spec.Name)
		}
		if typ.Greedy() && i != len(n.args)-1 {
			return ErrProcessing(n.name, "greedy argument "+spec.Name+" must be last")
		}
	}
	for _, c := range n.Children() {
		if err := p.validateTree(owner, c); err != nil {
			return err
		}
	}
	return nil
}
