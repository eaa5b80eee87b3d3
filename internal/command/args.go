// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"strings"
)

// ParsedArgs is the immutable post-parse argument bag keyed by spec name.
// The raw positional token list is retained for greedy and overflow use.
type ParsedArgs struct {
	values     map[string]any
	positional []string
}

// Get returns the parsed value for a spec name.
func (a *ParsedArgs) Get(name string) (any, bool) {
	v, ok := a.values[strings.ToLower(name)]
	return v, ok
}

// String returns the value as a string, or "" when absent or mistyped.
func (a *ParsedArgs) String(name string) string {
	if v, ok := a.Get(name); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Int returns the value as int64, or 0 when absent or mistyped.
func (a *ParsedArgs) Int(name string) int64 {
	if v, ok := a.Get(name); ok {
		if n, ok := v.(int64); ok {
			return n
		}
	}
	return 0
}

// Float returns the value as float64, or 0 when absent or mistyped.
func (a *ParsedArgs) Float(name string) float64 {
	if v, ok := a.Get(name); ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

// Bool returns the value as bool, or false when absent or mistyped.
func (a *ParsedArgs) Bool(name string) bool {
	if v, ok := a.Get(name); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Positional returns a copy of the raw positional token list.
func (a *ParsedArgs) Positional() []string {
	out := make([]string, len(a.positional))
	copy(out, a.positional)
	return out
}

// ArgParser parses positional tokens against ordered argument specs,
// resolving type names through a registry scoped to the owning command.
type ArgParser struct {
	types *TypeRegistry
	owner string
}

// NewArgParser creates a parser resolving types for the given owner.
func NewArgParser(types *TypeRegistry, owner string) *ArgParser {
	return &ArgParser{types: types, owner: owner}
}

// Parse walks specs in order, parsing one token per spec. Missing tokens
// fall back to the spec default (parsed through the same type), then to
// skipping when the spec is optional, then to MISSING_ARGUMENT. A greedy
// last spec joins all remaining tokens with single spaces; any other
// overflow is TOO_MANY_ARGUMENTS.
func (p *ArgParser) Parse(tc *TypeContext, tokens []string, specs []ArgumentSpec) (*ParsedArgs, error) {
	parsed := &ParsedArgs{
		values:     make(map[string]any, len(specs)),
		positional: append([]string(nil), tokens...),
	}

	next := 0
	for i, spec := range specs {
		typ, ok := p.types.GetForOwner(p.owner, spec.Type)
		if !ok {
			return nil, ErrInvalidArgument(spec.Name, "unknown argument type "+spec.Type)
		}

		// A greedy last spec takes everything that remains.
		if typ.Greedy() && i == len(specs)-1 && next < len(tokens) {
			raw := strings.Join(tokens[next:], " ")
			next = len(tokens)
			v, err := typ.Parse(tc, raw)
			if err != nil {
				return nil, ErrInvalidArgument(spec.Name, err.Error())
			}
			parsed.values[strings.ToLower(spec.Name)] = v
			continue
		}

		if next < len(tokens) {
			v, err := typ.Parse(tc, tokens[next])
			if err != nil {
				return nil, ErrInvalidArgument(spec.Name, err.Error())
			}
			parsed.values[strings.ToLower(spec.Name)] = v
			next++
			continue
		}

		if spec.Default != "" {
			v, err := typ.Parse(tc, spec.Default)
			if err != nil {
				return nil, ErrInvalidArgument(spec.Name, "bad default: "+err.Error())
			}
			parsed.values[strings.ToLower(spec.Name)] = v
			continue
		}

		if spec.Optional {
			continue
		}

		return nil, ErrMissingArgument(spec.Name, Usage(specs))
	}

	if next < len(tokens) {
		return nil, ErrTooManyArguments(len(specs), len(tokens))
	}

	return parsed, nil
}

// SuggestIndex returns the 0-based spec index under the cursor for the
// given token list: len(tokens)-1 clamped into the spec range. Returns -1
// when there are no specs.
func SuggestIndex(tokens []string, specs []ArgumentSpec) int {
	if len(specs) == 0 {
		return -1
	}
	idx := len(tokens) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(specs) {
		idx = len(specs) - 1
	}
	return idx
}

// Usage renders a usage fragment from argument specs, e.g.
// "<player> [amount]".
func Usage(specs []ArgumentSpec) string {
	parts := make([]string, 0, len(specs))
	for _, s := range specs {
		if s.Optional || s.Default != "" {
			parts = append(parts, "["+s.Name+"]")
		} else {
			parts = append(parts, "<"+s.Name+">")
		}
	}
	return strings.Join(parts, " ")
}
