// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"regexp"
	"strings"
)

// negativeNumber matches leading-dash tokens that are signed numbers, which
// are positional arguments rather than flags.
var negativeNumber = regexp.MustCompile(`^-[0-9]+(\.[0-9]+)?$`)

// ParsedFlags is the immutable post-parse flag bag. Keys are lowercase long
// names; unknown flags appear under their literal name.
type ParsedFlags struct {
	present map[string]bool
	values  map[string]string
}

// Has reports whether the flag was present on the command line.
func (f *ParsedFlags) Has(name string) bool {
	return f.present[strings.ToLower(name)]
}

// Value returns the flag's value and whether one is set. Defaults from the
// flag's spec count as set even when the flag was absent.
func (f *ParsedFlags) Value(name string) (string, bool) {
	v, ok := f.values[strings.ToLower(name)]
	return v, ok
}

// Names returns the set of present flag names. The slice is a copy.
func (f *ParsedFlags) Names() []string {
	names := make([]string, 0, len(f.present))
	for n := range f.present {
		names = append(names, n)
	}
	return names
}

// ParseFlags splits tokens into flags and positional arguments according to
// the node's flag specs. The grammar, in priority order per token:
//
//  1. "--" alone ends flag parsing; the rest is positional.
//  2. "--name=value" sets a value explicitly.
//  3. "--name" consumes the next token as its value when the spec carries
//     one, otherwise marks the flag present.
//  4. "-abc" resolves each letter against short names; a value-carrying
//     short flag mid-cluster takes the rest of the token as its value, and
//     in last position takes the next token.
//  5. Unknown flags are not errors; they are stored boolean-present under
//     their literal name.
//  6. Leading-dash numbers ("-5", "-3.14") are positional.
//
// ParseFlags is pure and has no failure mode.
func ParseFlags(tokens []string, specs []FlagSpec) (*ParsedFlags, []string) {
	flags := &ParsedFlags{
		present: make(map[string]bool),
		values:  make(map[string]string),
	}
	var positional []string

	byName := make(map[string]FlagSpec, len(specs))
	byShort := make(map[string]FlagSpec, len(specs))
	for _, s := range specs {
		byName[strings.ToLower(s.Name)] = s
		if s.Short != "" {
			byShort[strings.ToLower(s.Short)] = s
		}
	}

	flagsDone := false
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case flagsDone:
			positional = append(positional, tok)

		case tok == "--":
			flagsDone = true

		case strings.HasPrefix(tok, "--"):
			// Only the name is case-insensitive; the value stays verbatim.
			body := tok[2:]
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				name := strings.ToLower(body[:eq])
				flags.present[name] = true
				flags.values[name] = body[eq+1:]
				continue
			}
			name := strings.ToLower(body)
			flags.present[name] = true
			if spec, ok := byName[name]; ok && spec.HasValue && i+1 < len(tokens) {
				i++
				flags.values[name] = tokens[i]
			}

		case len(tok) > 1 && tok[0] == '-' && !negativeNumber.MatchString(tok):
			// Short cluster: each character is a flag until a
			// value-carrying one swallows the remainder.
			chars := tok[1:]
			for j := 0; j < len(chars); j++ {
				ch := strings.ToLower(string(chars[j]))
				spec, known := byShort[ch]
				name := ch
				if known {
					name = strings.ToLower(spec.Name)
				}
				flags.present[name] = true
				if !known || !spec.HasValue {
					continue
				}
				if j+1 < len(chars) {
					flags.values[name] = chars[j+1:]
				} else if i+1 < len(tokens) {
					i++
					flags.values[name] = tokens[i]
				}
				break
			}

		default:
			positional = append(positional, tok)
		}
	}

	// Defaults for value flags that never appeared.
	for _, s := range specs {
		name := strings.ToLower(s.Name)
		if s.HasValue && s.Default != "" && !flags.present[name] {
			flags.values[name] = s.Default
		}
	}

	return flags, positional
}
