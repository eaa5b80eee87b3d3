// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

// Package command provides the command registration, parsing, dispatch, and
// tab-completion system.
package command

import (
	"context"
	"io"

	"github.com/stonemud/stonemud/internal/access"
	"github.com/stonemud/stonemud/internal/game"
)

// Executor is the compiled invocation target for an executable node. It is
// bound once at registration time; dispatch never inspects type metadata.
type Executor func(ctx context.Context, exec *Execution) error

// Execution provides context for command execution.
type Execution struct {
	Sender   access.Subject
	Label    string   // root name or alias as invoked
	Path     []string // canonical names from root to the executing node
	Args     *ParsedArgs
	Flags    *ParsedFlags
	Output   io.Writer
	Services *Services
}

// Services provides access to host collaborators for command handlers and
// type-aware argument parsers. Handlers MUST NOT retain references beyond
// execution.
type Services struct {
	Actors game.ActorDirectory
	Worlds game.WorldDirectory
}

// ArgumentSpec declares one positional argument of an executable node.
// Within one node's spec list all required arguments precede optional ones,
// and only the last spec may use a greedy type.
type ArgumentSpec struct {
	Name        string
	Type        string // type name resolved through the TypeRegistry
	Optional    bool
	Default     string // raw default, parsed lazily through the same type
	Description string
}

// FlagSpec declares one flag of an executable node. Flag names are
// case-insensitive and unique per node; "help"/"h" are implicitly reserved.
type FlagSpec struct {
	Name        string
	Short       string // single character, optional
	HasValue    bool
	Default     string // raw default for value flags, applied when absent
	Description string
}

// TypeContext carries sender identity and host services to type-aware
// parsers and suggesters.
type TypeContext struct {
	Context  context.Context
	Sender   access.Subject
	Services *Services
}
