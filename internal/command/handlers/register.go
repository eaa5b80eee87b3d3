// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

// Package handlers provides the core command set registered at startup.
package handlers

import (
	"github.com/stonemud/stonemud/internal/command"
)

// CoreOwner is the owner under which the core command set registers.
const CoreOwner = "core"

// RegisterAll compiles and registers the core command set. It fails fast
// on the first malformed declaration.
func RegisterAll(proc *command.Processor, graph *command.Graph) error {
	roots := []func(*command.Processor) (*command.RootNode, error){
		NewSayCommand,
		NewTeleportCommand,
		NewAdminCommand,
	}

	for _, build := range roots {
		root, err := build(proc)
		if err != nil {
			return err
		}
		graph.Register(root)
	}
	return nil
}
