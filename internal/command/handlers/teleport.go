// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/stonemud/stonemud/internal/command"
	"github.com/stonemud/stonemud/internal/game"
)

// NewTeleportCommand builds the teleport command through the fluent path.
// Usage: teleport <target> [--world <name>] [--force]
func NewTeleportCommand(proc *command.Processor) (*command.RootNode, error) {
	return proc.Compile(
		command.NewRoot("teleport", CoreOwner).
			Aliases("tp").
			Permission("command.teleport").
			Cooldown(3 * time.Second).
			Help("Teleport an online actor").
			Arg(command.ArgumentSpec{
				Name:        "target",
				Type:        "actor",
				Description: "actor to teleport",
			}).
			Flag(command.FlagSpec{
				Name:        "world",
				Short:       "w",
				HasValue:    true,
				Description: "destination world",
			}).
			Flag(command.FlagSpec{
				Name:        "force",
				Short:       "f",
				Description: "skip safety checks",
			}).
			Executes(teleport),
	)
}

func teleport(_ context.Context, exec *command.Execution) error {
	target, _ := exec.Args.Get("target")
	actor, ok := target.(game.Actor)
	if !ok {
		return fmt.Errorf("target did not resolve to an actor")
	}

	dest := "overworld"
	if w, ok := exec.Flags.Value("world"); ok {
		if exec.Services.Worlds != nil {
			if _, found := exec.Services.Worlds.FindWorld(w); !found {
				return fmt.Errorf("no world named %q is loaded", w)
			}
		}
		dest = w
	}

	if exec.Flags.Has("force") {
		fmt.Fprintf(exec.Output, "Forcibly teleported %s to %s.\n", actor.Name, dest)
		return nil
	}
	fmt.Fprintf(exec.Output, "Teleported %s to %s.\n", actor.Name, dest)
	return nil
}
