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

// AdminHandler declares the admin command tree reflectively. Each SubDecl
// names a method; the processor binds them once at registration.
type AdminHandler struct{}

// Declare implements command.Declarer.
func (AdminHandler) Declare() command.Declaration {
	return command.Declaration{
		Name:       "admin",
		Aliases:    []string{"adm"},
		Permission: "admin.manage",
		Help:       "Server administration",
		Subcommands: []command.SubDecl{
			{
				Method: "Status",
				Path:   "default",
				Help:   "Show server status",
			},
			{
				Method: "Ban",
				Path:   "ban",
				Help:   "Ban an online actor",
				Args: []command.ArgumentSpec{
					{Name: "target", Type: "actor", Description: "actor to ban"},
					{Name: "reason", Type: "greedy", Optional: true, Description: "ban reason"},
				},
			},
			{
				Method:   "Broadcast",
				Path:     "broadcast",
				Aliases:  []string{"bc"},
				Cooldown: 10 * time.Second,
				Help:     "Broadcast a message to all worlds",
				Args: []command.ArgumentSpec{
					{Name: "message", Type: "greedy", Description: "message to broadcast"},
				},
				Flags: []command.FlagSpec{
					{Name: "urgent", Short: "u", Description: "mark as urgent"},
				},
			},
		},
	}
}

// Status handles "admin" with no subcommand.
func (AdminHandler) Status(_ context.Context, exec *command.Execution) error {
	fmt.Fprintln(exec.Output, "Server is up.")
	return nil
}

// Ban handles "admin ban <target> [reason...]".
func (AdminHandler) Ban(_ context.Context, exec *command.Execution) error {
	target, _ := exec.Args.Get("target")
	actor, ok := target.(game.Actor)
	if !ok {
		return fmt.Errorf("target did not resolve to an actor")
	}
	reason := exec.Args.String("reason")
	if reason == "" {
		reason = "no reason given"
	}
	fmt.Fprintf(exec.Output, "Banned %s (%s).\n", actor.Name, reason)
	return nil
}

// Broadcast handles "admin broadcast <message...>".
func (AdminHandler) Broadcast(_ context.Context, exec *command.Execution) error {
	msg := exec.Args.String("message")
	if exec.Flags.Has("urgent") {
		msg = "[URGENT] " + msg
	}
	fmt.Fprintf(exec.Output, "Broadcast: %s\n", msg)
	return nil
}

// NewAdminCommand compiles the reflective admin handler.
func NewAdminCommand(proc *command.Processor) (*command.RootNode, error) {
	return proc.Process(CoreOwner, AdminHandler{})
}
