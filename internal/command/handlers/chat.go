// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package handlers

import (
	"context"
	"fmt"

	"github.com/stonemud/stonemud/internal/command"
)

// NewSayCommand builds the say command through the fluent path.
// Usage: say <message...>
func NewSayCommand(proc *command.Processor) (*command.RootNode, error) {
	return proc.Compile(
		command.NewRoot("say", CoreOwner).
			Aliases("s").
			Permission("chat.say").
			Help("Speak to everyone in your location").
			Arg(command.ArgumentSpec{
				Name:        "message",
				Type:        "greedy",
				Description: "what to say",
			}).
			Executes(say),
	)
}

func say(_ context.Context, exec *command.Execution) error {
	fmt.Fprintf(exec.Output, "%s says, \"%s\"\n", exec.Sender.Name, exec.Args.String("message"))
	return nil
}
