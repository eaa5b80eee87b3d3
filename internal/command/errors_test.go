// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "Something went wrong. Try again.",
		},
		{
			name: "plain error",
			err:  errors.New("pg: connection refused"),
			want: "Something went wrong. Try again.",
		},
		{
			name: "unknown command",
			err:  ErrUnknownCommand("fly"),
			want: "Unknown command. Try 'help'.",
		},
		{
			name: "missing argument with usage",
			err:  ErrMissingArgument("amount", "<player> [amount]"),
			want: "Missing argument 'amount'. Usage: <player> [amount]",
		},
		{
			name: "missing argument without usage",
			err:  ErrMissingArgument("amount", ""),
			want: "Missing argument 'amount'.",
		},
		{
			name: "invalid argument",
			err:  ErrInvalidArgument("amount", "not a whole number"),
			want: "Invalid value for 'amount': not a whole number",
		},
		{
			name: "too many arguments",
			err:  ErrTooManyArguments(1, 3),
			want: "Too many arguments.",
		},
		{
			name: "permission denied",
			err:  ErrPermissionDenied("admin ban", "admin.ban"),
			want: "You don't have permission to do that.",
		},
		{
			name: "player only",
			err:  ErrPlayerOnly("suicide"),
			want: "Only players can use that command.",
		},
		{
			name: "cooldown with remaining",
			err:  ErrCooldownActive("home", 2500*time.Millisecond),
			want: "Command on cooldown. Try again in 2.5s.",
		},
		{
			name: "rate limited",
			err:  ErrRateLimited(500),
			want: "Too many commands. Please slow down.",
		},
		{
			name: "handler failure hides the cause",
			err:  ErrHandlerFailure("give", errors.New("inventory table missing")),
			want: "Something went wrong. Try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestErrorCodes(t *testing.T) {
	assertCode(t, ErrProcessing("x", "bad"), CodeProcessing)
	assertCode(t, ErrUnknownCommand("x"), CodeUnknownCommand)
	assertCode(t, ErrMissingArgument("a", ""), CodeMissingArgument)
	assertCode(t, ErrInvalidArgument("a", "r"), CodeInvalidArgument)
	assertCode(t, ErrTooManyArguments(1, 2), CodeTooManyArguments)
	assertCode(t, ErrPermissionDenied("x", "p"), CodePermissionDenied)
	assertCode(t, ErrPlayerOnly("x"), CodePlayerOnly)
	assertCode(t, ErrCooldownActive("x", time.Second), CodeCooldownActive)
	assertCode(t, ErrRateLimited(100), CodeRateLimited)
	assertCode(t, ErrHandlerFailure("x", errors.New("boom")), CodeHandlerFailure)
}

func TestErrHandlerFailureWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := ErrHandlerFailure("give", cause)
	assert.ErrorIs(t, err, cause)
}
