// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"fmt"
	"time"

	"github.com/samber/oops"
)

// Error codes for registration and dispatch failures.
const (
	CodeProcessing       = "PROCESSING"
	CodeUnknownCommand   = "UNKNOWN_COMMAND"
	CodeMissingArgument  = "MISSING_ARGUMENT"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeTooManyArguments = "TOO_MANY_ARGUMENTS"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodePlayerOnly       = "PLAYER_ONLY"
	CodeCooldownActive   = "COOLDOWN_ACTIVE"
	CodeRateLimited      = "RATE_LIMITED"
	CodeHandlerFailure   = "HANDLER_FAILURE"
	CodeInvalidName      = "INVALID_NAME"
)

// ErrProcessing creates a registration-time error for a malformed
// declaration. Registration of the offending command is aborted.
func ErrProcessing(command, reason string) error {
	return oops.Code(CodeProcessing).
		With("command", command).
		Errorf("cannot process command %s: %s", command, reason)
}

// ErrUnknownCommand creates an error for an unresolvable root name.
func ErrUnknownCommand(name string) error {
	return oops.Code(CodeUnknownCommand).
		With("command", name).
		Errorf("unknown command: %s", name)
}

// ErrMissingArgument names the first unfilled required argument.
func ErrMissingArgument(arg, usage string) error {
	return oops.Code(CodeMissingArgument).
		With("argument", arg).
		With("usage", usage).
		Errorf("missing required argument: %s", arg)
}

// ErrInvalidArgument creates an error for a value the argument's type
// rejected.
func ErrInvalidArgument(arg, reason string) error {
	return oops.Code(CodeInvalidArgument).
		With("argument", arg).
		With("reason", reason).
		Errorf("invalid value for argument %s: %s", arg, reason)
}

// ErrTooManyArguments creates an error for excess positional tokens.
func ErrTooManyArguments(expected, got int) error {
	return oops.Code(CodeTooManyArguments).
		With("expected", expected).
		With("got", got).
		Errorf("too many arguments: expected at most %d, got %d", expected, got)
}

// ErrPermissionDenied creates an error for a failed permission check.
func ErrPermissionDenied(command, permission string) error {
	return oops.Code(CodePermissionDenied).
		With("command", command).
		With("permission", permission).
		Errorf("permission denied for command %s", command)
}

// ErrPlayerOnly creates an error for a player-only command invoked by a
// non-player sender.
func ErrPlayerOnly(command string) error {
	return oops.Code(CodePlayerOnly).
		With("command", command).
		Errorf("command %s can only be used by players", command)
}

// ErrCooldownActive creates an error carrying the remaining cooldown.
func ErrCooldownActive(command string, remaining time.Duration) error {
	return oops.Code(CodeCooldownActive).
		With("command", command).
		With("remaining_ms", remaining.Milliseconds()).
		Errorf("command %s is on cooldown for %s", command, remaining.Round(time.Millisecond))
}

// ErrRateLimited creates an error for the flood limiter.
func ErrRateLimited(cooldownMs int64) error {
	return oops.Code(CodeRateLimited).
		With("cooldown_ms", cooldownMs).
		Errorf("too many commands")
}

// ErrHandlerFailure wraps an error or recovered panic escaping an executor.
// The cause is logged with full detail; the user sees a generic message.
func ErrHandlerFailure(command string, cause error) error {
	return oops.Code(CodeHandlerFailure).
		With("command", command).
		Wrap(cause)
}

// UserMessage extracts a user-facing message from a dispatch error.
func UserMessage(err error) string {
	const generic = "Something went wrong. Try again."
	if err == nil {
		return generic
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return generic
	}

	ctxval := func(key string) string {
		if v, ok := oopsErr.Context()[key].(string); ok {
			return v
		}
		return ""
	}

	switch oopsErr.Code() {
	case CodeUnknownCommand:
		return "Unknown command. Try 'help'."
	case CodeMissingArgument:
		if usage := ctxval("usage"); usage != "" {
			return "Missing argument '" + ctxval("argument") + "'. Usage: " + usage
		}
		return "Missing argument '" + ctxval("argument") + "'."
	case CodeInvalidArgument:
		return "Invalid value for '" + ctxval("argument") + "': " + ctxval("reason")
	case CodeTooManyArguments:
		return "Too many arguments."
	case CodePermissionDenied:
		return "You don't have permission to do that."
	case CodePlayerOnly:
		return "Only players can use that command."
	case CodeCooldownActive:
		if ms, ok := oopsErr.Context()["remaining_ms"].(int64); ok {
			return fmt.Sprintf("Command on cooldown. Try again in %.1fs.", float64(ms)/1000)
		}
		return "Command on cooldown."
	case CodeRateLimited:
		return "Too many commands. Please slow down."
	case CodeHandlerFailure:
		return generic
	default:
		return generic
	}
}
