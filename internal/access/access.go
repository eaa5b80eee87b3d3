// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

// Package access provides authorization for StoneMUD.
//
// Permission strings are dot-separated, lowercase identifiers such as
// "command.teleport" or "admin.cooldown.bypass". Role definitions may use
// glob patterns with '.' as the segment separator ("command.*", "**").
package access

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// Class identifies the kind of sender behind a Subject.
type Class int

const (
	// ClassPlayer is an interactive in-game sender.
	ClassPlayer Class = iota
	// ClassConsole is the non-interactive server console. It bypasses all
	// permission checks and is exempt from cooldowns.
	ClassConsole
)

// String returns the class name.
func (c Class) String() string {
	if c == ClassConsole {
		return "console"
	}
	return "player"
}

// Subject identifies who is performing an action.
type Subject struct {
	ID    ulid.ULID
	Class Class
	Name  string // display name, informational only
}

// Console returns the console subject.
func Console() Subject {
	return Subject{Class: ClassConsole, Name: "console"}
}

// Key returns a stable string key for maps and cooldown tracking.
func (s Subject) Key() string {
	if s.Class == ClassConsole {
		return "console"
	}
	return "player:" + s.ID.String()
}

// Permissions checks whether a subject holds a permission.
// Implementations must be safe for concurrent use and deny by default.
type Permissions interface {
	// Has returns true if the subject holds the permission. The console
	// subject is always allowed.
	Has(ctx context.Context, subject Subject, permission string) bool
}
