// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

// Package accesstest provides test helpers for permission checks.
package accesstest

import (
	"context"
	"sync"

	"github.com/stonemud/stonemud/internal/access"
)

// AllowAll is a Permissions that allows everything.
type AllowAll struct{}

// Has always returns true.
func (AllowAll) Has(_ context.Context, _ access.Subject, _ string) bool {
	return true
}

// DenyAll is a Permissions that denies everything except the console.
type DenyAll struct{}

// Has returns true only for the console subject.
func (DenyAll) Has(_ context.Context, subject access.Subject, _ string) bool {
	return subject.Class == access.ClassConsole
}

// MockPermissions is a Permissions for testing with selective grants.
type MockPermissions struct {
	mu     sync.RWMutex
	grants map[string]map[string]bool // subject key → permission → granted
}

// NewMockPermissions creates an empty MockPermissions.
func NewMockPermissions() *MockPermissions {
	return &MockPermissions{grants: make(map[string]map[string]bool)}
}

// Grant allows a subject to hold a permission.
func (m *MockPermissions) Grant(subject access.Subject, permission string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.grants[subject.Key()] == nil {
		m.grants[subject.Key()] = make(map[string]bool)
	}
	m.grants[subject.Key()][permission] = true
}

// Revoke removes a previously granted permission.
func (m *MockPermissions) Revoke(subject access.Subject, permission string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.grants[subject.Key()], permission)
}

// Has implements access.Permissions. The console is always allowed.
func (m *MockPermissions) Has(_ context.Context, subject access.Subject, permission string) bool {
	if subject.Class == access.ClassConsole {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grants[subject.Key()][permission]
}
