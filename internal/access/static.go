// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package access

import (
	"context"
	"sync"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// StaticPermissions implements Permissions with static role definitions.
//
// Thread-safety: roles is immutable after construction and requires no
// synchronization. Only subjects is mutable and protected by mu.
type StaticPermissions struct {
	roles    map[string][]compiledPermission // roleName → compiled patterns (immutable)
	subjects map[string]string               // subject key → roleName (protected by mu)
	mu       sync.RWMutex
}

// compiledPermission holds a permission pattern and its compiled glob.
type compiledPermission struct {
	pattern string
	glob    glob.Glob
}

// DefaultRoles returns the built-in role definitions.
func DefaultRoles() map[string][]string {
	return map[string][]string{
		"player":  {"command.*", "chat.**"},
		"builder": {"command.*", "chat.**", "build.**"},
		"admin":   {"**"},
	}
}

// NewStaticPermissions creates a static permission checker with the given
// roles. Returns an error if any permission pattern fails to compile.
func NewStaticPermissions(roles map[string][]string) (*StaticPermissions, error) {
	compiled := make(map[string][]compiledPermission, len(roles))
	for role, patterns := range roles {
		perms := make([]compiledPermission, 0, len(patterns))
		for _, p := range patterns {
			g, err := glob.Compile(p, '.')
			if err != nil {
				return nil, oops.In("access").
					Code("INVALID_PERMISSION_PATTERN").
					With("role", role).
					With("pattern", p).
					Wrap(err)
			}
			perms = append(perms, compiledPermission{pattern: p, glob: g})
		}
		compiled[role] = perms
	}

	return &StaticPermissions{
		roles:    compiled,
		subjects: make(map[string]string),
	}, nil
}

// Has implements Permissions. The console is always allowed; unknown
// subjects are denied.
func (s *StaticPermissions) Has(_ context.Context, subject Subject, permission string) bool {
	if subject.Class == ClassConsole {
		return true
	}

	s.mu.RLock()
	role := s.subjects[subject.Key()]
	s.mu.RUnlock()

	if role == "" {
		return false
	}

	for _, perm := range s.roles[role] {
		if perm.glob.Match(permission) {
			return true
		}
	}
	return false
}

// AssignRole sets the role for a subject.
// Returns an error if the role is unknown.
func (s *StaticPermissions) AssignRole(subject Subject, role string) error {
	if _, ok := s.roles[role]; !ok {
		return oops.In("access").Code("UNKNOWN_ROLE").With("role", role).New("unknown role")
	}

	s.mu.Lock()
	s.subjects[subject.Key()] = role
	s.mu.Unlock()
	return nil
}

// RevokeRole removes a subject's role assignment.
func (s *StaticPermissions) RevokeRole(subject Subject) {
	s.mu.Lock()
	delete(s.subjects, subject.Key())
	s.mu.Unlock()
}

// RoleOf returns the role assigned to a subject, or empty string if none.
func (s *StaticPermissions) RoleOf(subject Subject) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subjects[subject.Key()]
}
