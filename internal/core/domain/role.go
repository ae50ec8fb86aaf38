package domain

import (
	"fmt"
	"strings"
)

// Role is an authorization group. The vocabulary is closed: anything other
// than USER or ADMIN is rejected at the boundary.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// KnownRoles lists every role the service understands, in provisioning order.
var KnownRoles = []Role{RoleUser, RoleAdmin}

func (r Role) String() string { return string(r) }

// ParseRole normalizes name (trim + uppercase) and maps it onto a known Role.
func ParseRole(name string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(name)))
	switch r {
	case RoleUser, RoleAdmin:
		return r, nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown role: %q", name))
}

// ParseRoles parses a non-empty list of role names, dropping duplicates while
// keeping the first-seen order.
func ParseRoles(names []string) ([]Role, error) {
	if len(names) == 0 {
		return nil, NewValidationError("roles cannot be null or empty")
	}

	seen := make(map[Role]struct{}, len(names))
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	return roles, nil
}

// RoleNames renders roles as plain strings, e.g. for token claims or storage.
func RoleNames(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
