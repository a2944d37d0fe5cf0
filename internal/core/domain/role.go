package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the closed set of privilege levels an identity can hold.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleSupervisor Role = "SUPERVISOR"
	RoleStaff      Role = "STAFF"
	RoleAccountant Role = "ACCOUNTANT"
)

// DefaultRole is assigned at self-service registration.
const DefaultRole = RoleStaff

var ErrUnknownRole = errors.New("unknown role")

// AllRoles lists every role, highest privilege first.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleSupervisor, RoleStaff, RoleAccountant}
}

// ParseRole converts a stored or transmitted role name into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := r.bit()
	return ok
}

func (r Role) String() string { return string(r) }

func (r Role) bit() (RoleSet, bool) {
	switch r {
	case RoleAdmin:
		return 1 << 0, true
	case RoleManager:
		return 1 << 1, true
	case RoleSupervisor:
		return 1 << 2, true
	case RoleStaff:
		return 1 << 3, true
	case RoleAccountant:
		return 1 << 4, true
	default:
		return 0, false
	}
}

// RoleSet is an immutable set of roles used by access policies.
type RoleSet uint8

// NewRoleSet builds a set from roles. It panics on a role outside the closed
// set; policies are declared at route registration time.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		bit, ok := r.bit()
		if !ok {
			panic(fmt.Sprintf("domain: %v: %q", ErrUnknownRole, string(r)))
		}
		s |= bit
	}
	return s
}

// Contains reports whether r is a member of s.
func (s RoleSet) Contains(r Role) bool {
	bit, ok := r.bit()
	return ok && s&bit != 0
}

// Roles returns the members of s in AllRoles order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(AllRoles()))
	for _, r := range AllRoles() {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	roles := s.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ",")
}
