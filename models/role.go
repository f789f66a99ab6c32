package models

import "strings"

type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleReceptionist Role = "RECEPTIONIST"
)

// ParseRole accepts role names case-insensitively, with or without a
// "ROLE_" prefix.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_")
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleReceptionist:
		return RoleReceptionist, true
	}
	return "", false
}

// Roles lists every role with the permissions it is granted.
func Roles() map[Role][]Permission {
	out := make(map[Role][]Permission, len(grants))
	for role, perms := range grants {
		out[role] = append([]Permission(nil), perms...)
	}
	return out
}
