package domain

import "fmt"

// Role is the caller's role claim. Only the enumerated values are valid.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleCounselor
)

// ParseRole converts a role claim into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "counselor":
		return RoleCounselor, nil
	default:
		return RoleUnknown, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// String returns the claim spelling of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleCounselor:
		return "counselor"
	default:
		return "unknown"
	}
}
