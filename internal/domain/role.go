package domain

// Role governs which routes and UI sections a session may access.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleTenant  Role = "tenant"
)

// DefaultRole is assigned when no valid role can be resolved.
const DefaultRole = RoleTenant

// Valid reports whether the role is one of the three enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTenant:
		return true
	}
	return false
}

// ParseRole returns the role matching s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	if role.Valid() {
		return role, true
	}
	return "", false
}

// CoerceRole maps any unknown value to the default role rather than accepting it.
func CoerceRole(s string) Role {
	if role, ok := ParseRole(s); ok {
		return role
	}
	return DefaultRole
}
