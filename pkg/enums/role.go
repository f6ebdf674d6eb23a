package enums

import "fmt"

// Role describes the system-wide role attached to a user at creation time.
// Roles are immutable after creation; there is no promote/demote operation.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleNormalUser Role = "normal_user"
	RoleStoreOwner Role = "store_owner"
)

var validRoles = []Role{
	RoleAdmin,
	RoleNormalUser,
	RoleStoreOwner,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value matches the canonical role enum.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts the raw string to a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
