package domain

import "slices"

// Role is carried in the JWT presented by callers of the event-delivery endpoints
type Role string

const (
	// RoleEventPublisher may push tenant events into the user service
	RoleEventPublisher Role = "event-publisher"

	// RoleAdmin may call every endpoint
	RoleAdmin Role = "admin"
)

// ValidRoles contains all valid roles in the system
var ValidRoles = []Role{RoleEventPublisher, RoleAdmin}

// IsValidRole checks if a given role is valid
func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, Role(role))
}

// HasAnyRole checks if a slice of roles contains any of the specified roles
func HasAnyRole(roles []string, requiredRoles ...Role) bool {
	for _, required := range requiredRoles {
		if slices.Contains(roles, string(required)) {
			return true
		}
	}
	return false
}
