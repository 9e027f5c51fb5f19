package services

import (
	"fmt"

	"citidesk/internal/core/domain"
)

// Actor identifies the caller of a service operation. Kiosk traffic carries
// the zero Actor (RoleNone); authenticated staff carry their account ID and
// parsed role.
type Actor struct {
	UserID uint
	Role   domain.Role
}

// requireRole rejects callers below the required capability level.
func requireRole(actor Actor, required domain.Role) error {
	if !actor.Role.MeetsMinimum(required) {
		return fmt.Errorf("%w: %s requires %s", domain.ErrAuthorization, actor.Role, required)
	}
	return nil
}

// requireStaff is the common gate for mutating operations.
func requireStaff(actor Actor) error {
	return requireRole(actor, domain.RoleStaff)
}
