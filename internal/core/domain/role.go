package domain

// Role represents a caller's capability level, ordered from weakest to
// strongest. All mutating operations except kiosk intake require staff or
// above.
type Role string

const (
	RoleNone       Role = "NONE"
	RoleStaff      Role = "STAFF"
	RoleAdmin      Role = "ADMIN"
	RoleSuperadmin Role = "SUPERADMIN"
)

var roleRank = map[Role]int{
	RoleNone:       0,
	RoleStaff:      1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// ParseRole maps a stored/claimed role string to a Role. Unknown values
// degrade to RoleNone rather than failing.
func ParseRole(s string) Role {
	r := Role(s)
	if _, ok := roleRank[r]; !ok {
		return RoleNone
	}
	return r
}

// MeetsMinimum reports whether the role is at least the required level.
func (r Role) MeetsMinimum(required Role) bool {
	return roleRank[r] >= roleRank[required]
}

// IsValid reports whether the role is a known level.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}
