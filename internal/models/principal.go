package models

// Principal is the authenticated caller of a request
type Principal struct {
	UserID int
	Role   Role
}

// IsAdmin reports whether the principal has the ADMIN role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsInstructor reports whether the principal has the INSTRUCTOR role
func (p Principal) IsInstructor() bool {
	return p.Role == RoleInstructor
}

// IsStudent reports whether the principal has the STUDENT role
func (p Principal) IsStudent() bool {
	return p.Role == RoleStudent
}
