package interfaces

import "github.com/google/uuid"

// Principal is the authenticated user attached to a request.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// IsStaff reports whether the principal may enter the back office.
func (p Principal) IsStaff() bool {
	return p.Role == "admin" || p.Role == "editor"
}
