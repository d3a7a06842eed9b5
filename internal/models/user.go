package models

import "time"

// Role is a fixed user role. Roles gate which navigation sections the
// client shows; they are a convenience, not a security boundary.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleChief      Role = "chief"
	RoleController Role = "controller"
	RoleLogistics  Role = "logistics"
	RoleViewer     Role = "viewer"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleChief, RoleController, RoleLogistics, RoleViewer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is an application account document.
type User struct {
	ID        string    `firestore:"-" json:"id"`
	Email     string    `firestore:"email" json:"email"`
	FullName  string    `firestore:"fullName" json:"fullName"`
	Role      Role      `firestore:"role" json:"role"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
