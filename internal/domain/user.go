package domain

import "time"

// UserRole enumerates platform roles.
type UserRole string

const (
	UserRoleEmployee  UserRole = "EMPLOYEE"
	UserRoleResponder UserRole = "RESPONDER"
	UserRoleAdmin     UserRole = "ADMIN"
)

// CanModerate reports whether the role may run workflow operations.
func (r UserRole) CanModerate() bool {
	return r == UserRoleResponder || r == UserRoleAdmin
}

// User is the domain model for platform accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	DepartmentID *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
