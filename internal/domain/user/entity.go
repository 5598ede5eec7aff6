package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system
type Role string

const (
	RoleClient Role = "client"
	RolePilot  Role = "pilot"
)

// User represents a user account
type User struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// IsPilot returns true if user offers drone services
func (u *User) IsPilot() bool {
	return u.Role == RolePilot
}

// IsClient returns true if user books drone services
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// ValidRoles returns list of valid roles for registration
func ValidRoles() []Role {
	return []Role{RoleClient, RolePilot}
}

// IsValidRole checks if role is valid for registration
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if string(r) == role {
			return true
		}
	}
	return false
}
