package models

import (
	"time"
)

// RoleAdmin is the role reported by the role oracle for moderators
const RoleAdmin = "admin"

// User is an account row. The engine reads only Name (display name) and Role.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UnknownAuthorName is shown for comments whose author no longer exists
const UnknownAuthorName = "Unknown user"
