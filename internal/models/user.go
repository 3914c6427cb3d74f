package models

import (
	"strings"
	"time"
)

// Role represents the role a user registered with
type Role string

// Role constants
const (
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleStudent    Role = "STUDENT"
)

// User represents a user in the system
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	FullName     string    `json:"fullName,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DisplayName returns the name printed on certificates.
// Falls back to first and last name and then to the email address.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Email
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"max=150"`
	LastName  string `json:"lastName" validate:"max=150"`
	FullName  string `json:"fullName" validate:"max=255"`
	Bio       string `json:"bio"`
	Role      Role   `json:"role" validate:"omitempty,oneof=ADMIN INSTRUCTOR STUDENT"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
