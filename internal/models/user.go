package models

import (
	"time"
)

// Role is the privilege level of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	Role           Role
	ProfilePicture string
	LastLogin      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
