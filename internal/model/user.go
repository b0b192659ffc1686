package model

import (
	"time"

	"github.com/google/uuid"
)

// Role enumerates the account kinds.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleParent     Role = "PARENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// User represents any account: students, their parents, course instructors
// and platform admins. Parents are linked to their children via ParentID on
// the child row.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// LoginRequest is the payload for all login endpoints.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// CreateUserRequest is the payload for registering a new account.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"required,oneof=STUDENT PARENT INSTRUCTOR"`
	// ParentID links a student account to an existing parent account.
	ParentID *uuid.UUID `json:"parent_id" binding:"omitempty"`
}
