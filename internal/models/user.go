package models

import "time"

// Role represents the user's position inside the organization
type Role string

// Recognized roles. New accounts start as RolePending until an admin approves them.
const (
	RoleAdmin   Role = "ADMIN"
	RoleMember  Role = "MEMBER"
	RoleTrainee Role = "TRAINEE"
	RolePending Role = "PENDING"
)

// Valid reports whether the role is one of the recognized roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleTrainee, RolePending:
		return true
	}
	return false
}

// ResetTokenUnset is the sentinel value stored when no password-reset ticket is active
const ResetTokenUnset = "unset"

// User represents a user record. Email is the primary key and is immutable
// after creation through self-service routes.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	BirthDate    string    `json:"birth_date"`
	Phone        string    `json:"phone"`
	PhotoURL     string    `json:"photo_url"`
	Role         Role      `json:"role"`
	ResetToken   string    `json:"-"` // Never serialize reset token
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserProjection is the read shape returned by list/detail queries.
// PasswordHash and ResetToken are excluded at the query level.
type UserProjection struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone"`
	PhotoURL  string `json:"photo_url"`
	Role      Role   `json:"role"`
}

// CreateUserRequest carries the fields required to create a user
type CreateUserRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone"`
	PhotoURL  string `json:"photo_url"`
}

// UserPatch carries optional fields for a partial user update.
// Nil pointers mean "leave unchanged". Email is present only so the service
// can reject attempts to change it.
type UserPatch struct {
	Email     *string `json:"email"`
	Name      *string `json:"name"`
	Password  *string `json:"password"`
	BirthDate *string `json:"birth_date"`
	Phone     *string `json:"phone"`
	PhotoURL  *string `json:"photo_url"`
	Role      *Role   `json:"role"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
