package models

import (
	"time"
)

// RoleAdmin is the only role this service manages
const RoleAdmin = "admin"

// User represents an administrative account. Password holds the bcrypt
// hash and is never serialized; hashing is an explicit auth-service step,
// not a storage hook.
type User struct {
	ID       string `json:"id" badgerhold:"key"`
	Email    string `json:"email"` // Stored lowercased, unique
	Password string `json:"-"`
	Name     string `json:"name"`
	Role     string `json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal is the authenticated identity attached to a request context.
// It carries no credential material.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ToPrincipal strips credential fields from a user
func (u *User) ToPrincipal() *Principal {
	return &Principal{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}

// TokenPayload is the claim set embedded in a session token
type TokenPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// LoginUser is the user summary embedded in a login response
type LoginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
