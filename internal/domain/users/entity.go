package users

import "time"

// UserID tipe untuk User
type UserID int64

// User account record. PasswordHash never leaves the API boundary.
type User struct {
	ID           UserID    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Update carries the self-service mutable fields; nil means keep current.
type Update struct {
	Name  *string
	Email *string
}

// RoleUpdate carries the admin-gated fields.
type RoleUpdate struct {
	Role    string
	IsAdmin *bool
}
