// Package user implements the account store behind authentication.
package user

import "time"

// Roles recognized by the app.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// Preferences holds per-user UI settings.
type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// User is an account that can record attendance.
type User struct {
	ID           string      `json:"id"`
	FullName     string      `json:"fullName"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`
	Phone        string      `json:"phone"`
	Preferences  Preferences `json:"preferences"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileInput carries a partial profile update; nil fields are unchanged.
type ProfileInput struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
	Theme    *string `json:"theme"`
	Language *string `json:"language"`
}
