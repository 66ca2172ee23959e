package users

import "time"

// User is a back-office account. Role fields are denormalized from the role
// document so permission resolution does not join on every request.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RoleID       string    `json:"roleId"`
	RoleKey      string    `json:"roleKey"`
	RoleName     string    `json:"roleName"`
	TeamID       string    `json:"team,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}
