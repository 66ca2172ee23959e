package roles

import "time"

// Role is a named bundle of permissions. Key is the stable join point
// between a user document and its permission set and must be unique;
// ID is only used for edit and reference.
type Role struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}
