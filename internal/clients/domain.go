package clients

import (
	"time"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/visibility"
)

// Client registration statuses.
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
)

// Client is a credit-origination registration. The userId/createdBy/
// inviterUserId trio plus the team fields are the ownership signals the
// visibility layer matches on; older records populate only some of them.
type Client struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	UserID        string    `json:"userId,omitempty"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	InviterUserID string    `json:"inviterUserId,omitempty"`
	TeamID        string    `json:"teamId,omitempty"`
	TeamCode      string    `json:"teamCode,omitempty"`
	TeamName      string    `json:"teamName,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// Ownership exposes the record's matching signals to the visibility filter.
func (c Client) Ownership() visibility.Ownership {
	return visibility.Ownership{
		UserID:        c.UserID,
		CreatedBy:     c.CreatedBy,
		InviterUserID: c.InviterUserID,
		TeamID:        c.TeamID,
		TeamCode:      c.TeamCode,
		TeamName:      c.TeamName,
	}
}
