package proposals

import (
	"time"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/visibility"
)

// Proposal statuses.
const (
	StatusPending    = "pending"
	StatusInAnalysis = "in_analysis"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

// Pipeline stages, in board order.
var Stages = []string{"registration", "analysis", "committee", "formalization", "closed"}

// Proposal is a credit proposal raised for a client registration. Besides
// the creator signals it carries clientId, so the client a proposal was
// raised for can see it under own scope.
type Proposal struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"clientId,omitempty"`
	ClientName      string    `json:"clientName,omitempty"`
	Amount          float64   `json:"amount"`
	CreditType      string    `json:"creditType"`
	Status          string    `json:"status"`
	Stage           string    `json:"stage,omitempty"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	UserID          string    `json:"userId,omitempty"`
	CreatedBy       string    `json:"createdBy,omitempty"`
	InviterUserID   string    `json:"inviterUserId,omitempty"`
	TeamID          string    `json:"teamId,omitempty"`
	TeamCode        string    `json:"teamCode,omitempty"`
	TeamName        string    `json:"teamName,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// Ownership exposes the record's matching signals to the visibility filter.
func (p Proposal) Ownership() visibility.Ownership {
	return visibility.Ownership{
		UserID:        p.UserID,
		CreatedBy:     p.CreatedBy,
		InviterUserID: p.InviterUserID,
		ClientID:      p.ClientID,
		TeamID:        p.TeamID,
		TeamCode:      p.TeamCode,
		TeamName:      p.TeamName,
	}
}
