// Package visibility filters record collections down to what an identity is
// entitled to see under a resolved scope. Ownership is modeled as an ordered
// list of signals evaluated with OR: historical records populate ownership
// fields inconsistently, so no single field is authoritative and new signals
// are added by extending a list, not by branching.
package visibility

import (
	"strings"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
)

// Ownership carries the redundant ownership fields a record may have.
type Ownership struct {
	UserID        string
	CreatedBy     string
	InviterUserID string
	ClientID      string
	TeamID        string
	TeamCode      string
	TeamName      string
}

// Owned is implemented by record types subject to scoped filtering.
type Owned interface {
	Ownership() Ownership
}

// Viewer is the acting identity reduced to its matching signals.
type Viewer struct {
	ID     string
	Email  string
	TeamID string
}

// ViewerFor builds a Viewer from an identity.
func ViewerFor(ident identity.Identity) Viewer {
	return Viewer{ID: ident.ID, Email: ident.Email, TeamID: ident.TeamID}
}

// Signal tests one ownership field against the viewer.
type Signal func(o Ownership, v Viewer) bool

func matchUserID(o Ownership, v Viewer) bool {
	return o.UserID != "" && o.UserID == v.ID
}

func matchCreatedByEmail(o Ownership, v Viewer) bool {
	return o.CreatedBy != "" && strings.EqualFold(o.CreatedBy, v.Email)
}

func matchInviterID(o Ownership, v Viewer) bool {
	return o.InviterUserID != "" && o.InviterUserID == v.ID
}

func matchClientID(o Ownership, v Viewer) bool {
	return o.ClientID != "" && o.ClientID == v.ID
}

// ClientSignals are the ownership signals for client registrations. The
// inviter signal is what lets a partner see clients they referred without
// being the literal creator.
var ClientSignals = []Signal{matchUserID, matchCreatedByEmail, matchInviterID}

// ProposalSignals extend the client signals with the proposal's clientId, so
// a client sees proposals raised on their behalf.
var ProposalSignals = []Signal{matchUserID, matchCreatedByEmail, matchInviterID, matchClientID}

// TeamSnapshot is the resolved team membership used for team-scope matching.
type TeamSnapshot struct {
	ID           string
	Name         string
	Code         string
	MemberIDs    []string
	MemberEmails []string
}

// Filter returns the subset of records visible to the viewer under the
// scope. It is a pure function of its inputs: the same collection snapshot,
// viewer, scope and team snapshot always yield the same subset, and input
// records are never mutated.
func Filter[T Owned](records []T, viewer Viewer, scope rbac.Scope, team *TeamSnapshot, signals []Signal) []T {
	switch scope {
	case rbac.ScopeAll:
		visible := make([]T, len(records))
		copy(visible, records)
		return visible
	case rbac.ScopeTeam:
		visible := make([]T, 0, len(records))
		for _, rec := range records {
			o := rec.Ownership()
			if matchesAny(o, viewer, signals) || matchesTeam(o, viewer, team) {
				visible = append(visible, rec)
			}
		}
		return visible
	case rbac.ScopeOwn:
		visible := make([]T, 0, len(records))
		for _, rec := range records {
			if matchesAny(rec.Ownership(), viewer, signals) {
				visible = append(visible, rec)
			}
		}
		return visible
	default:
		return []T{}
	}
}

// Visible reports whether a single record passes the scope filter, for
// detail views that must agree with list views.
func Visible[T Owned](rec T, viewer Viewer, scope rbac.Scope, team *TeamSnapshot, signals []Signal) bool {
	return len(Filter([]T{rec}, viewer, scope, team, signals)) == 1
}

func matchesAny(o Ownership, v Viewer, signals []Signal) bool {
	for _, signal := range signals {
		if signal(o, v) {
			return true
		}
	}
	return false
}

func matchesTeam(o Ownership, v Viewer, team *TeamSnapshot) bool {
	if o.TeamID != "" && v.TeamID != "" && o.TeamID == v.TeamID {
		return true
	}
	if team == nil {
		return false
	}
	if o.TeamID != "" && o.TeamID == team.ID {
		return true
	}
	if o.TeamName != "" && o.TeamName == team.Name {
		return true
	}
	if o.TeamCode != "" && o.TeamCode == team.Code {
		return true
	}
	for _, memberID := range team.MemberIDs {
		if memberID == "" {
			continue
		}
		if o.UserID == memberID || o.InviterUserID == memberID {
			return true
		}
	}
	for _, email := range team.MemberEmails {
		if email != "" && strings.EqualFold(o.CreatedBy, email) {
			return true
		}
	}
	return false
}
