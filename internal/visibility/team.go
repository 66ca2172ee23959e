package visibility

import (
	"context"
	"log/slog"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
)

const teamsCollection = "teams"

// EmailLookup resolves user ids to emails. users.Repository satisfies it.
type EmailLookup interface {
	EmailsForIDs(ctx context.Context, ids []string) ([]string, error)
}

// TeamResolver materializes a TeamSnapshot from the document store: the team
// document's member id list plus each member's email, needed to match
// manager-created records whose only ownership signal is createdBy.
type TeamResolver struct {
	Store  docstore.Store
	Emails EmailLookup
	Logger *slog.Logger
}

type teamDocument struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Code    string   `json:"code"`
	Members []string `json:"members"`
}

// Snapshot resolves a team and its membership. A missing team returns
// shared.ErrNotFound from the store; members that do not resolve to a user
// are skipped rather than failing the whole snapshot.
func (r *TeamResolver) Snapshot(ctx context.Context, teamID string) (*TeamSnapshot, error) {
	doc, err := r.Store.GetByID(ctx, teamsCollection, teamID)
	if err != nil {
		return nil, err
	}
	var team teamDocument
	if err := docstore.Decode(doc, &team); err != nil {
		return nil, err
	}
	snapshot := &TeamSnapshot{
		ID:        team.ID,
		Name:      team.Name,
		Code:      team.Code,
		MemberIDs: team.Members,
	}
	emails, err := r.Emails.EmailsForIDs(ctx, team.Members)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Warn("resolve team member emails", slog.String("team_id", teamID), slog.Any("error", err))
		}
		return snapshot, nil
	}
	snapshot.MemberEmails = emails
	return snapshot, nil
}
