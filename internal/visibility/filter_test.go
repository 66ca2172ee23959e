package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	_ "github.com/victormartinez6/app-dols-capital-ai-sub000/testing"
)

type record struct {
	Name string
	Own  Ownership
}

func (r record) Ownership() Ownership { return r.Own }

func names(records []record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestViewerFor(t *testing.T) {
	v := ViewerFor(identity.Identity{ID: "u1", Email: "p@dols.test", TeamID: "t1"})
	assert.Equal(t, Viewer{ID: "u1", Email: "p@dols.test", TeamID: "t1"}, v)
}

func TestFilterOwnSignalsAreORed(t *testing.T) {
	viewer := Viewer{ID: "u1", Email: "partner@dols.test"}
	records := []record{
		{Name: "by-user-id", Own: Ownership{UserID: "u1"}},
		{Name: "by-email", Own: Ownership{CreatedBy: "PARTNER@dols.test"}},
		{Name: "by-inviter", Own: Ownership{UserID: "u9", InviterUserID: "u1"}},
		{Name: "unrelated", Own: Ownership{UserID: "u2", CreatedBy: "other@dols.test"}},
		{Name: "orphan", Own: Ownership{}},
	}

	visible := Filter(records, viewer, rbac.ScopeOwn, nil, ClientSignals)
	assert.Equal(t, []string{"by-user-id", "by-email", "by-inviter"}, names(visible))
}

func TestFilterProposalClientIDSignal(t *testing.T) {
	viewer := Viewer{ID: "c1", Email: "client@dols.test"}
	records := []record{
		{Name: "on-my-behalf", Own: Ownership{UserID: "partner-9", ClientID: "c1"}},
		{Name: "someone-else", Own: Ownership{UserID: "partner-9", ClientID: "c2"}},
	}

	visible := Filter(records, viewer, rbac.ScopeOwn, nil, ProposalSignals)
	assert.Equal(t, []string{"on-my-behalf"}, names(visible))

	// Client signals ignore clientId entirely.
	assert.Empty(t, Filter(records, viewer, rbac.ScopeOwn, nil, ClientSignals))
}

func TestFilterAllCopiesInput(t *testing.T) {
	records := []record{{Name: "a"}, {Name: "b"}}
	visible := Filter(records, Viewer{}, rbac.ScopeAll, nil, ClientSignals)
	require.Equal(t, []string{"a", "b"}, names(visible))

	visible[0] = record{Name: "mutated"}
	assert.Equal(t, "a", records[0].Name)
}

func TestFilterNoneScopeHidesEverything(t *testing.T) {
	records := []record{{Name: "a", Own: Ownership{UserID: "u1"}}}
	visible := Filter(records, Viewer{ID: "u1"}, rbac.ScopeNone, nil, ClientSignals)
	assert.Empty(t, visible)
}

func TestFilterTeamIncludesOwnRecords(t *testing.T) {
	viewer := Viewer{ID: "m1", Email: "manager@dols.test"}
	team := &TeamSnapshot{ID: "t1", MemberIDs: []string{"m1", "p2"}}
	records := []record{
		{Name: "mine", Own: Ownership{UserID: "m1"}},
		{Name: "teammate", Own: Ownership{UserID: "p2"}},
		{Name: "outside", Own: Ownership{UserID: "x9"}},
	}

	visible := Filter(records, viewer, rbac.ScopeTeam, team, ClientSignals)
	assert.Equal(t, []string{"mine", "teammate"}, names(visible))
}

func TestFilterTeamMatchesTeamFields(t *testing.T) {
	viewer := Viewer{ID: "m1", TeamID: "t1"}
	team := &TeamSnapshot{ID: "t1", Name: "Litoral", Code: "LIT"}
	records := []record{
		{Name: "by-team-id", Own: Ownership{TeamID: "t1"}},
		{Name: "by-team-name", Own: Ownership{TeamName: "Litoral"}},
		{Name: "by-team-code", Own: Ownership{TeamCode: "LIT"}},
		{Name: "other-team", Own: Ownership{TeamID: "t2", TeamName: "Serra", TeamCode: "SER"}},
	}

	visible := Filter(records, viewer, rbac.ScopeTeam, team, ClientSignals)
	assert.Equal(t, []string{"by-team-id", "by-team-name", "by-team-code"}, names(visible))
}

func TestFilterTeamMatchesViewerTeamIDWithoutSnapshot(t *testing.T) {
	viewer := Viewer{ID: "m1", TeamID: "t1"}
	records := []record{
		{Name: "same-team", Own: Ownership{TeamID: "t1"}},
		{Name: "other-team", Own: Ownership{TeamID: "t2"}},
	}

	visible := Filter(records, viewer, rbac.ScopeTeam, nil, ClientSignals)
	assert.Equal(t, []string{"same-team"}, names(visible))
}

func TestFilterTeamMatchesMemberEmails(t *testing.T) {
	viewer := Viewer{ID: "m1"}
	team := &TeamSnapshot{
		ID:           "t1",
		MemberIDs:    []string{"m1", "p2"},
		MemberEmails: []string{"manager@dols.test", "partner@dols.test"},
	}
	// Legacy record whose only ownership signal is the creator email.
	records := []record{
		{Name: "legacy-teammate", Own: Ownership{CreatedBy: "Partner@dols.test"}},
		{Name: "legacy-outsider", Own: Ownership{CreatedBy: "other@dols.test"}},
		{Name: "referred-by-teammate", Own: Ownership{UserID: "x9", InviterUserID: "p2"}},
	}

	visible := Filter(records, viewer, rbac.ScopeTeam, team, ClientSignals)
	assert.Equal(t, []string{"legacy-teammate", "referred-by-teammate"}, names(visible))
}

func TestFilterIsIdempotent(t *testing.T) {
	viewer := Viewer{ID: "u1"}
	records := []record{
		{Name: "mine", Own: Ownership{UserID: "u1"}},
		{Name: "other", Own: Ownership{UserID: "u2"}},
	}

	once := Filter(records, viewer, rbac.ScopeOwn, nil, ClientSignals)
	twice := Filter(once, viewer, rbac.ScopeOwn, nil, ClientSignals)
	assert.Equal(t, names(once), names(twice))
}

func TestVisibleAgreesWithFilter(t *testing.T) {
	viewer := Viewer{ID: "u1"}
	mine := record{Name: "mine", Own: Ownership{UserID: "u1"}}
	other := record{Name: "other", Own: Ownership{UserID: "u2"}}

	assert.True(t, Visible(mine, viewer, rbac.ScopeOwn, nil, ClientSignals))
	assert.False(t, Visible(other, viewer, rbac.ScopeOwn, nil, ClientSignals))
	assert.True(t, Visible(other, viewer, rbac.ScopeAll, nil, ClientSignals))
}
