package proposals

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/users"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/visibility"
	_ "github.com/victormartinez6/app-dols-capital-ai-sub000/testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedRole(t *testing.T, store docstore.Store, key string, perms ...string) {
	t.Helper()
	granted := make([]any, len(perms))
	for i, p := range perms {
		granted[i] = p
	}
	require.NoError(t, store.Put(context.Background(), "roles", "role-"+key, docstore.Document{
		"key": key, "name": key, "permissions": granted,
	}))
}

func newTestService(t *testing.T, store docstore.Store) *Service {
	t.Helper()
	resolver := rbac.NewService(store, rbac.NewCache(time.Minute), testLogger(), nil)
	teams := &visibility.TeamResolver{Store: store, Emails: users.NewRepository(store), Logger: testLogger()}
	return NewService(NewRepository(store), resolver, teams, testLogger())
}

func seedProposal(t *testing.T, repo *Repository, p Proposal) {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), p))
}

func proposalIDs(records []Proposal) []string {
	ids := make([]string, len(records))
	for i, p := range records {
		ids[i] = p.ID
	}
	return ids
}

func TestVisibleManagerTeamProposals(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	seedRole(t, store, "manager", "view:team_proposals")
	require.NoError(t, store.Put(ctx, "teams", "t1", docstore.Document{
		"id": "t1", "name": "Litoral", "members": []any{"m1", "p2"},
	}))
	require.NoError(t, store.Put(ctx, "users", "m1", docstore.Document{"id": "m1", "email": "manager@dols.test"}))
	require.NoError(t, store.Put(ctx, "users", "p2", docstore.Document{"id": "p2", "email": "partner@dols.test"}))
	svc := newTestService(t, store)

	seedProposal(t, svc.repo, Proposal{ID: "pr1", UserID: "m1"})
	// Teammate record whose only signal is the creator email.
	seedProposal(t, svc.repo, Proposal{ID: "pr2", CreatedBy: "partner@dols.test"})
	seedProposal(t, svc.repo, Proposal{ID: "pr3", UserID: "x9"})

	manager := identity.Identity{ID: "m1", Email: "manager@dols.test", RoleKey: "manager", TeamID: "t1"}
	visible, err := svc.Visible(ctx, manager)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pr1", "pr2"}, proposalIDs(visible))
}

func TestVisibleClientSeesProposalsRaisedOnTheirBehalf(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	seedRole(t, store, "client", "view:own_proposals")
	svc := newTestService(t, store)

	seedProposal(t, svc.repo, Proposal{ID: "pr1", UserID: "partner-9", ClientID: "c1"})
	seedProposal(t, svc.repo, Proposal{ID: "pr2", UserID: "partner-9", ClientID: "c2"})

	client := identity.Identity{ID: "c1", Email: "client@dols.test", RoleKey: "client"}
	visible, err := svc.Visible(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, []string{"pr1"}, proposalIDs(visible))
}

func TestPipelineGroupsByStage(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	seedRole(t, store, "analyst", "view:all_pipeline")
	svc := newTestService(t, store)

	seedProposal(t, svc.repo, Proposal{ID: "pr1", Stage: "analysis"})
	seedProposal(t, svc.repo, Proposal{ID: "pr2", Stage: "analysis"})
	seedProposal(t, svc.repo, Proposal{ID: "pr3", Stage: "committee"})
	// Unknown stages land in the first column instead of vanishing.
	seedProposal(t, svc.repo, Proposal{ID: "pr4", Stage: "limbo"})

	analyst := identity.Identity{ID: "a1", Email: "a@dols.test", RoleKey: "analyst"}
	board, err := svc.Pipeline(ctx, analyst)
	require.NoError(t, err)

	require.Len(t, board, len(Stages))
	assert.ElementsMatch(t, []string{"pr1", "pr2"}, proposalIDs(board["analysis"]))
	assert.Equal(t, []string{"pr3"}, proposalIDs(board["committee"]))
	assert.Equal(t, []string{"pr4"}, proposalIDs(board["registration"]))
	assert.Empty(t, board["closed"])
}

func TestPipelineScopeIndependentOfProposalsScope(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	// All proposals visible in lists, but no pipeline grant at all.
	seedRole(t, store, "analyst", "view:all_proposals")
	svc := newTestService(t, store)
	seedProposal(t, svc.repo, Proposal{ID: "pr1", Stage: "analysis"})

	analyst := identity.Identity{ID: "a1", Email: "a@dols.test", RoleKey: "analyst"}
	board, err := svc.Pipeline(ctx, analyst)
	require.NoError(t, err)
	for _, stage := range Stages {
		assert.Empty(t, board[stage])
	}
}

func TestApproveAndRejectTransitions(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	seedRole(t, store, "analyst", "view:all_proposals", "approve:proposals", "reject:proposals")
	svc := newTestService(t, store)
	analyst := identity.Identity{ID: "a1", Email: "a@dols.test", RoleKey: "analyst"}

	seedProposal(t, svc.repo, Proposal{ID: "pr1", Status: StatusPending})
	approved, err := svc.Approve(ctx, analyst, "pr1")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	// Decisions are final.
	_, err = svc.Reject(ctx, analyst, "pr1", "changed my mind")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Approve(ctx, analyst, "pr1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	seedProposal(t, svc.repo, Proposal{ID: "pr2", Status: StatusInAnalysis})
	rejected, err := svc.Reject(ctx, analyst, "pr2", "insufficient income")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Equal(t, "insufficient income", rejected.RejectionReason)
}

func TestUpdateDecidedProposalFails(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	seedRole(t, store, "analyst", "view:all_proposals")
	svc := newTestService(t, store)
	analyst := identity.Identity{ID: "a1", Email: "a@dols.test", RoleKey: "analyst"}

	seedProposal(t, svc.repo, Proposal{ID: "pr1", Status: StatusApproved})
	_, err := svc.Update(ctx, analyst, "pr1", ProposalInput{ClientID: "c1", Amount: 1000, CreditType: "working_capital"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMoveStage(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	seedRole(t, store, "analyst", "view:all_proposals")
	svc := newTestService(t, store)
	analyst := identity.Identity{ID: "a1", Email: "a@dols.test", RoleKey: "analyst"}

	seedProposal(t, svc.repo, Proposal{ID: "pr1", Stage: "registration"})
	moved, err := svc.MoveStage(ctx, analyst, "pr1", "committee")
	require.NoError(t, err)
	assert.Equal(t, "committee", moved.Stage)

	_, err = svc.MoveStage(ctx, analyst, "pr1", "limbo")
	assert.Error(t, err)
}

func TestGetOutsideScopeIsForbidden(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	seedRole(t, store, "partner", "view:own_proposals")
	svc := newTestService(t, store)

	seedProposal(t, svc.repo, Proposal{ID: "pr1", UserID: "x9"})
	partner := identity.Identity{ID: "p1", Email: "partner@dols.test", RoleKey: "partner"}
	_, err := svc.Get(ctx, partner, "pr1")
	assert.ErrorIs(t, err, shared.ErrForbidden)
}
