package dashboard_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/clients"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/dashboard"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/proposals"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/users"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/visibility"
	_ "github.com/victormartinez6/app-dols-capital-ai-sub000/testing"
)

type summaryBody struct {
	Scope          string `json:"scope"`
	Clients        int    `json:"clients"`
	Proposals      int    `json:"proposals"`
	PendingReviews int    `json:"pendingReviews"`
}

func newDashboard(t *testing.T, store docstore.Store) (*dashboard.Handler, *clients.Repository, *proposals.Repository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := rbac.NewService(store, rbac.NewCache(time.Minute), logger, nil)
	teams := &visibility.TeamResolver{Store: store, Emails: users.NewRepository(store), Logger: logger}
	clientsRepo := clients.NewRepository(store)
	proposalsRepo := proposals.NewRepository(store)
	clientsSvc := clients.NewService(clientsRepo, resolver, teams, logger)
	proposalsSvc := proposals.NewService(proposalsRepo, resolver, teams, logger)
	return dashboard.NewHandler(logger, clientsSvc, proposalsSvc, resolver), clientsRepo, proposalsRepo
}

func getSummary(t *testing.T, handler *dashboard.Handler, ident *identity.Identity) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/dashboard", handler.MountRoutes)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if ident != nil {
		req = req.WithContext(identity.ContextWith(req.Context(), *ident))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
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

func TestSummaryCountsVisibleRecords(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	seedRole(t, store, "partner", "view:own_dashboard", "view:own_clients", "view:own_proposals")
	handler, clientsRepo, proposalsRepo := newDashboard(t, store)

	require.NoError(t, clientsRepo.Save(ctx, clients.Client{ID: "c1", UserID: "p1"}))
	require.NoError(t, clientsRepo.Save(ctx, clients.Client{ID: "c2", UserID: "x9"}))
	require.NoError(t, proposalsRepo.Save(ctx, proposals.Proposal{ID: "pr1", UserID: "p1", Status: proposals.StatusPending}))
	require.NoError(t, proposalsRepo.Save(ctx, proposals.Proposal{ID: "pr2", UserID: "p1", Status: proposals.StatusApproved}))
	require.NoError(t, proposalsRepo.Save(ctx, proposals.Proposal{ID: "pr3", UserID: "x9", Status: proposals.StatusPending}))

	ident := identity.Identity{ID: "p1", Email: "partner@dols.test", RoleKey: "partner"}
	rr := getSummary(t, handler, &ident)
	require.Equal(t, http.StatusOK, rr.Code)

	var body summaryBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "own", body.Scope)
	assert.Equal(t, 1, body.Clients)
	assert.Equal(t, 2, body.Proposals)
	assert.Equal(t, 1, body.PendingReviews)
}

func TestSummaryNoScopeIsEmptyNotError(t *testing.T) {
	store := docstore.NewMemory()
	seedRole(t, store, "client", "menu:dashboard")
	handler, _, _ := newDashboard(t, store)

	ident := identity.Identity{ID: "u1", Email: "client@dols.test", RoleKey: "client"}
	rr := getSummary(t, handler, &ident)
	require.Equal(t, http.StatusOK, rr.Code)

	var body summaryBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, summaryBody{}, body)
}

func TestSummaryAnonymousUnauthorized(t *testing.T) {
	handler, _, _ := newDashboard(t, docstore.NewMemory())
	rr := getSummary(t, handler, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
