package rbac

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	_ "github.com/victormartinez6/app-dols-capital-ai-sub000/testing"
)

type countingStore struct {
	docstore.Store
	queries int
	fail    error
}

func (s *countingStore) QueryByField(ctx context.Context, collection, field, value string) ([]docstore.Document, error) {
	s.queries++
	if s.fail != nil {
		return nil, s.fail
	}
	return s.Store.QueryByField(ctx, collection, field, value)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedRole(t *testing.T, store docstore.Store, id, key string, perms ...string) {
	t.Helper()
	granted := make([]any, len(perms))
	for i, p := range perms {
		granted[i] = p
	}
	err := store.Put(context.Background(), rolesCollection, id, docstore.Document{
		"key":         key,
		"name":        key,
		"permissions": granted,
	})
	require.NoError(t, err)
}

func newTestService(store docstore.Store, admins ...string) *Service {
	return NewService(store, NewCache(time.Minute), testLogger(), admins)
}

func TestRoleHasPermissionIsLiteral(t *testing.T) {
	store := docstore.NewMemory()
	seedRole(t, store, "r1", "manager", "view:team_clients", "edit:clients")
	svc := newTestService(store)
	ctx := context.Background()

	assert.True(t, svc.RoleHasPermission(ctx, "manager", PermViewTeamClients))
	assert.True(t, svc.RoleHasPermission(ctx, "manager", PermEditClients))
	// No hierarchy: a team grant does not imply the own or coarse strings.
	assert.False(t, svc.RoleHasPermission(ctx, "manager", PermViewOwnClients))
	assert.False(t, svc.RoleHasPermission(ctx, "manager", PermViewClients))
	assert.False(t, svc.RoleHasPermission(ctx, "manager", PermDeleteClients))
}

func TestPermissionsUnknownRoleDenied(t *testing.T) {
	store := &countingStore{Store: docstore.NewMemory()}
	svc := newTestService(store)
	ctx := context.Background()

	assert.Empty(t, svc.Permissions(ctx, "ghost"))
	// The miss is cached: repeated checks do not hammer the store.
	assert.Empty(t, svc.Permissions(ctx, "ghost"))
	assert.Equal(t, 1, store.queries)
}

func TestPermissionsEmptyRoleKey(t *testing.T) {
	store := &countingStore{Store: docstore.NewMemory()}
	svc := newTestService(store)

	assert.Empty(t, svc.Permissions(context.Background(), ""))
	assert.Equal(t, 0, store.queries)
}

func TestPermissionsStoreErrorFailsClosed(t *testing.T) {
	store := &countingStore{Store: docstore.NewMemory(), fail: errors.New("connection refused")}
	svc := newTestService(store)
	ctx := context.Background()

	assert.Empty(t, svc.Permissions(ctx, "manager"))
	// Failures are not cached; the next call retries the store.
	assert.Empty(t, svc.Permissions(ctx, "manager"))
	assert.Equal(t, 2, store.queries)
}

func TestPermissionsSingleFetchWithinWindow(t *testing.T) {
	store := &countingStore{Store: docstore.NewMemory()}
	seedRole(t, store.Store, "r1", "manager", "view:team_clients")
	svc := newTestService(store)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		assert.True(t, svc.RoleHasPermission(ctx, "manager", PermViewTeamClients))
	}
	assert.Equal(t, 1, store.queries)
}

func TestPermissionsCached(t *testing.T) {
	store := docstore.NewMemory()
	seedRole(t, store, "r1", "manager", "view:team_clients")
	svc := newTestService(store)

	_, ok := svc.PermissionsCached("")
	assert.False(t, ok, "empty role key never resolves")

	_, ok = svc.PermissionsCached("manager")
	assert.False(t, ok, "nothing cached before the first fetch")

	svc.Permissions(context.Background(), "manager")
	perms, ok := svc.PermissionsCached("manager")
	require.True(t, ok)
	assert.Equal(t, []Permission{PermViewTeamClients}, perms)

	// A stale window hides the entry again without touching the store.
	svc.cache.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, ok = svc.PermissionsCached("manager")
	assert.False(t, ok)
}

func TestPermissionsDuplicateRoleKeyUsesFirstMatch(t *testing.T) {
	store := docstore.NewMemory()
	seedRole(t, store, "a1", "manager", "view:team_clients")
	seedRole(t, store, "b2", "manager", "view:all_clients")
	svc := newTestService(store)

	perms := svc.Permissions(context.Background(), "manager")
	assert.Equal(t, []Permission{PermViewTeamClients}, perms)
}

func TestHasCoarsePermission(t *testing.T) {
	// Every subset of {coarse, own, team, all}: any non-empty subset passes.
	cases := []struct {
		name    string
		granted []string
		want    bool
	}{
		{"nothing", nil, false},
		{"coarse itself", []string{"view:clients"}, true},
		{"own variant", []string{"view:own_clients"}, true},
		{"team variant", []string{"view:team_clients"}, true},
		{"all variant", []string{"view:all_clients"}, true},
		{"coarse+own", []string{"view:clients", "view:own_clients"}, true},
		{"coarse+team", []string{"view:clients", "view:team_clients"}, true},
		{"coarse+all", []string{"view:clients", "view:all_clients"}, true},
		{"own+team", []string{"view:own_clients", "view:team_clients"}, true},
		{"own+all", []string{"view:own_clients", "view:all_clients"}, true},
		{"team+all", []string{"view:team_clients", "view:all_clients"}, true},
		{"coarse+own+team", []string{"view:clients", "view:own_clients", "view:team_clients"}, true},
		{"coarse+own+all", []string{"view:clients", "view:own_clients", "view:all_clients"}, true},
		{"coarse+team+all", []string{"view:clients", "view:team_clients", "view:all_clients"}, true},
		{"own+team+all", []string{"view:own_clients", "view:team_clients", "view:all_clients"}, true},
		{"coarse+own+team+all", []string{"view:clients", "view:own_clients", "view:team_clients", "view:all_clients"}, true},
		{"unrelated grants", []string{"view:own_proposals", "menu:clients"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := docstore.NewMemory()
			seedRole(t, store, "r1", "tester", tc.granted...)
			svc := newTestService(store)
			ident := identity.Identity{Email: "user@dols.test", RoleKey: "tester"}
			assert.Equal(t, tc.want, svc.HasCoarsePermission(context.Background(), ident, PermViewClients))
		})
	}
}

func TestHasCoarsePermissionWithoutVariantsIsLiteral(t *testing.T) {
	store := docstore.NewMemory()
	seedRole(t, store, "r1", "ops", "view:settings")
	svc := newTestService(store)
	ident := identity.Identity{Email: "ops@dols.test", RoleKey: "ops"}

	assert.True(t, svc.HasCoarsePermission(context.Background(), ident, PermViewSettings))
	assert.False(t, svc.HasCoarsePermission(context.Background(), ident, PermEditSettings))
}

func TestScopeForPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		granted []string
		want    Scope
	}{
		{"none", []string{"menu:clients"}, ScopeNone},
		{"own", []string{"view:own_clients"}, ScopeOwn},
		{"team", []string{"view:team_clients"}, ScopeTeam},
		{"all", []string{"view:all_clients"}, ScopeAll},
		{"team beats own", []string{"view:own_clients", "view:team_clients"}, ScopeTeam},
		{"all beats team and own", []string{"view:own_clients", "view:team_clients", "view:all_clients"}, ScopeAll},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := docstore.NewMemory()
			seedRole(t, store, "r1", "tester", tc.granted...)
			svc := newTestService(store)
			assert.Equal(t, tc.want, svc.ScopeFor(context.Background(), ResourceClients, "tester"))
		})
	}
}

func TestScopeForPartnerAlwaysCapped(t *testing.T) {
	store := docstore.NewMemory()
	seedRole(t, store, "r1", "partner", "view:all_clients", "view:team_proposals")
	svc := newTestService(store)
	ctx := context.Background()

	assert.Equal(t, ScopeOwn, svc.ScopeFor(ctx, ResourceClients, "partner"))
	assert.Equal(t, ScopeOwn, svc.ScopeFor(ctx, ResourceProposals, "partner"))
}

func TestScopeForPartnerWithoutGrantStaysNone(t *testing.T) {
	store := docstore.NewMemory()
	seedRole(t, store, "r1", "partner", "menu:dashboard")
	svc := newTestService(store)

	assert.Equal(t, ScopeNone, svc.ScopeFor(context.Background(), ResourceClients, "partner"))
}

func TestCanAccessRoute(t *testing.T) {
	store := docstore.NewMemory()
	seedRole(t, store, "r1", "client", "menu:dashboard", "menu:my_registration")
	svc := newTestService(store)
	ctx := context.Background()
	ident := identity.Identity{Email: "client@dols.test", RoleKey: "client"}

	assert.True(t, svc.CanAccessRoute(ctx, ident, "/dashboard"))
	assert.True(t, svc.CanAccessRoute(ctx, ident, "/my-registration"))
	assert.False(t, svc.CanAccessRoute(ctx, ident, "/clients"))
	assert.False(t, svc.CanAccessRoute(ctx, ident, "/settings"))
	// Unmapped routes are open to everyone.
	assert.True(t, svc.CanAccessRoute(ctx, ident, "/public-page"))
}

func TestBootstrapAdminBypassesEverything(t *testing.T) {
	store := &countingStore{Store: docstore.NewMemory()}
	svc := newTestService(store, "Root@Dols.Test ")
	ctx := context.Background()
	ident := identity.Identity{Email: "root@dols.test", RoleKey: ""}

	assert.True(t, svc.IsBootstrapAdmin("ROOT@dols.test"))
	assert.True(t, svc.HasPermission(ctx, ident, PermDeleteRoles))
	assert.True(t, svc.HasCoarsePermission(ctx, ident, PermViewClients))
	assert.True(t, svc.CanAccessRoute(ctx, ident, "/settings"))
	assert.Equal(t, ScopeAll, svc.ScopeForIdentity(ctx, ResourceClients, ident))
}

func TestInvalidateCacheForcesRefetch(t *testing.T) {
	store := &countingStore{Store: docstore.NewMemory()}
	seedRole(t, store.Store, "r1", "manager", "view:team_clients")
	svc := newTestService(store)
	ctx := context.Background()

	svc.Permissions(ctx, "manager")
	svc.InvalidateCache()
	svc.Permissions(ctx, "manager")
	assert.Equal(t, 2, store.queries)
}

func TestDecodePermissionsShapes(t *testing.T) {
	assert.Equal(t, []Permission{PermEditClients}, decodePermissions(docstore.Document{"permissions": []any{"edit:clients", ""}}))
	assert.Equal(t, []Permission{PermEditClients}, decodePermissions(docstore.Document{"permissions": []string{"edit:clients"}}))
	assert.Empty(t, decodePermissions(docstore.Document{"permissions": "edit:clients"}))
	assert.Empty(t, decodePermissions(docstore.Document{}))
}
