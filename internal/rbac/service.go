package rbac

import (
	"context"
	"log/slog"
	"strings"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
)

const rolesCollection = "roles"

// RoleKeyPartner is capped to own scope no matter which view permissions the
// role document grants.
const RoleKeyPartner = "partner"

// Service materializes role permissions from the document store and answers
// permission, route and scope questions. Every expected failure (missing
// role, store error, empty role key) resolves to "no access"; the service
// never propagates those as errors.
type Service struct {
	store           docstore.Store
	cache           *Cache
	logger          *slog.Logger
	bootstrapAdmins map[string]struct{}
}

// NewService constructs a Service. bootstrapAdmins is the configured
// allow-list of identities that bypass every permission check; it exists so
// a fresh deployment can be administered before any role documents exist,
// and every use of it is surfaced explicitly (see Middleware metrics).
func NewService(store docstore.Store, cache *Cache, logger *slog.Logger, bootstrapAdmins []string) *Service {
	admins := make(map[string]struct{}, len(bootstrapAdmins))
	for _, email := range bootstrapAdmins {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = struct{}{}
		}
	}
	return &Service{store: store, cache: cache, logger: logger, bootstrapAdmins: admins}
}

// IsBootstrapAdmin reports whether the email is on the configured bypass
// allow-list.
func (s *Service) IsBootstrapAdmin(email string) bool {
	_, ok := s.bootstrapAdmins[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Permissions returns the permission set for a role key, consulting the
// store when the cache is stale. An unknown role or a failed lookup yields
// an empty set.
func (s *Service) Permissions(ctx context.Context, roleKey string) []Permission {
	if roleKey == "" {
		return nil
	}
	if perms, ok := s.cache.Get(roleKey); ok {
		return perms
	}
	docs, err := s.store.QueryByField(ctx, rolesCollection, "key", roleKey)
	if err != nil {
		// Fail closed: an unreachable store means no permissions for this
		// request, and nothing is cached so the next call retries.
		s.logger.Warn("load role permissions", slog.String("role_key", roleKey), slog.Any("error", err))
		return nil
	}
	if len(docs) == 0 {
		s.logger.Warn("role not found", slog.String("role_key", roleKey))
		s.cache.Set(roleKey, []Permission{})
		return nil
	}
	if len(docs) > 1 {
		s.logger.Warn("duplicate role key, using first match", slog.String("role_key", roleKey), slog.Int("matches", len(docs)))
	}
	perms := decodePermissions(docs[0])
	s.cache.Set(roleKey, perms)
	return perms
}

// PermissionsCached reads the cache only. The second result is false when
// the role is absent or stale; callers needing freshness use Permissions.
func (s *Service) PermissionsCached(roleKey string) ([]Permission, bool) {
	if roleKey == "" {
		return nil, false
	}
	return s.cache.Get(roleKey)
}

// RoleHasPermission reports literal set membership for a role. No wildcard
// or hierarchy semantics apply.
func (s *Service) RoleHasPermission(ctx context.Context, roleKey string, perm Permission) bool {
	for _, granted := range s.Permissions(ctx, roleKey) {
		if granted == perm {
			return true
		}
	}
	return false
}

// HasPermission answers whether the identity holds a permission, honoring
// the bootstrap-admin bypass.
func (s *Service) HasPermission(ctx context.Context, ident identity.Identity, perm Permission) bool {
	if s.IsBootstrapAdmin(ident.Email) {
		return true
	}
	return s.RoleHasPermission(ctx, ident.RoleKey, perm)
}

// HasCoarsePermission answers a "can view X at all" question: true when the
// role holds the coarse permission itself or any of its own/team/all
// variants. Permissions without scoped variants degrade to a literal check.
func (s *Service) HasCoarsePermission(ctx context.Context, ident identity.Identity, coarse Permission) bool {
	if s.IsBootstrapAdmin(ident.Email) {
		return true
	}
	perms := s.Permissions(ctx, ident.RoleKey)
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	if _, ok := set[coarse]; ok {
		return true
	}
	for _, variant := range coarseVariants[coarse] {
		if _, ok := set[variant]; ok {
			return true
		}
	}
	return false
}

// CanAccessRoute resolves the permission required for a route and checks it.
// Routes without an entry in the catalog are allowed for everyone.
func (s *Service) CanAccessRoute(ctx context.Context, ident identity.Identity, route string) bool {
	required := RequiredForRoute(route)
	if required == "" {
		return true
	}
	if s.IsBootstrapAdmin(ident.Email) {
		return true
	}
	return s.RoleHasPermission(ctx, ident.RoleKey, required)
}

// ScopeFor resolves the visibility tier a role has for a resource, in
// priority order all > team > own. Partners are always capped at own: even
// when a partner role carries a broader grant, a partner only ever sees
// records they created or referred.
func (s *Service) ScopeFor(ctx context.Context, resource Resource, roleKey string) Scope {
	perms := s.Permissions(ctx, roleKey)
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	scope := ScopeNone
	for i, grant := range scopePermissions[resource] {
		if _, ok := set[grant]; ok {
			scope = [...]Scope{ScopeAll, ScopeTeam, ScopeOwn}[i]
			break
		}
	}
	if roleKey == RoleKeyPartner && scope != ScopeNone {
		scope = ScopeOwn
	}
	return scope
}

// ScopeForIdentity resolves the scope for an identity, granting bootstrap
// admins unrestricted visibility.
func (s *Service) ScopeForIdentity(ctx context.Context, resource Resource, ident identity.Identity) Scope {
	if s.IsBootstrapAdmin(ident.Email) {
		return ScopeAll
	}
	return s.ScopeFor(ctx, resource, ident.RoleKey)
}

// InvalidateCache drops all cached role permissions. Role mutations call
// this so grants take effect without waiting for the window to lapse.
func (s *Service) InvalidateCache() {
	s.cache.Invalidate()
}

func decodePermissions(doc docstore.Document) []Permission {
	switch raw := doc["permissions"].(type) {
	case []any:
		perms := make([]Permission, 0, len(raw))
		for _, entry := range raw {
			if str, ok := entry.(string); ok && str != "" {
				perms = append(perms, Permission(str))
			}
		}
		return perms
	case []string:
		perms := make([]Permission, 0, len(raw))
		for _, str := range raw {
			if str != "" {
				perms = append(perms, Permission(str))
			}
		}
		return perms
	default:
		return []Permission{}
	}
}
