package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
)

// Authz decision labels reported to metrics. Bootstrap-admin bypasses get
// their own label so the override stays auditable.
const (
	DecisionAllow          = "allow"
	DecisionDeny           = "deny"
	DecisionBootstrapAdmin = "bootstrap_admin"
)

// DecisionRecorder receives one event per authorization decision.
type DecisionRecorder interface {
	RecordAuthzDecision(decision string)
}

// Middleware wires route guarding for HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
	Metrics DecisionRecorder
}

// GuardRoutes enforces the catalog's route table on every request. Unmapped
// routes pass through; mapped routes require an authenticated identity
// holding the route's permission. Denied browsers are sent to the
// unauthorized landing page, API clients get a 403.
func (m Middleware) GuardRoutes() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			required := RequiredForRoute(r.URL.Path)
			if required == "" {
				next.ServeHTTP(w, r)
				return
			}
			ident, ok := identity.FromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if m.Service.IsBootstrapAdmin(ident.Email) {
				m.record(DecisionBootstrapAdmin)
				next.ServeHTTP(w, r)
				return
			}
			if m.Service.RoleHasPermission(r.Context(), ident.RoleKey, required) {
				m.record(DecisionAllow)
				next.ServeHTTP(w, r)
				return
			}
			m.record(DecisionDeny)
			if m.Logger != nil {
				m.Logger.Warn("route denied",
					slog.String("path", r.URL.Path),
					slog.String("role_key", ident.RoleKey),
					slog.String("required", string(required)))
			}
			m.deny(w, r)
		})
	}
}

// RequireAny ensures the identity holds at least one of the permissions.
// Used for mount-level write guards on top of the route table.
func (m Middleware) RequireAny(perms ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			ident, ok := identity.FromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if m.Service.IsBootstrapAdmin(ident.Email) {
				m.record(DecisionBootstrapAdmin)
				next.ServeHTTP(w, r)
				return
			}
			for _, perm := range perms {
				if m.Service.RoleHasPermission(r.Context(), ident.RoleKey, perm) {
					m.record(DecisionAllow)
					next.ServeHTTP(w, r)
					return
				}
			}
			m.record(DecisionDeny)
			m.deny(w, r)
		})
	}
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
		return
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

func (m Middleware) record(decision string) {
	if m.Metrics != nil {
		m.Metrics.RecordAuthzDecision(decision)
	}
}
