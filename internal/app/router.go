package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/auth"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/clients"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/dashboard"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/observability"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/proposals"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/roles"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/settings"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/teams"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/users"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/webhooks"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	Identity         identity.Resolver
	RBACMiddleware   rbac.Middleware
	AuthHandler      *auth.Handler
	DashboardHandler *dashboard.Handler
	ClientsHandler   *clients.Handler
	ProposalsHandler *proposals.Handler
	RolesHandler     *roles.Handler
	UsersHandler     *users.Handler
	TeamsHandler     *teams.Handler
	WebhooksHandler  *webhooks.Handler
	SettingsHandler  *settings.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Identity:       params.Identity,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.RBACMiddleware.GuardRoutes())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/unauthorized", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondError(w, http.StatusForbidden, "you do not have access to this resource")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identity.FromContext(r.Context()); !ok {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	r.Route("/clients", params.ClientsHandler.MountRoutes)
	r.Route("/my-registration", params.ClientsHandler.MountMyRegistration)
	r.Route("/proposals", params.ProposalsHandler.MountRoutes)
	r.Route("/pipeline", params.ProposalsHandler.MountPipeline)
	r.Route("/roles", params.RolesHandler.MountRoutes)
	r.Route("/users", params.UsersHandler.MountRoutes)
	r.Route("/profile", params.UsersHandler.MountProfileRoutes)
	r.Route("/teams", params.TeamsHandler.MountRoutes)
	r.Route("/webhooks", params.WebhooksHandler.MountRoutes)
	r.Route("/settings", params.SettingsHandler.MountRoutes)

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	return r
}
