// Package dashboard summarizes the records visible under the dashboard
// scope tier.
package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/clients"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/proposals"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Handler serves the dashboard summary.
type Handler struct {
	logger    *slog.Logger
	clients   *clients.Service
	proposals *proposals.Service
	resolver  *rbac.Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, clientsSvc *clients.Service, proposalsSvc *proposals.Service, resolver *rbac.Service) *Handler {
	return &Handler{logger: logger, clients: clientsSvc, proposals: proposalsSvc, resolver: resolver}
}

// MountRoutes registers the dashboard route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.summary)
}

type summaryResponse struct {
	Scope          rbac.Scope `json:"scope"`
	Clients        int        `json:"clients"`
	Proposals      int        `json:"proposals"`
	PendingReviews int        `json:"pendingReviews"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	scope := h.resolver.ScopeForIdentity(r.Context(), rbac.ResourceDashboard, ident)
	if scope == rbac.ScopeNone {
		// No dashboard visibility renders an empty summary, not an error.
		shared.RespondJSON(w, http.StatusOK, summaryResponse{})
		return
	}
	var (
		visibleClients   []clients.Client
		visibleProposals []proposals.Proposal
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		visibleClients, err = h.clients.ListWithScope(ctx, ident, scope)
		return err
	})
	g.Go(func() error {
		var err error
		visibleProposals, err = h.proposals.ListWithScope(ctx, ident, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("dashboard summary", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "dashboard failed")
		return
	}
	pending := 0
	for _, proposal := range visibleProposals {
		if proposal.Status == proposals.StatusPending || proposal.Status == proposals.StatusInAnalysis {
			pending++
		}
	}
	shared.RespondJSON(w, http.StatusOK, summaryResponse{
		Scope:          scope,
		Clients:        len(visibleClients),
		Proposals:      len(visibleProposals),
		PendingReviews: pending,
	})
}
