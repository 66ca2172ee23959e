// Package settings owns the single platform settings document.
package settings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

const (
	// Collection is the document collection holding settings.
	Collection = "settings"
	documentID = "platform"
)

// Settings is the platform-wide configuration edited by admins.
type Settings struct {
	ID                  string  `json:"id,omitempty"`
	CompanyName         string  `json:"companyName"`
	SupportEmail        string  `json:"supportEmail"`
	DefaultCreditType   string  `json:"defaultCreditType,omitempty"`
	MinProposalAmount   float64 `json:"minProposalAmount,omitempty"`
	MaxProposalAmount   float64 `json:"maxProposalAmount,omitempty"`
	AllowSelfSignup     bool    `json:"allowSelfSignup"`
	NotifyOnNewProposal bool    `json:"notifyOnNewProposal"`
}

// Handler serves the settings document.
type Handler struct {
	logger *slog.Logger
	store  docstore.Store
	rbac   rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, store docstore.Store, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, store: store, rbac: rbac}
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewSettings))
		r.Get("/", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditSettings))
		r.Put("/", h.update)
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.GetByID(r.Context(), Collection, documentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.RespondJSON(w, http.StatusOK, Settings{})
			return
		}
		h.logger.Error("get settings", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "get settings failed")
		return
	}
	var settings Settings
	if err := docstore.Decode(doc, &settings); err != nil {
		h.logger.Error("decode settings", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "get settings failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, settings)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var settings Settings
	if err := shared.DecodeJSON(r, &settings); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	settings.ID = documentID
	doc, err := docstore.Encode(settings)
	if err != nil {
		h.logger.Error("encode settings", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "update settings failed")
		return
	}
	if err := h.store.Put(r.Context(), Collection, documentID, doc); err != nil {
		h.logger.Error("update settings", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "update settings failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, settings)
}
