package proposals

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Handler serves proposal endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers proposal routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditProposals))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermApproveProposals))
		r.Post("/{id}/approve", h.approve)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermRejectProposals))
		r.Post("/{id}/reject", h.reject)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermDeleteProposals))
		r.Delete("/{id}", h.remove)
	})
}

// MountPipeline registers the stage board view.
func (h *Handler) MountPipeline(r chi.Router) {
	r.Get("/", h.pipeline)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditPipeline))
		r.Post("/{id}/stage", h.moveStage)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	records, err := h.service.Visible(r.Context(), ident)
	if err != nil {
		h.logger.Error("list proposals", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "list proposals failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, records)
}

func (h *Handler) pipeline(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	board, err := h.service.Pipeline(r.Context(), ident)
	if err != nil {
		h.logger.Error("pipeline board", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "pipeline failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, board)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	proposal, err := h.service.Get(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, "get proposal")
		return
	}
	shared.RespondJSON(w, http.StatusOK, proposal)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	var input ProposalInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	proposal, err := h.service.Create(r.Context(), ident, input)
	if err != nil {
		h.writeServiceError(w, err, "create proposal")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, proposal)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	var input ProposalInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	proposal, err := h.service.Update(r.Context(), ident, chi.URLParam(r, "id"), input)
	if err != nil {
		h.writeServiceError(w, err, "update proposal")
		return
	}
	shared.RespondJSON(w, http.StatusOK, proposal)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	proposal, err := h.service.Approve(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, "approve proposal")
		return
	}
	shared.RespondJSON(w, http.StatusOK, proposal)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	var req rejectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	proposal, err := h.service.Reject(r.Context(), ident, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.writeServiceError(w, err, "reject proposal")
		return
	}
	shared.RespondJSON(w, http.StatusOK, proposal)
}

type moveStageRequest struct {
	Stage string `json:"stage"`
}

func (h *Handler) moveStage(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	var req moveStageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	proposal, err := h.service.MoveStage(r.Context(), ident, chi.URLParam(r, "id"), req.Stage)
	if err != nil {
		h.writeServiceError(w, err, "move stage")
		return
	}
	shared.RespondJSON(w, http.StatusOK, proposal)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	if err := h.service.Delete(r.Context(), ident, chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err, "delete proposal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "proposal not found")
	case errors.Is(err, shared.ErrForbidden):
		shared.RespondError(w, http.StatusForbidden, "not allowed")
	case errors.Is(err, ErrInvalidTransition):
		shared.RespondError(w, http.StatusConflict, ErrInvalidTransition.Error())
	case errors.As(err, &validationErrs):
		shared.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, op+" failed")
	}
}
