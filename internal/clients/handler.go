package clients

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

// Handler serves client registration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers client routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditClients))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermDeleteClients))
		r.Delete("/{id}", h.remove)
	})
}

// MountMyRegistration registers the client-role self-service view.
func (h *Handler) MountMyRegistration(r chi.Router) {
	r.Get("/", h.myRegistration)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	records, err := h.service.Visible(r.Context(), ident)
	if err != nil {
		h.logger.Error("list clients", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "list clients failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, records)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	client, err := h.service.Get(r.Context(), ident, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, "get client")
		return
	}
	shared.RespondJSON(w, http.StatusOK, client)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	var input ClientInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	client, err := h.service.Create(r.Context(), ident, input)
	if err != nil {
		h.writeServiceError(w, err, "create client")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, client)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	var input ClientInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	client, err := h.service.Update(r.Context(), ident, chi.URLParam(r, "id"), input)
	if err != nil {
		h.writeServiceError(w, err, "update client")
		return
	}
	shared.RespondJSON(w, http.StatusOK, client)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	if err := h.service.Delete(r.Context(), ident, chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err, "delete client")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) myRegistration(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	client, err := h.service.MyRegistration(r.Context(), ident)
	if err != nil {
		h.writeServiceError(w, err, "my registration")
		return
	}
	shared.RespondJSON(w, http.StatusOK, client)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "client not found")
	case errors.Is(err, shared.ErrForbidden):
		shared.RespondError(w, http.StatusForbidden, "not allowed")
	case errors.As(err, &validationErrs):
		shared.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, op+" failed")
	}
}
