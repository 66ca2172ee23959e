package roles

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Handler serves role administration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewRoles))
		r.Get("/", h.list)
		r.Get("/permissions", h.listCatalog)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditRoles))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermDeleteRoles))
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "list roles failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, roles)
}

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	shared.RespondJSON(w, http.StatusOK, rbac.AllPermissions())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	role, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "role not found")
			return
		}
		h.logger.Error("get role", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "get role failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, role)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input RoleInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	role, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, err, "create role")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, role)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var input RoleInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	role, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.writeServiceError(w, err, "update role")
		return
	}
	shared.RespondJSON(w, http.StatusOK, role)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err, "delete role")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "role not found")
	case errors.Is(err, ErrKeyTaken):
		shared.RespondError(w, http.StatusConflict, ErrKeyTaken.Error())
	case errors.Is(err, ErrUnknownPermission):
		shared.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrs):
		shared.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, op+" failed")
	}
}
