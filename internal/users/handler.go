package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Handler serves user administration endpoints.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
	rbac   rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, rbac: rbac}
}

// userResponse is the outward user shape; the password hash never leaves
// the repository layer.
type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	RoleID   string `json:"roleId"`
	RoleKey  string `json:"roleKey"`
	RoleName string `json:"roleName"`
	TeamID   string `json:"team,omitempty"`
	IsActive bool   `json:"isActive"`
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewUsers))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
}

// MountProfileRoutes registers the self-service profile routes.
func (h *Handler) MountProfileRoutes(r chi.Router) {
	r.Get("/", h.profile)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditProfile))
		r.Put("/", h.updateProfile)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "list users failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, toResponses(users))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("get user", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "get user failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, toResponse(user))
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	user, err := h.repo.GetByID(r.Context(), ident.ID)
	if err != nil {
		shared.RespondError(w, http.StatusNotFound, "user not found")
		return
	}
	shared.RespondJSON(w, http.StatusOK, toResponse(user))
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	var req updateProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.repo.GetByID(r.Context(), ident.ID)
	if err != nil {
		shared.RespondError(w, http.StatusNotFound, "user not found")
		return
	}
	user.Name = req.Name
	if err := h.repo.Save(r.Context(), user); err != nil {
		h.logger.Error("update profile", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "update profile failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, toResponse(user))
}

func toResponse(user User) userResponse {
	return userResponse{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		RoleID:   user.RoleID,
		RoleKey:  user.RoleKey,
		RoleName: user.RoleName,
		TeamID:   user.TeamID,
		IsActive: user.IsActive,
	}
}

func toResponses(users []User) []userResponse {
	out := make([]userResponse, len(users))
	for i, user := range users {
		out[i] = toResponse(user)
	}
	return out
}
