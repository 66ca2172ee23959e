package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Handler serves login and logout.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	sessions *shared.SessionManager
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager) *Handler {
	return &Handler{logger: logger, service: service, sessions: sessions}
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := shared.DecodeJSON(r, &req); err != nil || req.Email == "" || req.Password == "" {
		shared.RespondError(w, http.StatusBadRequest, "email and password required")
		return
	}
	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			shared.RespondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("authenticate", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if _, err := h.sessions.Issue(r.Context(), w, user.ID); err != nil {
		h.logger.Error("issue session", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]string{
		"id":       user.ID,
		"email":    user.Email,
		"roleKey":  user.RoleKey,
		"roleName": user.RoleName,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if err := h.sessions.Destroy(r.Context(), w, sess); err != nil {
		h.logger.Error("destroy session", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, "login required")
		return
	}
	shared.RespondJSON(w, http.StatusOK, ident)
}
