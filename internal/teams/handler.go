package teams

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Handler serves team administration endpoints.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
	rbac   rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, rbac: rbac}
}

// MountRoutes registers team routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewTeams))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditTeams))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermDeleteTeams))
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	teams, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list teams", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "list teams failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, teams)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	team, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "team not found")
			return
		}
		h.logger.Error("get team", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "get team failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, team)
}

type teamRequest struct {
	Name      string   `json:"name"`
	Code      string   `json:"code"`
	ManagerID string   `json:"managerId"`
	Members   []string `json:"members"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := shared.DecodeJSON(r, &req); err != nil || req.Name == "" {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	team := Team{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Code:      req.Code,
		ManagerID: req.ManagerID,
		Members:   req.Members,
	}
	if err := h.repo.Save(r.Context(), team); err != nil {
		h.logger.Error("create team", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "create team failed")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, team)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	team, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondError(w, http.StatusNotFound, "team not found")
		return
	}
	var req teamRequest
	if err := shared.DecodeJSON(r, &req); err != nil || req.Name == "" {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	team.Name = req.Name
	team.Code = req.Code
	team.ManagerID = req.ManagerID
	team.Members = req.Members
	if err := h.repo.Save(r.Context(), team); err != nil {
		h.logger.Error("update team", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "update team failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, team)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error("delete team", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "delete team failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
