// Package webhooks manages outbound webhook endpoint configuration.
// Delivery itself is handled by an external dispatcher; this module only
// owns the configuration documents.
package webhooks

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
)

// Collection is the document collection holding webhook endpoints.
const Collection = "webhooks"

// Webhook is one outbound endpoint subscription.
type Webhook struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Active bool     `json:"active"`
}

type webhookInput struct {
	URL    string   `json:"url" validate:"required,url"`
	Events []string `json:"events" validate:"required,min=1,dive,required"`
	Active bool     `json:"active"`
}

// Handler serves webhook configuration endpoints.
type Handler struct {
	logger   *slog.Logger
	store    docstore.Store
	rbac     rbac.Middleware
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, store docstore.Store, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, store: store, rbac: rbac, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// MountRoutes registers webhook routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermViewWebhooks))
		r.Get("/", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermEditWebhooks))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.List(r.Context(), Collection)
	if err != nil {
		h.logger.Error("list webhooks", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "list webhooks failed")
		return
	}
	hooks := make([]Webhook, 0, len(docs))
	for _, doc := range docs {
		var hook Webhook
		if err := docstore.Decode(doc, &hook); err != nil {
			h.logger.Error("decode webhook", slog.Any("error", err))
			continue
		}
		hooks = append(hooks, hook)
	}
	shared.RespondJSON(w, http.StatusOK, hooks)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input webhookInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	hook := Webhook{ID: uuid.NewString(), URL: input.URL, Events: input.Events, Active: input.Active}
	if err := h.save(r.Context(), hook); err != nil {
		h.logger.Error("create webhook", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "create webhook failed")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, hook)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.GetByID(r.Context(), Collection, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.RespondError(w, http.StatusNotFound, "webhook not found")
			return
		}
		h.logger.Error("get webhook", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "update webhook failed")
		return
	}
	var input webhookInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	hook := Webhook{ID: id, URL: input.URL, Events: input.Events, Active: input.Active}
	if err := h.save(r.Context(), hook); err != nil {
		h.logger.Error("update webhook", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "update webhook failed")
		return
	}
	shared.RespondJSON(w, http.StatusOK, hook)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), Collection, chi.URLParam(r, "id")); err != nil {
		h.logger.Error("delete webhook", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "delete webhook failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) save(ctx context.Context, hook Webhook) error {
	doc, err := docstore.Encode(hook)
	if err != nil {
		return err
	}
	return h.store.Put(ctx, Collection, hook.ID, doc)
}
