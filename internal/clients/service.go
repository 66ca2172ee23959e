package clients

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/visibility"
)

// Service applies scope resolution and the visibility filter to the client
// collection, and stamps ownership signals onto new registrations.
type Service struct {
	repo     *Repository
	resolver *rbac.Service
	teams    *visibility.TeamResolver
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo *Repository, resolver *rbac.Service, teams *visibility.TeamResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		teams:    teams,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Visible returns the registrations the identity may see under its resolved
// clients scope. No scope yields an empty list, not an error.
func (s *Service) Visible(ctx context.Context, ident identity.Identity) ([]Client, error) {
	scope := s.resolver.ScopeForIdentity(ctx, rbac.ResourceClients, ident)
	return s.ListWithScope(ctx, ident, scope)
}

// ListWithScope filters the collection under an externally resolved scope.
// The dashboard reuses this with its own scope tier.
func (s *Service) ListWithScope(ctx context.Context, ident identity.Identity, scope rbac.Scope) ([]Client, error) {
	if scope == rbac.ScopeNone {
		return []Client{}, nil
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	team := s.teamSnapshot(ctx, ident, scope)
	return visibility.Filter(records, visibility.ViewerFor(ident), scope, team, visibility.ClientSignals), nil
}

// Get fetches one registration, applying the same filter as list views so a
// detail URL can never leak a record its list would hide.
func (s *Service) Get(ctx context.Context, ident identity.Identity, id string) (Client, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}
	scope := s.resolver.ScopeForIdentity(ctx, rbac.ResourceClients, ident)
	if scope == rbac.ScopeNone {
		return Client{}, shared.ErrForbidden
	}
	team := s.teamSnapshot(ctx, ident, scope)
	if !visibility.Visible(client, visibility.ViewerFor(ident), scope, team, visibility.ClientSignals) {
		return Client{}, shared.ErrForbidden
	}
	return client, nil
}

// ClientInput is the create/update payload.
type ClientInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"max=32"`
	Type  string `json:"type" validate:"required,oneof=PF PJ"`
}

// Create inserts a registration stamped with the acting identity's
// ownership signals.
func (s *Service) Create(ctx context.Context, ident identity.Identity, input ClientInput) (Client, error) {
	if err := s.validate.Struct(input); err != nil {
		return Client{}, err
	}
	now := time.Now().UTC()
	client := Client{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Type:      input.Type,
		Status:    StatusPending,
		UserID:    ident.ID,
		CreatedBy: ident.Email,
		TeamID:    ident.TeamID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, client); err != nil {
		return Client{}, err
	}
	return client, nil
}

// Update rewrites a registration's editable fields after a visibility check.
func (s *Service) Update(ctx context.Context, ident identity.Identity, id string, input ClientInput) (Client, error) {
	if err := s.validate.Struct(input); err != nil {
		return Client{}, err
	}
	client, err := s.Get(ctx, ident, id)
	if err != nil {
		return Client{}, err
	}
	client.Name = input.Name
	client.Email = input.Email
	client.Phone = input.Phone
	client.Type = input.Type
	client.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, client); err != nil {
		return Client{}, err
	}
	return client, nil
}

// Delete removes a registration after a visibility check.
func (s *Service) Delete(ctx context.Context, ident identity.Identity, id string) error {
	if _, err := s.Get(ctx, ident, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// MyRegistration resolves the registration belonging to the acting identity
// itself, for the client role's self-service view.
func (s *Service) MyRegistration(ctx context.Context, ident identity.Identity) (Client, error) {
	records, err := s.repo.ByUserID(ctx, ident.ID)
	if err != nil {
		return Client{}, err
	}
	if len(records) > 0 {
		return records[0], nil
	}
	// Older self-registrations carry only the email signal.
	all, err := s.repo.List(ctx)
	if err != nil {
		return Client{}, err
	}
	matched := visibility.Filter(all, visibility.ViewerFor(ident), rbac.ScopeOwn, nil, visibility.ClientSignals)
	if len(matched) == 0 {
		return Client{}, shared.ErrNotFound
	}
	return matched[0], nil
}

func (s *Service) teamSnapshot(ctx context.Context, ident identity.Identity, scope rbac.Scope) *visibility.TeamSnapshot {
	if scope != rbac.ScopeTeam || ident.TeamID == "" {
		return nil
	}
	team, err := s.teams.Snapshot(ctx, ident.TeamID)
	if err != nil {
		// Degrade to the viewer's direct team-id matching.
		s.logger.Warn("resolve team snapshot", slog.String("team_id", ident.TeamID), slog.Any("error", err))
		return nil
	}
	return team
}
