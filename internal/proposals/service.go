package proposals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/visibility"
)

// ErrInvalidTransition indicates a decision on an already decided proposal.
var ErrInvalidTransition = errors.New("proposals: invalid status transition")

// Service applies scope resolution and the visibility filter to the
// proposal collection and owns the approve/reject transitions.
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

// Visible returns the proposals the identity may see under its resolved
// proposals scope.
func (s *Service) Visible(ctx context.Context, ident identity.Identity) ([]Proposal, error) {
	scope := s.resolver.ScopeForIdentity(ctx, rbac.ResourceProposals, ident)
	return s.ListWithScope(ctx, ident, scope)
}

// ListWithScope filters the collection under an externally resolved scope.
func (s *Service) ListWithScope(ctx context.Context, ident identity.Identity, scope rbac.Scope) ([]Proposal, error) {
	if scope == rbac.ScopeNone {
		return []Proposal{}, nil
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	team := s.teamSnapshot(ctx, ident, scope)
	return visibility.Filter(records, visibility.ViewerFor(ident), scope, team, visibility.ProposalSignals), nil
}

// Pipeline groups the identity's visible proposals by stage, resolved under
// the pipeline scope rather than the proposals scope.
func (s *Service) Pipeline(ctx context.Context, ident identity.Identity) (map[string][]Proposal, error) {
	scope := s.resolver.ScopeForIdentity(ctx, rbac.ResourcePipeline, ident)
	records, err := s.ListWithScope(ctx, ident, scope)
	if err != nil {
		return nil, err
	}
	board := make(map[string][]Proposal, len(Stages))
	for _, stage := range Stages {
		board[stage] = []Proposal{}
	}
	for _, proposal := range records {
		stage := proposal.Stage
		if _, ok := board[stage]; !ok {
			stage = Stages[0]
		}
		board[stage] = append(board[stage], proposal)
	}
	return board, nil
}

// Get fetches one proposal, applying the same filter as list views.
func (s *Service) Get(ctx context.Context, ident identity.Identity, id string) (Proposal, error) {
	proposal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Proposal{}, err
	}
	scope := s.resolver.ScopeForIdentity(ctx, rbac.ResourceProposals, ident)
	if scope == rbac.ScopeNone {
		return Proposal{}, shared.ErrForbidden
	}
	team := s.teamSnapshot(ctx, ident, scope)
	if !visibility.Visible(proposal, visibility.ViewerFor(ident), scope, team, visibility.ProposalSignals) {
		return Proposal{}, shared.ErrForbidden
	}
	return proposal, nil
}

// ProposalInput is the create/update payload.
type ProposalInput struct {
	ClientID   string  `json:"clientId" validate:"required"`
	ClientName string  `json:"clientName" validate:"max=200"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	CreditType string  `json:"creditType" validate:"required,max=64"`
}

// Create inserts a proposal stamped with the acting identity's ownership
// signals plus the client it was raised for.
func (s *Service) Create(ctx context.Context, ident identity.Identity, input ProposalInput) (Proposal, error) {
	if err := s.validate.Struct(input); err != nil {
		return Proposal{}, err
	}
	now := time.Now().UTC()
	proposal := Proposal{
		ID:         uuid.NewString(),
		ClientID:   input.ClientID,
		ClientName: input.ClientName,
		Amount:     input.Amount,
		CreditType: input.CreditType,
		Status:     StatusPending,
		Stage:      Stages[0],
		UserID:     ident.ID,
		CreatedBy:  ident.Email,
		TeamID:     ident.TeamID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Save(ctx, proposal); err != nil {
		return Proposal{}, err
	}
	return proposal, nil
}

// Update rewrites a proposal's editable fields after a visibility check.
// Decided proposals are immutable.
func (s *Service) Update(ctx context.Context, ident identity.Identity, id string, input ProposalInput) (Proposal, error) {
	if err := s.validate.Struct(input); err != nil {
		return Proposal{}, err
	}
	proposal, err := s.Get(ctx, ident, id)
	if err != nil {
		return Proposal{}, err
	}
	if proposal.Status == StatusApproved || proposal.Status == StatusRejected {
		return Proposal{}, ErrInvalidTransition
	}
	proposal.ClientID = input.ClientID
	proposal.ClientName = input.ClientName
	proposal.Amount = input.Amount
	proposal.CreditType = input.CreditType
	proposal.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, proposal); err != nil {
		return Proposal{}, err
	}
	return proposal, nil
}

// Approve moves a pending or in-analysis proposal to approved.
func (s *Service) Approve(ctx context.Context, ident identity.Identity, id string) (Proposal, error) {
	return s.decide(ctx, ident, id, StatusApproved, "")
}

// Reject moves a pending or in-analysis proposal to rejected.
func (s *Service) Reject(ctx context.Context, ident identity.Identity, id, reason string) (Proposal, error) {
	return s.decide(ctx, ident, id, StatusRejected, reason)
}

// MoveStage moves a proposal across the pipeline board.
func (s *Service) MoveStage(ctx context.Context, ident identity.Identity, id, stage string) (Proposal, error) {
	valid := false
	for _, known := range Stages {
		if known == stage {
			valid = true
			break
		}
	}
	if !valid {
		return Proposal{}, fmt.Errorf("proposals: unknown stage %q", stage)
	}
	proposal, err := s.Get(ctx, ident, id)
	if err != nil {
		return Proposal{}, err
	}
	proposal.Stage = stage
	proposal.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, proposal); err != nil {
		return Proposal{}, err
	}
	return proposal, nil
}

// Delete removes a proposal after a visibility check.
func (s *Service) Delete(ctx context.Context, ident identity.Identity, id string) error {
	if _, err := s.Get(ctx, ident, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) decide(ctx context.Context, ident identity.Identity, id, status, reason string) (Proposal, error) {
	proposal, err := s.Get(ctx, ident, id)
	if err != nil {
		return Proposal{}, err
	}
	if proposal.Status != StatusPending && proposal.Status != StatusInAnalysis {
		return Proposal{}, ErrInvalidTransition
	}
	proposal.Status = status
	proposal.RejectionReason = reason
	proposal.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, proposal); err != nil {
		return Proposal{}, err
	}
	return proposal, nil
}

func (s *Service) teamSnapshot(ctx context.Context, ident identity.Identity, scope rbac.Scope) *visibility.TeamSnapshot {
	if scope != rbac.ScopeTeam || ident.TeamID == "" {
		return nil
	}
	team, err := s.teams.Snapshot(ctx, ident.TeamID)
	if err != nil {
		s.logger.Warn("resolve team snapshot", slog.String("team_id", ident.TeamID), slog.Any("error", err))
		return nil
	}
	return team
}
