package roles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/jobs"
)

var (
	// ErrKeyTaken indicates another role already uses the requested key.
	ErrKeyTaken = errors.New("roles: key already in use")
	// ErrUnknownPermission indicates a grant outside the closed catalog.
	ErrUnknownPermission = errors.New("roles: unknown permission")
)

// PermissionInvalidator drops cached permission sets after role mutations.
type PermissionInvalidator interface {
	InvalidateCache()
}

// Service handles role administration. Every mutation invalidates the
// permission cache, and renames enqueue a background resync of the role
// fields denormalized onto user documents.
type Service struct {
	repo        *Repository
	invalidator PermissionInvalidator
	enqueuer    jobs.Enqueuer
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo *Repository, invalidator PermissionInvalidator, enqueuer jobs.Enqueuer, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		enqueuer:    enqueuer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

// RoleInput is the create/update payload.
type RoleInput struct {
	Key         string   `json:"key" validate:"required,alphanum,lowercase,max=32"`
	Name        string   `json:"name" validate:"required,max=120"`
	Permissions []string `json:"permissions" validate:"dive,required"`
}

// List returns all roles.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

// Get fetches one role by id.
func (s *Service) Get(ctx context.Context, id string) (Role, error) {
	return s.repo.GetByID(ctx, id)
}

// Create inserts a new role after validating the payload against the
// permission catalog and the key uniqueness invariant.
func (s *Service) Create(ctx context.Context, input RoleInput) (Role, error) {
	if err := s.validateInput(input); err != nil {
		return Role{}, err
	}
	if _, err := s.repo.ByKey(ctx, input.Key); err == nil {
		return Role{}, ErrKeyTaken
	} else if !errors.Is(err, shared.ErrNotFound) {
		return Role{}, err
	}
	now := time.Now().UTC()
	role := Role{
		ID:          uuid.NewString(),
		Key:         input.Key,
		Name:        input.Name,
		Permissions: input.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Save(ctx, role); err != nil {
		return Role{}, err
	}
	s.invalidator.InvalidateCache()
	return role, nil
}

// Update rewrites an existing role. Changing the key or display name kicks
// off a background resync of the denormalized fields on user documents.
func (s *Service) Update(ctx context.Context, id string, input RoleInput) (Role, error) {
	if err := s.validateInput(input); err != nil {
		return Role{}, err
	}
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if input.Key != role.Key {
		if existing, err := s.repo.ByKey(ctx, input.Key); err == nil && existing.ID != id {
			return Role{}, ErrKeyTaken
		} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return Role{}, err
		}
	}
	renamed := input.Key != role.Key || input.Name != role.Name
	role.Key = input.Key
	role.Name = input.Name
	role.Permissions = input.Permissions
	role.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, role); err != nil {
		return Role{}, err
	}
	s.invalidator.InvalidateCache()
	if renamed {
		s.enqueueSync(ctx, role)
	}
	return role, nil
}

// Delete removes a role. Users still referencing it degrade to zero
// permissions on their next permission load.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidator.InvalidateCache()
	return nil
}

func (s *Service) validateInput(input RoleInput) error {
	if err := s.validate.Struct(input); err != nil {
		return err
	}
	for _, perm := range input.Permissions {
		if !rbac.Known(rbac.Permission(perm)) {
			return fmt.Errorf("%w: %q", ErrUnknownPermission, perm)
		}
	}
	return nil
}

func (s *Service) enqueueSync(ctx context.Context, role Role) {
	if s.enqueuer == nil {
		return
	}
	task, err := jobs.NewRoleSyncTask(jobs.RoleSyncPayload{
		RoleID:   role.ID,
		RoleKey:  role.Key,
		RoleName: role.Name,
	})
	if err != nil {
		s.logger.Error("build role sync task", slog.Any("error", err))
		return
	}
	if err := s.enqueuer.Enqueue(ctx, task); err != nil {
		s.logger.Error("enqueue role sync", slog.String("role_id", role.ID), slog.Any("error", err))
	}
}
