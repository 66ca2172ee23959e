package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/users"
)

// NewRoleSyncHandler returns the handler for TaskTypeRoleSyncUsers. It
// rewrites roleKey/roleName on every user referencing the role so the
// denormalized fields stay consistent with the role document.
func NewRoleSyncHandler(repo *users.Repository, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RoleSyncPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.RoleID == "" {
			return asynq.SkipRetry
		}
		affected, err := repo.ByRoleID(ctx, payload.RoleID)
		if err != nil {
			return err
		}
		synced := 0
		for _, user := range affected {
			if user.RoleKey == payload.RoleKey && user.RoleName == payload.RoleName {
				continue
			}
			user.RoleKey = payload.RoleKey
			user.RoleName = payload.RoleName
			if err := repo.Save(ctx, user); err != nil {
				return err
			}
			synced++
		}
		logger.Info("role sync complete",
			slog.String("role_id", payload.RoleID),
			slog.Int("affected", len(affected)),
			slog.Int("synced", synced))
		return nil
	}
}
