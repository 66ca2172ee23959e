package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
)

const rolesCollection = "roles"

// NewWarmPermissionsHandler returns the handler for TaskTypeWarmPermissions.
// It walks every role document and forces the resolver to materialize its
// permission set.
func NewWarmPermissionsHandler(store docstore.Store, resolver *rbac.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		docs, err := store.List(ctx, rolesCollection)
		if err != nil {
			return err
		}
		warmed := 0
		for _, doc := range docs {
			key := doc.String("key")
			if key == "" {
				continue
			}
			resolver.Permissions(ctx, key)
			warmed++
		}
		logger.Info("permission cache warmed", slog.Int("roles", warmed))
		return nil
	}
}
