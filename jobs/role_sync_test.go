package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/users"
	_ "github.com/victormartinez6/app-dols-capital-ai-sub000/testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRoleSyncRewritesDenormalizedFields(t *testing.T) {
	ctx := context.Background()
	repo := users.NewRepository(docstore.NewMemory())
	require.NoError(t, repo.Save(ctx, users.User{ID: "u1", Email: "a@dols.test", RoleID: "r1", RoleKey: "analyst", RoleName: "Analyst"}))
	require.NoError(t, repo.Save(ctx, users.User{ID: "u2", Email: "b@dols.test", RoleID: "r1", RoleKey: "analyst", RoleName: "Analyst"}))
	require.NoError(t, repo.Save(ctx, users.User{ID: "u3", Email: "c@dols.test", RoleID: "r2", RoleKey: "partner", RoleName: "Partner"}))

	task, err := NewRoleSyncTask(RoleSyncPayload{RoleID: "r1", RoleKey: "analyst", RoleName: "Senior Analyst"})
	require.NoError(t, err)

	handler := NewRoleSyncHandler(repo, testLogger())
	require.NoError(t, handler(ctx, task))

	u1, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Senior Analyst", u1.RoleName)

	// Other roles untouched.
	u3, err := repo.GetByID(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, "Partner", u3.RoleName)
}

func TestRoleSyncBadPayloadSkipsRetry(t *testing.T) {
	repo := users.NewRepository(docstore.NewMemory())
	handler := NewRoleSyncHandler(repo, testLogger())

	err := handler(context.Background(), asynq.NewTask(TaskTypeRoleSyncUsers, []byte("not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	task, buildErr := NewRoleSyncTask(RoleSyncPayload{RoleID: ""})
	require.NoError(t, buildErr)
	err = handler(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
