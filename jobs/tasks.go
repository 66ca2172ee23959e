package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeRoleSyncUsers rewrites the denormalized role fields on every
	// user assigned a role after the role was renamed or re-keyed.
	TaskTypeRoleSyncUsers = "role:sync_users"
	// TaskTypeWarmPermissions re-materializes the permission cache for all
	// roles, registered on a cron so first requests after quiet hours do
	// not pay the store round trip.
	TaskTypeWarmPermissions = "role:warm_permissions"
)

// RoleSyncPayload carries the role state to propagate onto user documents.
type RoleSyncPayload struct {
	RoleID   string `json:"roleId"`
	RoleKey  string `json:"roleKey"`
	RoleName string `json:"roleName"`
}

// NewRoleSyncTask constructs an Asynq task.
func NewRoleSyncTask(payload RoleSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRoleSyncUsers, data), nil
}

// NewWarmPermissionsTask constructs an Asynq task with no payload.
func NewWarmPermissionsTask() *asynq.Task {
	return asynq.NewTask(TaskTypeWarmPermissions, nil)
}

// Enqueuer submits tasks for background processing. Satisfied by Client and
// easily stubbed in tests.
type Enqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task) error
}

// Client wraps an asynq.Client behind the Enqueuer interface.
type Client struct {
	inner *asynq.Client
}

// NewClient constructs a Client from redis connection options.
func NewClient(opts asynq.RedisClientOpt) *Client {
	return &Client{inner: asynq.NewClient(opts)}
}

// Enqueue submits a task on the default queue.
func (c *Client) Enqueue(ctx context.Context, task *asynq.Task) error {
	_, err := c.inner.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases the underlying asynq client.
func (c *Client) Close() error {
	return c.inner.Close()
}
