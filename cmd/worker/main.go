package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/app"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/users"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	store := docstore.NewPostgres(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	usersRepo := users.NewRepository(store)
	rbacService := rbac.NewService(store, rbac.NewCache(cfg.RoleCacheTTL), logger, cfg.BootstrapAdminEmails)

	roleSync := jobs.NewRoleSyncHandler(usersRepo, logger)
	warmPermissions := jobs.NewWarmPermissionsHandler(store, rbacService, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeRoleSyncUsers, Handler: roleSync},
			{Type: jobs.TaskTypeWarmPermissions, Handler: warmPermissions},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/30 * * * *", Task: jobs.NewWarmPermissionsTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
