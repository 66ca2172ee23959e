package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/app"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/auth"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/clients"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/dashboard"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/docstore"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/identity"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/observability"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/proposals"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/rbac"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/roles"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/settings"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/shared"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/teams"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/users"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/visibility"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/internal/webhooks"
	"github.com/victormartinez6/app-dols-capital-ai-sub000/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	store := docstore.NewPostgres(dbpool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "dols_session", cfg.SessionTTL, cfg.IsProduction())
	identityResolver := identity.Resolver{Store: store, Logger: logger}

	metrics := observability.NewMetrics()

	rbacService := rbac.NewService(store, rbac.NewCache(cfg.RoleCacheTTL), logger, cfg.BootstrapAdminEmails)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger, Metrics: metrics}

	usersRepo := users.NewRepository(store)
	teamResolver := &visibility.TeamResolver{Store: store, Emails: usersRepo, Logger: logger}

	teamsRepo := teams.NewRepository(store)
	rolesRepo := roles.NewRepository(store)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	authService := auth.NewService(usersRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	rolesService := roles.NewService(rolesRepo, rbacService, jobsClient, logger)
	rolesHandler := roles.NewHandler(logger, rolesService, rbacMiddleware)

	usersHandler := users.NewHandler(logger, usersRepo, rbacMiddleware)
	teamsHandler := teams.NewHandler(logger, teamsRepo, rbacMiddleware)

	clientsRepo := clients.NewRepository(store)
	clientsService := clients.NewService(clientsRepo, rbacService, teamResolver, logger)
	clientsHandler := clients.NewHandler(logger, clientsService, rbacMiddleware)

	proposalsRepo := proposals.NewRepository(store)
	proposalsService := proposals.NewService(proposalsRepo, rbacService, teamResolver, logger)
	proposalsHandler := proposals.NewHandler(logger, proposalsService, rbacMiddleware)

	dashboardHandler := dashboard.NewHandler(logger, clientsService, proposalsService, rbacService)
	webhooksHandler := webhooks.NewHandler(logger, store, rbacMiddleware)
	settingsHandler := settings.NewHandler(logger, store, rbacMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		Identity:         identityResolver,
		RBACMiddleware:   rbacMiddleware,
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		ClientsHandler:   clientsHandler,
		ProposalsHandler: proposalsHandler,
		RolesHandler:     rolesHandler,
		UsersHandler:     usersHandler,
		TeamsHandler:     teamsHandler,
		WebhooksHandler:  webhooksHandler,
		SettingsHandler:  settingsHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
