package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/event-reservation/internal/api/http"
	"github.com/spec-kit/event-reservation/internal/api/http/handlers"
	"github.com/spec-kit/event-reservation/internal/auth"
	"github.com/spec-kit/event-reservation/internal/config"
	"github.com/spec-kit/event-reservation/internal/events"
	"github.com/spec-kit/event-reservation/internal/observability"
	"github.com/spec-kit/event-reservation/internal/persistence"
	"github.com/spec-kit/event-reservation/internal/repository"
	"github.com/spec-kit/event-reservation/internal/repository/memory"
	"github.com/spec-kit/event-reservation/internal/service"
	"github.com/spec-kit/event-reservation/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users        repository.UserRepository
	events       repository.EventRepository
	reservations repository.ReservationRepository
	tokens       repository.TokenRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg, redis)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:  repos.users,
		TokenRepo: repos.tokens,
		Logger:    logger,
	})
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("failed to create bootstrap admin", zap.Error(err))
	}
	eventService := service.NewEventService(service.EventDependencies{
		EventRepo:       repos.events,
		ReservationRepo: repos.reservations,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	reservationService := service.NewReservationService(service.ReservationDependencies{
		ReservationRepo: repos.reservations,
		EventRepo:       repos.events,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	userService := service.NewUserService(cfg.Auth, repos.users, logger)

	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notifications, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.tokens)

	app := httptransport.NewApp(cfg.App.Name, logger, metrics)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Events:         handlers.NewEventsHandler(eventService),
		Reservations:   handlers.NewReservationsHandler(reservationService),
		Admin:          handlers.NewAdminHandler(userService, eventService, reservationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// buildRepositories selects Postgres and Redis when available and falls back
// to the in-memory store otherwise.
func buildRepositories(pg *persistence.Postgres, redis *persistence.Redis) repositories {
	store := memory.New()
	repos := repositories{
		users:        store.Users(),
		events:       store.Events(),
		reservations: store.Reservations(),
		tokens:       store.Tokens(),
	}
	if pg.Enabled() {
		pool := pg.PoolHandle()
		repos.users = repository.NewUserRepository(pool)
		repos.events = repository.NewEventRepository(pool)
		repos.reservations = repository.NewReservationRepository(pool)
	}
	if redis.Enabled() {
		repos.tokens = repository.NewTokenRepository(redis.Client)
	}
	return repos
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
