package main

import (
	"context"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
	"github.com/spec-kit/helpdesk/migrations"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users    repository.UserRepository
	tickets  repository.TicketRepository
	comments repository.CommentRepository
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

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrationSource(cfg.Postgres), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg)
	queue := buildQueue(ctx, cfg.Notification, redis, logger)

	authService := service.NewAuthService(cfg.Auth, repos.users)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repos.tickets,
		UserRepo:   repos.users,
		Publisher:  queue,
		Metrics:    metrics,
		Logger:     logger.Named("tickets"),
	})
	commentService := service.NewCommentService(repos.tickets, repos.comments, nil)
	slaService := service.NewSLAService(repos.tickets, queue, metrics, logger.Named("sla"), nil)

	sender := notify.NewTeamsSender(notify.TeamsConfig{
		WebhookURL:    cfg.Notification.WebhookURL,
		Timeout:       cfg.Notification.Timeout(),
		RatePerSecond: cfg.Notification.RatePerSecond,
	}, logger.Named("webhook"))
	notificationService := service.NewNotificationService(
		notify.NewRenderer(cfg.Notification.Location()), sender, metrics, logger.Named("notifications"))

	notificationWorker := worker.NewNotificationWorker(queue, notificationService, logger.Named("worker"))
	notificationWorker.Start(ctx)
	defer notificationWorker.Stop()

	if cfg.Watchdog.Enabled {
		watchdog, err := worker.NewSLAWatchdog(slaService, metrics, logger.Named("watchdog"), worker.SweepSchedule)
		if err != nil {
			logger.Fatal("failed to schedule sla watchdog", zap.Error(err))
		}
		watchdog.Start()
		defer watchdog.Stop()
	}

	app := httptransport.NewApp(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
	}, logger, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Comments:       handlers.NewCommentsHandler(commentService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
		FrontendOrigin: cfg.App.FrontendOrigin,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres) repositories {
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return repositories{
			users:    repository.NewUserRepository(pool),
			tickets:  repository.NewTicketRepository(pool),
			comments: repository.NewCommentRepository(pool),
		}
	}
	store := memory.NewStore()
	return repositories{users: store.Users(), tickets: store.Tickets(), comments: store.Comments()}
}

func buildQueue(ctx context.Context, cfg config.NotificationConfig, redis *persistence.Redis, logger *zap.Logger) events.Queue {
	if cfg.Queue == config.QueueRedis && redis.Enabled() {
		logger.Info("notification queue backed by redis", zap.String("key", cfg.QueueKey))
		return events.NewRedisQueue(ctx, redis.Client, cfg.QueueKey, cfg.QueueSize, logger.Named("queue"))
	}
	return events.NewChannelQueue(cfg.QueueSize)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

// migrationSource prefers an on-disk directory when one is configured, falling back to the embedded scripts.
func migrationSource(cfg config.PostgresConfig) fs.FS {
	if cfg.MigrationsDir == "" {
		return migrations.Files
	}
	return os.DirFS(cfg.MigrationsDir)
}
