package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/janus-pm/janus/internal/api/http"
	"github.com/janus-pm/janus/internal/api/http/handlers"
	"github.com/janus-pm/janus/internal/config"
	"github.com/janus-pm/janus/internal/events"
	"github.com/janus-pm/janus/internal/mailer"
	"github.com/janus-pm/janus/internal/observability"
	"github.com/janus-pm/janus/internal/persistence"
	"github.com/janus-pm/janus/internal/repository"
	"github.com/janus-pm/janus/internal/service"
	"github.com/janus-pm/janus/internal/triage"
	"github.com/janus-pm/janus/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewTicketMessageRepository(pool)
	residentRepo := repository.NewResidentRepository(pool)
	buildingRepo := repository.NewBuildingRepository(pool)
	vendorRepo := repository.NewVendorRepository(pool)
	mailSettingsRepo := repository.NewMailSettingsRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, metrics, logger)

	resolver := mailer.NewStoreResolver(mailSettingsRepo, cfg.Mail, logger)
	classifier := buildClassifier(ctx, cfg.Triage, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		MessageRepo:  messageRepo,
		ResidentRepo: residentRepo,
		BuildingRepo: buildingRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo:  ticketRepo,
		VendorRepo:  vendorRepo,
		MessageRepo: messageRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		TicketRepo:   ticketRepo,
		MessageRepo:  messageRepo,
		BuildingRepo: buildingRepo,
		VendorRepo:   vendorRepo,
		Resolver:     resolver,
		Mail:         cfg.Mail,
		Logger:       logger,
	})
	intakeService := service.NewIntakeService(service.IntakeDependencies{
		ResidentRepo:  residentRepo,
		TicketService: ticketService,
		Assignments:   assignmentService,
		Notifications: notificationService,
		Classifier:    classifier,
		Locker:        redis,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Intake:    handlers.NewIntakeHandler(intakeService),
		Tickets:   handlers.NewTicketsHandler(ticketService, notificationService),
		Directory: handlers.NewDirectoryHandler(vendorRepo, residentRepo),
		Admin:     handlers.NewAdminHandler(logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildClassifier prefers Gemini when an API key is present and falls back to
// the deterministic keyword classifier otherwise.
func buildClassifier(ctx context.Context, cfg config.TriageConfig, logger *zap.Logger) triage.Classifier {
	if cfg.GeminiAPIKey != "" {
		classifier, err := triage.NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Timeout(), logger)
		if err == nil {
			return classifier
		}
		logger.Error("gemini client init failed; using keyword fallback", zap.Error(err))
	}

	rules := triage.DefaultRules()
	if cfg.RulesPath != "" {
		loaded, err := triage.LoadRules(cfg.RulesPath)
		if err != nil {
			logger.Warn("triage rules file unreadable; using built-in defaults", zap.Error(err))
		}
		rules = loaded
	}
	return triage.NewKeywordClassifier(rules)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
