package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"showcase/internal/config"
	"showcase/internal/database"
	"showcase/internal/handlers"
	"showcase/internal/middleware"
	"showcase/internal/repositories"
	"showcase/internal/services"
	"showcase/pkg/github"
	"showcase/pkg/logger"
	"showcase/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	// --- Initialize Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, closeApp, err := newApp(ctx, cfg, db, log)
	if err != nil {
		log.Fatal("failed to create app", zap.Error(err))
	}

	// --- Start HTTP Server ---
	log.Info("starting server", zap.String("port", cfg.AppPort))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("error during fiber shutdown", zap.Error(err))
	}
	cancel()
	closeLogged(log, "rabbitmq client", closeApp)
	closeLogged(log, "database", func() error { return database.Close(db) })
	log.Info("server gracefully stopped")
}

// closeLogged runs closeFn and logs its error, if any.
func closeLogged(log *zap.Logger, what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Error("error closing "+what, zap.Error(err))
	}
}

// newApp wires repositories, services and handlers into a Fiber app. The
// returned close function releases the broker connection, if any.
func newApp(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) (*fiber.App, func() error, error) {
	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	projectRepo := repositories.NewGORMProjectRepository(db)
	supportRepo := repositories.NewGORMSupportRepository(db)
	badgeRepo := repositories.NewGORMBadgeRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)

	// --- Initialize Services ---
	notificationService := services.NewNotificationService(notificationRepo, log)

	closeBroker := func() error { return nil }
	var events services.EventPublisher = services.NewDirectPublisher(notificationService)
	if cfg.BrokerEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.NotificationQueue}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		closeBroker = mqClient.Close
		events = services.NewQueuePublisher(mqClient)

		// Project events become notifications on the consumer side.
		err = mqClient.Consume(func(body []byte) error {
			event, err := services.DecodeProjectEvent(body)
			if err != nil {
				return err
			}
			return notificationService.HandleProjectEvent(ctx, event)
		})
		if err != nil {
			closeLogged(log, "rabbitmq client", mqClient.Close)
			return nil, nil, fmt.Errorf("failed to start RabbitMQ consumer: %w", err)
		}
	}

	aggregateService := services.NewAggregateService(supportRepo, projectRepo, userRepo)
	badgeService := services.NewBadgeService(badgeRepo, userRepo, projectRepo, services.DefaultBadgeRules(), log)
	if err := badgeService.EnsureCatalog(ctx); err != nil {
		closeLogged(log, "rabbitmq client", closeBroker)
		return nil, nil, fmt.Errorf("failed to seed badge catalog: %w", err)
	}
	reactionService := services.NewReactionService(supportRepo, projectRepo, userRepo, aggregateService, badgeService, events, log)
	projectService := services.NewProjectService(projectRepo, userRepo, reactionService, aggregateService, badgeService, log)
	commentService := services.NewCommentService(commentRepo, projectRepo, userRepo, events, log)
	userService := services.NewUserService(userRepo)
	searchService := services.NewSearchService(projectRepo, userRepo)

	var provider services.IdentityProvider
	if cfg.GithubClientID != "" {
		oauth := github.OAuthConfig(cfg.GithubClientID, cfg.GithubSecret, cfg.GithubRedirectURL)
		provider = services.NewGithubIdentityProvider(oauth, cfg.GithubAPIURL)
	} else {
		log.Warn("GITHUB_CLIENT_ID is not set, sign-in is disabled")
	}
	authService := services.NewAuthService(userRepo, provider, badgeService, cfg.JWTSecret, cfg.TokenTTL, log)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{AppName: "showcase"})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(fiberlogger.New()) // Request logger

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		dbStatus := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status, dbStatus = "degraded", "unreachable"
		}
		broker := "disabled"
		if cfg.BrokerEnabled() {
			broker = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"rabbitmq": broker,
		})
	})

	// --- API Routes ---
	// Group routes under /api/v1
	apiV1 := app.Group("/api/v1")
	guards := middleware.NewGuards(authService, log)

	handlers.NewAuthHandler(authService, log).RegisterRoutes(apiV1)
	handlers.NewUserHandler(userService, log).RegisterRoutes(apiV1, guards)
	handlers.NewProjectHandler(projectService, log).RegisterRoutes(apiV1, guards)
	handlers.NewReactionHandler(reactionService, log).RegisterRoutes(apiV1, guards)
	handlers.NewCommentHandler(commentService, log).RegisterRoutes(apiV1, guards)
	handlers.NewBadgeHandler(badgeService, log).RegisterRoutes(apiV1, guards)
	handlers.NewNotificationHandler(notificationService, log).RegisterRoutes(apiV1, guards)
	handlers.NewSearchHandler(searchService, log).RegisterRoutes(apiV1)

	return app, closeBroker, nil
}
