package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/biosecret/go-todo/apperror"
	"github.com/biosecret/go-todo/auth"
	"github.com/biosecret/go-todo/config"
	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/events"
	"github.com/biosecret/go-todo/handlers"
	"github.com/biosecret/go-todo/logger"
	"github.com/biosecret/go-todo/middleware"
	"github.com/biosecret/go-todo/router"
	"github.com/biosecret/go-todo/store"
)

// eventBuffer is how many events a slow SSE client may fall behind by.
const eventBuffer = 16

// SetupAndRunApp starts the service and blocks until SIGINT/SIGTERM.
func SetupAndRunApp() error {
	// Load environment variables from .env
	if err := config.LoadENV(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start PostgreSQL and apply migrations
	db, err := database.StartPostgreSQL(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return err
	}
	// Make sure the pool is closed when the app exits
	defer db.Close()

	tokens, err := auth.NewTokens(cfg.JWTSecret)
	if err != nil {
		return err
	}

	broker := events.NewBroker(eventBuffer)
	defer broker.Close()

	publishers := events.Publishers{broker}
	if cfg.MQTTURL != "" {
		mqttPub, err := events.DialMQTT(cfg.MQTTURL, cfg.MQTTClientID, log)
		if err != nil {
			return err
		}
		defer mqttPub.Close()
		publishers = append(publishers, mqttPub)
	}

	h := &handlers.Handler{
		Users:  store.NewUsers(db),
		Todos:  store.NewTodos(db),
		Tokens: tokens,
		Events: publishers,
		Stream: broker,
		DB:     db,
		Log:    log,
	}

	app := NewServer(cfg, h, tokens, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	// Closing the broker ends open event streams so shutdown is not held up.
	broker.Close()
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// NewServer builds the fiber app with middleware and routes mounted.
func NewServer(cfg *config.Config, h *handlers.Handler, verifier middleware.TokenVerifier, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "todo-api",
		ErrorHandler:          apperror.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Authorization,Content-Type",
	}))

	// Log every request, including panics turned into errors by recover
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())

	router.SetupRoutes(app, h, middleware.JWTMiddleware(verifier, router.PublicPaths...))

	config.AddSwaggerRoutes(app)

	return app
}
