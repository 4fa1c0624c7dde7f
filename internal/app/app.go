package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atelierline/storefront-cart/internal/adapter/catalog"
	"github.com/atelierline/storefront-cart/internal/adapter/memory"
	mongoadapter "github.com/atelierline/storefront-cart/internal/adapter/mongo"
	natsadapter "github.com/atelierline/storefront-cart/internal/adapter/nats"
	redisadapter "github.com/atelierline/storefront-cart/internal/adapter/redis"
	"github.com/atelierline/storefront-cart/internal/app/config"
	"github.com/atelierline/storefront-cart/internal/platform/logger"
	httpport "github.com/atelierline/storefront-cart/internal/port/http"
	"github.com/atelierline/storefront-cart/internal/repository"
	"github.com/atelierline/storefront-cart/internal/service"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpport.Server
	redisClient *redis.Client
	mongoClient *mongo.Client
	publisher   *natsadapter.Publisher
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s, Cart backend: %s",
		cfg.Env, cfg.HTTPServer.Port, cfg.Cart.Backend)

	application := &App{cfg: cfg, log: appLogger}

	var snapshots repository.CartSnapshotStore
	switch cfg.Cart.Backend {
	case "redis":
		appLogger.Info("Initializing Redis client...")
		redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		application.redisClient = redisClient
		snapshots = redisadapter.NewSnapshotStore(redisClient, cfg.Cart.StorageKey, cfg.Cart.TTL)
	case "mongo":
		appLogger.Info("Initializing MongoDB client...")
		mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
		}
		application.mongoClient = mongoClient
		snapshots = mongoadapter.NewSnapshotStore(mongoClient, cfg.MongoDB, cfg.Cart.StorageKey)
	case "memory", "":
		snapshots = memory.NewSnapshotStore()
	default:
		return nil, fmt.Errorf("unknown cart backend %q", cfg.Cart.Backend)
	}
	appLogger.Info("Cart snapshot store initialized")

	var publisher service.MutationPublisher
	if cfg.NATS.Enabled {
		appLogger.Info("Initializing NATS publisher...")
		natsPublisher, err := natsadapter.NewPublisher(cfg.NATS)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
		}
		application.publisher = natsPublisher
		publisher = natsPublisher
	}

	catalogClient, err := catalog.NewClient(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize catalog client: %w", err)
	}
	appLogger.Info("Catalog client initialized")

	cartService := service.NewCartService(ctx, snapshots, publisher, appLogger)
	appLogger.Info("Cart service initialized")

	handler := httpport.NewHandler(catalogClient, cartService, appLogger)
	router := httpport.NewRouter(handler, appLogger, cfg.HTTPServer.AllowOrigins)

	application.server = httpport.NewServer(
		appLogger,
		cfg.HTTPServer.Port,
		cfg.HTTPServer.ReadTimeout,
		cfg.HTTPServer.WriteTimeout,
		router,
	)
	appLogger.Info("HTTP server instance created")

	return application, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	}

	if a.publisher != nil {
		a.publisher.Close()
		a.log.Info("NATS publisher closed")
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}

	a.log.Info("Application shut down")
}
