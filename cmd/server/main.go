// Package main provides the API server entry point for the membership service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/membership-service/internal/api"
	"github.com/membership-service/internal/auth"
	"github.com/membership-service/internal/config"
	"github.com/membership-service/internal/logging"
	"github.com/membership-service/internal/service"
	"github.com/membership-service/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Initialize database connections
	logger.Info("Connecting to databases...")

	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	// The audit log is best-effort; the service runs without it.
	var eventLog *storage.EventLog
	clickhouse, err := storage.NewClickHouseDB(&cfg.Database.ClickHouse)
	if err != nil {
		logger.WithError(err).Warn("ClickHouse unavailable; audit events will not be recorded")
	} else {
		defer clickhouse.Close()
		eventLog = storage.NewEventLog(clickhouse)
	}

	logger.Info("Database connections established")

	// Repositories and caches
	profileRepo := storage.NewProfileRepository(postgres)
	nftRepo := storage.NewNFTRepository(postgres)
	catalogRepo := storage.NewCatalogRepository(postgres)
	walletCache := storage.NewWalletCache(redis, cfg.Wallet.CacheTTL)
	nonceStore := storage.NewNonceStore(redis, cfg.Wallet.NonceTTL)

	// External auth provider
	provider := auth.NewHostedProvider(cfg.Auth.ProviderURL, cfg.Auth.ServiceKey)
	tokenVerifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret)

	// Services
	var events service.EventSink
	var eventReader api.EventReaderInterface
	if eventLog != nil {
		events = eventLog
		eventReader = eventLog
	}

	profileService := service.NewProfileService(profileRepo, logger)
	nftService := service.NewNFTService(nftRepo, profileRepo, logger)
	walletService := service.NewWalletLinkService(
		profileRepo, profileService, nftService, nonceStore,
		provider, events, cfg.Wallet.ChallengeLabel, logger,
	)
	sessionManager := service.NewSessionManager(
		profileService, profileRepo, walletCache, provider, events, logger,
	)
	catalogService := service.NewCatalogService(catalogRepo, profileRepo)

	// Start the ordered auth event consumer
	eventCtx, stopEvents := context.WithCancel(context.Background())
	go sessionManager.Run(eventCtx)

	// API server
	server := api.NewServer(
		&api.ServerConfig{
			Host:              cfg.Server.Host,
			Port:              cfg.Server.Port,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   30 * time.Second,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		},
		profileService,
		walletService,
		nftService,
		sessionManager,
		catalogService,
		eventReader,
		tokenVerifier,
		cfg.Auth.WebhookSecret,
	)

	go func() {
		logger.WithFields(map[string]interface{}{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
		}).Info("Starting API server")
		if err := server.Start(); err != nil {
			logger.WithError(err).Info("API server stopped")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	if err := server.Shutdown(context.Background()); err != nil {
		logger.WithError(err).Error("Server shutdown error")
	}

	stopEvents()
	sessionManager.Wait()

	logger.Info("Shutdown complete")
}
