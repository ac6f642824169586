package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/banking-account-core/internal/api"
	"github.com/banking-account-core/internal/api/service"
	"github.com/banking-account-core/internal/config"
	"github.com/banking-account-core/internal/domain/account"
	"github.com/banking-account-core/internal/engine"
	"github.com/banking-account-core/internal/logger"
	"github.com/banking-account-core/internal/persistence/csvstore"
	"github.com/banking-account-core/internal/persistence/mongoarchive"
	"github.com/banking-account-core/internal/persistence/postgres"
	"github.com/banking-account-core/internal/platform/messaging/producers"
	"github.com/banking-account-core/internal/platform/persistence"
	"github.com/banking-account-core/internal/registry"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("accountsvc")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Select the account store backend
	var (
		store      account.Store
		postgresDB *persistence.PostgresDB
	)
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		postgresDB, err = persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			os.Exit(1)
		}
		store = postgres.NewStore(log, postgresDB)
	default:
		store = csvstore.New(log, cfg.Store.CSVFile)
	}

	// Optional ledger archive
	var mongoDB *persistence.MongoDB
	registryOpts := []registry.Option{registry.WithSaveTimeout(cfg.Store.SaveTimeout)}
	if cfg.MongoDB.Enabled {
		mongoDB, err = persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
		if err != nil {
			log.Error("Failed to initialize MongoDB", "error", err)
			os.Exit(1)
		}
		archive := mongoarchive.New(log, mongoDB.Collection(cfg.MongoDB.Collection))
		registryOpts = append(registryOpts, registry.WithArchiver(archive))
	}

	// Optional account event producer
	var eventProducer producers.MessagePublisher
	if cfg.Kafka.Enabled {
		eventProducer, err = producers.NewAccountEventProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize Kafka producer", "error", err)
			os.Exit(1)
		}
	}

	// Initialize the account registry, loading persisted accounts
	reg := registry.New(appCtx, log, store, registryOpts...)

	// Start the interest/fee engine
	interestEngine, err := engine.New(log, reg, &cfg.Engine)
	if err != nil {
		log.Error("Failed to initialize interest engine", "error", err)
		os.Exit(1)
	}
	interestEngine.Start()

	// Initialize the service and REST server
	accountService := service.NewAccountService(log, reg, eventProducer)
	server := api.NewServer(log, cfg, accountService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Stop accepting requests, then the periodic engine
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}
	interestEngine.Stop()

	// Final checkpoint of the in-memory account state
	reg.Save(shutdownCtx)

	if eventProducer != nil {
		if err := eventProducer.Close(); err != nil {
			log.Error("Error closing Kafka producer", "error", err)
		}
	}
	if mongoDB != nil {
		if err := mongoDB.Close(shutdownCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}
	if postgresDB != nil {
		postgresDB.Close()
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
