package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskhub/internal/auth"
	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/db/mongo"
	"taskhub/internal/db/sqlite"
	"taskhub/internal/logging"
	"taskhub/internal/server"
	"taskhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

var (
	_ service.Store = (*db.DB)(nil)
	_ service.Store = (*sqlite.Store)(nil)
	_ service.Store = (*mongo.Store)(nil)
)

func main() {
	configPath := pflag.String("config", "config.yaml", "path to the YAML config file")
	adminPhone := pflag.String("bootstrap-admin-phone", "", "create an admin with this phone if none exists")
	adminPassword := pflag.String("bootstrap-admin-password", "", "password for the bootstrap admin")
	adminName := pflag.String("bootstrap-admin-name", "Administrator", "display name for the bootstrap admin")
	pflag.Parse()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Infow("starting taskhub", "addr", cfg.Server.Addr, "driver", cfg.Database.Driver)

	store, err := openStore(cfg.Database)
	if err != nil {
		logger.Fatalw("failed to open store", "error", err)
	}
	defer store.Close()

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.TokenLifetime())
	directory := service.NewDirectory(store, auth.NewHasher(cfg.Auth.BcryptCost), tokens, logger)

	if *adminPhone != "" {
		created, err := directory.EnsureAdmin(context.Background(), *adminName, *adminPhone, *adminPassword)
		if err != nil {
			logger.Fatalw("failed to bootstrap admin", "error", err)
		}
		if created {
			logger.Infow("bootstrap admin created", "phone", *adminPhone)
		}
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	srv := server.New(cfg.Server, server.Deps{
		Directory:   directory,
		Tasks:       service.NewTasks(store, logger),
		Completions: service.NewCompletions(store, logger),
		Tokens:      tokens,
		Store:       store,
		Log:         logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		s := <-signals
		logger.Infow("received signal", "signal", s)
		cancel()
	}()

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("http server failed", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("error during shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("application shutdown complete")
}

func openStore(cfg config.Database) (service.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return db.New(cfg)
	case config.DriverSQLite:
		return sqlite.New(cfg.Path)
	case config.DriverMongo:
		return mongo.New(cfg.URI, cfg.DBName)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
