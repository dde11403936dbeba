package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/petnic-studio-api/config"
	"github.com/kendall-kelly/petnic-studio-api/logging"
	"github.com/kendall-kelly/petnic-studio-api/metrics"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/routes"
	"github.com/kendall-kelly/petnic-studio-api/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Println("Starting Petnic Studio API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func run(cfg *config.Config) error {
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)
	gin.SetMode(ginMode(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return err
	}
	logger.Info("database migration completed")

	if cfg.SeedData {
		if err := services.Seed(logging.IntoContext(ctx, logger), db, services.SeedConfig{
			AdminUsername: cfg.AdminUsername,
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
		}); err != nil {
			return err
		}
	}

	storage, local, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}
	sessions, err := newSessionStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	events := newPublisher(cfg)
	defer events.Close()

	router, err := routes.Setup(routes.Dependencies{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Metrics:  metrics.New(),
		Sessions: sessions,
		Storage:  storage,
		Local:    local,
		Events:   events,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.GoEnv)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
