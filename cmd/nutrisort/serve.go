package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/NutriSort/internal/api"
	"github.com/MikeSquared-Agency/NutriSort/internal/classifier"
	"github.com/MikeSquared-Agency/NutriSort/internal/config"
	"github.com/MikeSquared-Agency/NutriSort/internal/hermes"
	"github.com/MikeSquared-Agency/NutriSort/internal/metrics"
	"github.com/MikeSquared-Agency/NutriSort/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and metrics servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.Logging)
		slog.SetDefault(logger)
		return serve(cfg, logger)
	},
}

// openStore prefers the database, then the CSV population. It returns nil
// when neither is configured.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.Database.URL != "" {
		db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("connected to database", "dataset", cfg.Database.Dataset)
		return db, nil
	}
	if cfg.Population.CSVPath != "" {
		logger.Info("using csv population", "path", cfg.Population.CSVPath)
		return store.NewCSVStore(cfg.Population.CSVPath), nil
	}
	logger.Warn("no population store configured, using default profiles")
	return nil, nil
}

func serve(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store (optional)
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if st != nil {
		defer st.Close()
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	var checks []api.HealthCheck
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			checks = append(checks, api.HealthCheck{Name: "hermes", Up: hc.Connected})
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	m := metrics.New()
	svc, err := classifier.New(cfg, st, hermesClient, m, logger)
	if err != nil {
		return err
	}
	if st != nil {
		if _, err := svc.Reload(ctx, ""); err != nil {
			return fmt.Errorf("initial population load: %w", err)
		}
	}
	if err := svc.SetupSubscriptions(); err != nil {
		logger.Warn("failed to subscribe to reload requests", "error", err)
	}

	// API server
	router := api.NewRouter(svc, api.RouterConfig{
		AdminToken:         cfg.Server.AdminToken,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	}, m, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(m, checks...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- fmt.Errorf("API server: %w", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-sigCh:
	case runErr = <-errCh:
		logger.Error("server failed", "error", runErr)
	}

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
	return runErr
}
