package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kerhoff/RecipeBox/internal/api"
	"github.com/Kerhoff/RecipeBox/internal/config"
	"github.com/Kerhoff/RecipeBox/internal/dispatch"
	"github.com/Kerhoff/RecipeBox/internal/repository/sqlstore"
	"github.com/Kerhoff/RecipeBox/internal/service"
	"github.com/Kerhoff/RecipeBox/internal/session"
	"github.com/Kerhoff/RecipeBox/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, nil)
	l.Info("Starting RecipeBox...")

	// Database
	db, err := config.NewDatabase(cfg, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := sqlstore.NewUserRepository(db.DB)
	ingredientRepo := sqlstore.NewIngredientRepository(db.DB)
	recipeRepo := sqlstore.NewRecipeRepository(db.DB)
	shoppingRepo := sqlstore.NewShoppingListRepository(db.DB)
	maintenanceRepo := sqlstore.NewMaintenanceRepository(db.DB)

	// Service layer
	svc := service.New(db.DB, l, session.NewHolder(),
		userRepo, ingredientRepo, recipeRepo, shoppingRepo, maintenanceRepo,
	)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	dispatcher := dispatch.New(svc, l, cfg.IsDev(), registry)
	if cfg.IsDev() {
		l.Warn("Development mode: dev tools are enabled")
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiServer := api.NewServer(dispatcher, l)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("HTTP server error: %v", err)
			stop()
		}
	}()

	var metricsServer *http.Server
	if cfg.MetricsEnabled() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{
			Addr:              "127.0.0.1:" + cfg.PrometheusPort,
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			l.Infof("Metrics server listening on %s", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Errorf("Metrics server error: %v", err)
			}
		}()
	}

	l.Infof("RecipeBox started successfully (%d operations)", len(dispatcher.Operations()))

	<-ctx.Done()
	l.Info("Received shutdown signal...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l.Info("Shutting down HTTP servers...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("HTTP server shutdown: %v", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			l.Errorf("Metrics server shutdown: %v", err)
		}
	}

	l.Info("RecipeBox stopped")
}
