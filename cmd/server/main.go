package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/config"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/database"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/handlers"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/metrics"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/middleware"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Asahikawa COVID-19 API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Open the database and apply migrations
	ctx := context.Background()
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"driver": cfg.Database.Driver,
		})
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate database", err, nil)
	}
	log.Info("Database connection established", map[string]interface{}{
		"driver":   db.Dialect.String(),
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	clock := clockwork.NewRealClock()
	m := metrics.NewMetrics()

	// Initialize repository and service layers
	caseRepo := repository.NewCaseRepository(db)
	countRepo := repository.NewDailyCountRepository(db)
	siteRepo := repository.NewMedicalInstitutionRepository(db)
	outpatientRepo := repository.NewOutpatientRepository(db)

	// Initialize handlers
	locations := services.NewLocationService(repository.NewLocationRepository(db), log)
	api := &handlers.API{
		Health: handlers.NewHealthHandler(db, clock, cfg.Server.Env, db.Dialect.String()),
		Cases:  handlers.NewCaseHandler(services.NewCaseService(caseRepo, clock, cfg.Import.Population, log)),
		Stats: handlers.NewStatsHandler(services.NewStatsService(countRepo, caseRepo, clock, services.Populations{
			Asahikawa: cfg.Import.Population,
			Sapporo:   cfg.Import.SapporoPopulation,
		}, log)),
		PressReleases: handlers.NewPressReleaseHandler(services.NewPressReleaseService(repository.NewPressReleaseRepository(db), log)),
		Sites:         handlers.NewSiteHandler(services.NewSiteService(siteRepo, locations, log)),
		Reservations:  handlers.NewReservationHandler(services.NewReservationService(repository.NewReservationRepository(db), locations, log)),
		Outpatients:   handlers.NewOutpatientHandler(services.NewOutpatientService(outpatientRepo, locations, log)),
		Export:        handlers.NewExportHandler(services.NewExportService(caseRepo, countRepo, siteRepo, outpatientRepo, log)),
	}

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> Metrics -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register metrics, health and API v1 routes
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	api.Register(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
