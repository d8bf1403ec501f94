package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/config"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/database"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/download"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/geocode"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/importer"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/metrics"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/services"
)

func main() {
	jobs := flag.StringP("job", "j", importer.JobAll, "comma separated import jobs")
	year := flag.IntP("year", "y", 0, "year attached to month/day dates, overrides IMPORT_YEAR")
	metricsAddr := flag.String("metrics-addr", "", "serve /metrics on this address while running")
	flag.Parse()

	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *year != 0 {
		cfg.Import.Year = *year
	}

	log := logger.New(cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, strings.Split(*jobs, ","), *metricsAddr, log)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run wires the importer and runs the jobs until ctx is done. Everything it
// opens is closed before it returns, so main can exit with the result.
func run(ctx context.Context, cfg *config.Config, names []string, metricsAddr string, log *logger.Logger) error {
	// Open the store and bring the schema up to date
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", err, map[string]interface{}{
			"driver": cfg.Database.Driver,
		})
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Error("Failed to migrate database", err, nil)
		return err
	}

	clock := clockwork.NewRealClock()
	m := metrics.NewMetrics()
	if metricsAddr != "" {
		serveMetrics(metricsAddr, log)
	}

	geocoder, err := newGeocoder(cfg.Geocoder, clock, m, log)
	if err != nil {
		log.Error("Failed to create geocoder", err, nil)
		return err
	}

	// Initialize repositories and the importer
	repos := importer.Repositories{
		Cases:         repository.NewCaseRepository(db),
		DailyCounts:   repository.NewDailyCountRepository(db),
		PressReleases: repository.NewPressReleaseRepository(db),
		Sites:         repository.NewMedicalInstitutionRepository(db),
		Reservations:  repository.NewReservationRepository(db),
		Outpatients:   repository.NewOutpatientRepository(db),
		Locations:     repository.NewLocationRepository(db),
	}
	stats := services.NewStatsService(repos.DailyCounts, repos.Cases, clock, services.Populations{
		Asahikawa: cfg.Import.Population,
		Sapporo:   cfg.Import.SapporoPopulation,
	}, log)

	imp := importer.New(
		download.New(cfg.Downloader.UserAgent, cfg.Downloader.Timeout, log),
		geocoder,
		repos,
		stats,
		cfg.Sources,
		cfg.Import.Year,
		clock,
		m,
		log,
	)

	if _, err := imp.Expand(names); err != nil {
		log.Error("Invalid job list", err, map[string]interface{}{"jobs": strings.Join(names, ",")})
		return err
	}

	// Run once, or on every interval until interrupted
	err = schedule(ctx, clock, cfg.Import.Interval, func(ctx context.Context) error {
		return runOnce(ctx, imp, names, log)
	})
	if cfg.Import.Interval > 0 {
		log.Info("Importer stopped", nil)
	}
	return err
}

// schedule calls once, then again every interval until ctx is done. It
// returns the error of the last completed call.
func schedule(ctx context.Context, clock clockwork.Clock, interval time.Duration, once func(context.Context) error) error {
	err := once(ctx)
	for interval > 0 {
		select {
		case <-ctx.Done():
			return err
		case <-clock.After(interval):
		}
		err = once(ctx)
	}
	return err
}

// runOnce runs the jobs and returns an error when any of them failed.
func runOnce(ctx context.Context, imp *importer.Importer, names []string, log *logger.Logger) error {
	reports, err := imp.Run(ctx, names...)
	if err != nil {
		log.Error("Import run rejected", err, nil)
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.Failed() {
			failed++
		}
	}
	log.Info("Import run finished", map[string]interface{}{
		"jobs":   len(reports),
		"failed": failed,
	})
	if failed > 0 {
		return fmt.Errorf("%d of %d import jobs failed", failed, len(reports))
	}
	return nil
}

// newGeocoder returns nil when no YOLP app id is configured; new locations
// are then left for the opendata-locations job and manual review.
func newGeocoder(cfg config.GeocoderConfig, clock clockwork.Clock, m *metrics.Metrics, log *logger.Logger) (geocode.Geocoder, error) {
	if cfg.AppID == "" {
		log.Warn("Geocoding disabled, YOLP_APP_ID is not set", nil)
		return nil, nil
	}
	yolp := geocode.NewYOLP(geocode.Options{
		AppID:    cfg.AppID,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
		Interval: cfg.Interval,
	}, clock, m, log)
	cached, err := geocode.NewCachedGeocoder(yolp, cfg.CacheSize, m)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

func serveMetrics(addr string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", err, map[string]interface{}{"addr": addr})
		}
	}()
}
