// Package importer runs the import jobs: download a source, extract rows,
// build validated records and persist them.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/config"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/download"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/geocode"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/metrics"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/services"
)

// Job names accepted by Run.
const (
	JobPressReleases     = "press-releases"
	JobCases             = "cases"
	JobPressReleaseCases = "press-release-cases"
	JobPrefectureCases   = "prefecture-cases"
	JobDailyCounts       = "daily-counts"
	JobDerivedCounts     = "derived-counts"
	JobSapporo           = "sapporo"
	JobSites             = "sites"
	JobReservations      = "reservations"
	JobOutpatients       = "outpatients"
	JobOpendataLocations = "opendata-locations"
	JobCorrections       = "corrections"
	JobAll               = "all"
)

// allJobs is the order JobAll runs in. Press release links are stored
// before the jobs that read the latest one, and corrections run last.
// JobDerivedCounts is a one-off backfill and only runs when named.
var allJobs = []string{
	JobPressReleases,
	JobCases,
	JobPrefectureCases,
	JobPressReleaseCases,
	JobDailyCounts,
	JobSapporo,
	JobOpendataLocations,
	JobSites,
	JobReservations,
	JobOutpatients,
	JobCorrections,
}

var ErrUnknownJob = errors.New("unknown import job")

var jst = time.FixedZone("JST", 9*60*60)

// Repositories groups the stores the jobs write to.
type Repositories struct {
	Cases         repository.CaseRepository
	DailyCounts   repository.DailyCountRepository
	PressReleases repository.PressReleaseRepository
	Sites         repository.MedicalInstitutionRepository
	Reservations  repository.ReservationRepository
	Outpatients   repository.OutpatientRepository
	Locations     repository.LocationRepository
}

// Importer runs import jobs against the configured sources.
type Importer struct {
	download download.Downloader
	geocoder geocode.Geocoder
	repos    Repositories
	stats    services.StatsService
	sources  config.SourcesConfig
	year     int
	clock    clockwork.Clock
	metrics  *metrics.Metrics
	log      *logger.Logger

	jobs map[string]func(context.Context, *Report) error
}

// New creates an Importer. geocoder may be nil, in which case newly
// listed institutions are not geocoded. year is attached to dates that
// carry only month and day; zero means the current year in JST.
func New(
	downloader download.Downloader,
	geocoder geocode.Geocoder,
	repos Repositories,
	stats services.StatsService,
	sources config.SourcesConfig,
	year int,
	clock clockwork.Clock,
	m *metrics.Metrics,
	log *logger.Logger,
) *Importer {
	i := &Importer{
		download: downloader,
		geocoder: geocoder,
		repos:    repos,
		stats:    stats,
		sources:  sources,
		year:     year,
		clock:    clock,
		metrics:  m,
		log:      log,
	}
	i.jobs = map[string]func(context.Context, *Report) error{
		JobPressReleases:     i.importPressReleases,
		JobCases:             i.importCases,
		JobPressReleaseCases: i.importPressReleaseCases,
		JobPrefectureCases:   i.importPrefectureCases,
		JobDailyCounts:       i.importDailyCounts,
		JobDerivedCounts:     i.importDerivedCounts,
		JobSapporo:           i.importSapporo,
		JobSites:             i.importSites,
		JobReservations:      i.importReservations,
		JobOutpatients:       i.importOutpatients,
		JobOpendataLocations: i.importOpendataLocations,
		JobCorrections:       i.applyCorrections,
	}
	return i
}

// Expand resolves JobAll and checks every name.
func (i *Importer) Expand(names []string) ([]string, error) {
	var jobs []string
	for _, name := range names {
		if name == JobAll {
			jobs = append(jobs, allJobs...)
			continue
		}
		if _, ok := i.jobs[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownJob, name)
		}
		jobs = append(jobs, name)
	}
	return jobs, nil
}

// Run runs the named jobs in order. A failing job is recorded in its report
// and does not stop the jobs after it; the only error returned is for an
// unknown job name, before anything runs.
func (i *Importer) Run(ctx context.Context, names ...string) ([]Report, error) {
	jobs, err := i.Expand(names)
	if err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			reports = append(reports, Report{Job: job, Err: err})
			continue
		}
		reports = append(reports, i.runJob(ctx, job))
	}
	return reports, nil
}

func (i *Importer) runJob(ctx context.Context, job string) Report {
	report := Report{Job: job, Started: i.clock.Now()}
	log := i.log.With(map[string]interface{}{"job": job})
	log.Info("Import job started", nil)

	report.Err = i.jobs[job](ctx, &report)
	report.Finished = i.clock.Now()

	i.metrics.ImportDuration.WithLabelValues(job).Observe(report.Finished.Sub(report.Started).Seconds())
	if report.Err != nil {
		i.metrics.ImportRuns.WithLabelValues(job, "failure").Inc()
		log.Error("Import job failed", report.Err, report.Fields())
		return report
	}
	i.metrics.ImportRuns.WithLabelValues(job, "success").Inc()
	i.metrics.LastSuccess.WithLabelValues(job).Set(float64(report.Finished.Unix()))
	log.Info("Import job finished", report.Fields())
	return report
}

// now is the updated_at stamp for records written by a job.
func (i *Importer) now() time.Time {
	return i.clock.Now().UTC()
}

func (i *Importer) targetYear() int {
	if i.year != 0 {
		return i.year
	}
	return i.clock.Now().In(jst).Year()
}
