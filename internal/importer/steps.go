package importer

import (
	"bytes"
	"context"
	"fmt"

	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/extract"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/factory"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/pdftable"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
)

// maxLoggedRows bounds the per-row warnings logged for one extraction.
const maxLoggedRows = 5

// pdfRows reads the table rows of a downloaded PDF.
func pdfRows(source string, data []byte) ([][]string, error) {
	rows, err := pdftable.Rows(data)
	if err != nil {
		return nil, &apierrors.ExtractionError{Source: source, Reason: err.Error()}
	}
	return rows, nil
}

// fetch downloads url for a job.
func (i *Importer) fetch(ctx context.Context, url string) (*bytes.Reader, error) {
	body, err := i.download.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(body), nil
}

// recordExtraction adds the row outcomes of one extraction to the report.
func (i *Importer) recordExtraction(r *Report, results extract.Results) {
	ok, skipped, invalid := results.Counts()
	r.Extracted += ok
	r.Skipped += skipped
	r.Invalid += invalid

	i.metrics.RowsExtracted.WithLabelValues(r.Job, "ok").Add(float64(ok))
	i.metrics.RowsExtracted.WithLabelValues(r.Job, "skipped").Add(float64(skipped))
	i.metrics.RowsExtracted.WithLabelValues(r.Job, "invalid").Add(float64(invalid))

	for n, res := range results.Invalid() {
		if n == maxLoggedRows {
			break
		}
		i.log.Warn("Source row could not be extracted", map[string]interface{}{
			"job":    r.Job,
			"line":   res.Line,
			"reason": res.Reason,
		})
	}
}

// collect builds records from rows, recording rejected rows in the report.
func collect[T any](i *Importer, r *Report, rows []extract.Row, build func(extract.Row) (T, error)) []T {
	records, report := factory.ValidateAndCollect(rows, build)
	if !report.OK() {
		r.Rejected += len(report.Rejected)
		i.metrics.RecordsRejected.WithLabelValues(r.Job).Add(float64(len(report.Rejected)))
		fields := report.Fields()
		fields["job"] = r.Job
		i.log.Warn("Rows rejected by record validation", fields)
	}
	return records
}

func (i *Importer) persisted(r *Report, n int) {
	r.Persisted += n
	i.metrics.RecordsPersisted.WithLabelValues(r.Job).Add(float64(n))
}

func (i *Importer) reconciled(r *Report, n int, result repository.ReconcileResult) {
	i.persisted(r, n)
	r.Added = append(r.Added, result.Added...)
	r.Deleted = append(r.Deleted, result.Deleted...)
	i.metrics.ReconcileChanges.WithLabelValues(r.Job, "added").Add(float64(len(result.Added)))
	i.metrics.ReconcileChanges.WithLabelValues(r.Job, "deleted").Add(float64(len(result.Deleted)))
}

// geocodeNew geocodes the names that have no stored location yet. A name
// the geocoder fails on is logged and left for the next run.
func (i *Importer) geocodeNew(ctx context.Context, r *Report, names []string) error {
	if len(names) == 0 {
		return nil
	}
	if i.geocoder == nil {
		i.log.Warn("Geocoder not configured, new institutions have no location", map[string]interface{}{
			"job":   r.Job,
			"names": len(names),
		})
		return nil
	}

	known, err := i.repos.Locations.Names(ctx)
	if err != nil {
		return err
	}

	var locations []models.Location
	for _, name := range names {
		if known[name] {
			continue
		}
		known[name] = true

		loc, err := i.geocoder.Geocode(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.GeocodeFailed++
			i.log.Warn("Geocoding failed", map[string]interface{}{
				"job":   r.Job,
				"name":  name,
				"error": err.Error(),
			})
			continue
		}
		if loc.Status == models.LocationPendingReview {
			r.Pending++
		} else {
			r.Geocoded++
		}
		locations = append(locations, loc)
	}

	if len(locations) == 0 {
		return nil
	}
	if err := i.repos.Locations.Upsert(ctx, locations, i.now()); err != nil {
		return fmt.Errorf("failed to store geocoded locations: %w", err)
	}
	return nil
}

// keyPart returns part n of each natural key.
func keyPart(keys []string, n int) []string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		split := repository.SplitKey(key)
		if n < len(split) {
			parts = append(parts, split[n])
		}
	}
	return parts
}
