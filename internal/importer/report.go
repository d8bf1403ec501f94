package importer

import (
	"time"
)

// Report is the outcome of one job run.
type Report struct {
	Started  time.Time
	Finished time.Time
	Err      error
	Job      string

	// Disabled is set when the job's source URL is not configured.
	Disabled bool

	// Source rows by extraction outcome.
	Extracted int
	Skipped   int
	Invalid   int

	// Rejected counts extracted rows that failed record validation.
	Rejected  int
	Persisted int

	// Natural keys changed by snapshot reconciles.
	Added   []string
	Deleted []string

	Geocoded      int
	Pending       int
	GeocodeFailed int
}

// Failed reports whether the job ended with an error.
func (r Report) Failed() bool {
	return r.Err != nil
}

// Fields renders the report for structured logging.
func (r Report) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"job":         r.Job,
		"extracted":   r.Extracted,
		"skipped":     r.Skipped,
		"invalid":     r.Invalid,
		"rejected":    r.Rejected,
		"persisted":   r.Persisted,
		"added":       len(r.Added),
		"deleted":     len(r.Deleted),
		"duration_ms": r.Finished.Sub(r.Started).Milliseconds(),
	}
	if r.Disabled {
		fields["disabled"] = true
	}
	if r.Geocoded+r.Pending+r.GeocodeFailed > 0 {
		fields["geocoded"] = r.Geocoded
		fields["pending"] = r.Pending
		fields["geocode_failed"] = r.GeocodeFailed
	}
	return fields
}
