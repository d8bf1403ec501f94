package repository

import (
	"context"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/database"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

// DailyCountRepository defines data access for per-age daily counts and
// Sapporo's daily counts. Both are append-only and keyed by date.
type DailyCountRepository interface {
	Upsert(ctx context.Context, counts []models.DailyAgeBucketCount, updatedAt time.Time) error
	Delete(ctx context.Context, publicationDate time.Time) error
	// Find returns nil, nil if no count exists for the date.
	Find(ctx context.Context, publicationDate time.Time) (*models.DailyAgeBucketCount, error)
	// Range returns counts published in [from, to) in date order.
	Range(ctx context.Context, from, to time.Time) ([]models.DailyAgeBucketCount, error)
	LastUpdated(ctx context.Context) (*time.Time, error)

	UpsertSapporo(ctx context.Context, counts []models.SapporoDailyCount, updatedAt time.Time) error
	SapporoRange(ctx context.Context, from, to time.Time) ([]models.SapporoDailyCount, error)
}

type dailyCountRepository struct {
	counts  *store[models.DailyAgeBucketCount]
	sapporo *store[models.SapporoDailyCount]
}

// NewDailyCountRepository creates a new instance of DailyCountRepository.
func NewDailyCountRepository(db *database.Database) DailyCountRepository {
	return &dailyCountRepository{
		counts:  newStore(db, dailyCountSpec),
		sapporo: newStore(db, sapporoSpec),
	}
}

var dailyCountSpec = tableSpec[models.DailyAgeBucketCount]{
	table: database.TableDailyCounts,
	keys:  []string{models.FieldPublicationDate},
	columns: []string{
		models.FieldAgeUnder10, models.FieldAge10s, models.FieldAge20s, models.FieldAge30s,
		models.FieldAge40s, models.FieldAge50s, models.FieldAge60s, models.FieldAge70s,
		models.FieldAge80s, models.FieldAgeOver90, models.FieldInvestigating,
	},
	orderBy: "publication_date",
	values: func(d models.DailyAgeBucketCount) []any {
		return []any{
			d.PublicationDate,
			d.Under10, d.Age10s, d.Age20s, d.Age30s, d.Age40s,
			d.Age50s, d.Age60s, d.Age70s, d.Age80s, d.Over90, d.Investigating,
		}
	},
	key: func(d models.DailyAgeBucketCount) string {
		return d.PublicationDate.Format(time.DateOnly)
	},
	scan: func(row scanner) (models.DailyAgeBucketCount, error) {
		var d models.DailyAgeBucketCount
		err := row.Scan(
			&d.PublicationDate,
			&d.Under10, &d.Age10s, &d.Age20s, &d.Age30s, &d.Age40s,
			&d.Age50s, &d.Age60s, &d.Age70s, &d.Age80s, &d.Over90, &d.Investigating,
			&d.UpdatedAt,
		)
		d.PublicationDate = utcDate(d.PublicationDate)
		d.UpdatedAt = d.UpdatedAt.UTC()
		return d, err
	},
}

var sapporoSpec = tableSpec[models.SapporoDailyCount]{
	table:   database.TableSapporoDailyCounts,
	keys:    []string{models.FieldPublicationDate},
	columns: []string{models.FieldCount},
	orderBy: "publication_date",
	values: func(d models.SapporoDailyCount) []any {
		return []any{d.PublicationDate, d.Count}
	},
	key: func(d models.SapporoDailyCount) string {
		return d.PublicationDate.Format(time.DateOnly)
	},
	scan: func(row scanner) (models.SapporoDailyCount, error) {
		var d models.SapporoDailyCount
		err := row.Scan(&d.PublicationDate, &d.Count, &d.UpdatedAt)
		d.PublicationDate = utcDate(d.PublicationDate)
		d.UpdatedAt = d.UpdatedAt.UTC()
		return d, err
	},
}

func (r *dailyCountRepository) Upsert(ctx context.Context, counts []models.DailyAgeBucketCount, updatedAt time.Time) error {
	return r.counts.Upsert(ctx, counts, updatedAt)
}

func (r *dailyCountRepository) Delete(ctx context.Context, publicationDate time.Time) error {
	return r.counts.delete(ctx, utcDate(publicationDate))
}

func (r *dailyCountRepository) Find(ctx context.Context, publicationDate time.Time) (*models.DailyAgeBucketCount, error) {
	return r.counts.findOne(ctx, utcDate(publicationDate))
}

func (r *dailyCountRepository) Range(ctx context.Context, from, to time.Time) ([]models.DailyAgeBucketCount, error) {
	return r.counts.find(ctx, "publication_date >= ? AND publication_date < ?", from, to)
}

func (r *dailyCountRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	return r.counts.lastUpdated(ctx)
}

func (r *dailyCountRepository) UpsertSapporo(ctx context.Context, counts []models.SapporoDailyCount, updatedAt time.Time) error {
	return r.sapporo.Upsert(ctx, counts, updatedAt)
}

func (r *dailyCountRepository) SapporoRange(ctx context.Context, from, to time.Time) ([]models.SapporoDailyCount, error) {
	return r.sapporo.find(ctx, "publication_date >= ? AND publication_date < ?", from, to)
}
