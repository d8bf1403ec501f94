package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/database"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

// LocationRepository defines data access for institution coordinates.
type LocationRepository interface {
	Upsert(ctx context.Context, locations []models.Location, updatedAt time.Time) error
	// Find returns nil, nil if the name has no location yet.
	Find(ctx context.Context, name string) (*models.Location, error)
	FindAll(ctx context.Context) ([]models.Location, error)
	// Pending returns the locations still awaiting coordinates.
	Pending(ctx context.Context) ([]models.Location, error)
	// Names returns the set of names that already have a location row.
	Names(ctx context.Context) (map[string]bool, error)
}

type locationRepository struct {
	locations *store[models.Location]
}

// NewLocationRepository creates a new instance of LocationRepository.
func NewLocationRepository(db *database.Database) LocationRepository {
	return &locationRepository{locations: newStore(db, locationSpec)}
}

var locationSpec = tableSpec[models.Location]{
	table:   database.TableLocations,
	keys:    []string{models.FieldInstitutionName},
	columns: []string{models.FieldLatitude, models.FieldLongitude, models.FieldStatus},
	orderBy: "institution_name",
	values: func(l models.Location) []any {
		return []any{l.InstitutionName, nullFloat(l.Latitude), nullFloat(l.Longitude), l.Status}
	},
	key: func(l models.Location) string {
		return l.InstitutionName
	},
	scan: func(row scanner) (models.Location, error) {
		var (
			l        models.Location
			lat, lng sql.NullFloat64
		)
		err := row.Scan(&l.InstitutionName, &lat, &lng, &l.Status, &l.UpdatedAt)
		l.Latitude = floatPtr(lat)
		l.Longitude = floatPtr(lng)
		l.UpdatedAt = l.UpdatedAt.UTC()
		return l, err
	},
}

func (r *locationRepository) Upsert(ctx context.Context, locations []models.Location, updatedAt time.Time) error {
	return r.locations.Upsert(ctx, locations, updatedAt)
}

func (r *locationRepository) Find(ctx context.Context, name string) (*models.Location, error) {
	return r.locations.findOne(ctx, name)
}

func (r *locationRepository) FindAll(ctx context.Context) ([]models.Location, error) {
	return r.locations.find(ctx, "")
}

func (r *locationRepository) Pending(ctx context.Context) ([]models.Location, error) {
	return r.locations.find(ctx, "status = ?", string(models.LocationPendingReview))
}

func (r *locationRepository) Names(ctx context.Context) (map[string]bool, error) {
	all, err := r.locations.find(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(all))
	for _, l := range all {
		names[l.InstitutionName] = true
	}
	return names, nil
}
