package repository

import (
	"context"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/database"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

// MedicalInstitutionRepository defines data access for vaccination sites.
// The table is a snapshot of the city's current list.
type MedicalInstitutionRepository interface {
	// Reconcile replaces the stored list with sites. Added and deleted keys
	// are JoinKey(name, target age group).
	Reconcile(ctx context.Context, sites []models.MedicalInstitution, updatedAt time.Time) (ReconcileResult, error)

	// FindAll returns every site ordered by area then name.
	FindAll(ctx context.Context) ([]models.MedicalInstitution, error)
	FindByArea(ctx context.Context, area string) ([]models.MedicalInstitution, error)
	FindByTargetAge(ctx context.Context, targetAgeGroup string) ([]models.MedicalInstitution, error)
	// Find returns nil, nil if the site is not listed.
	Find(ctx context.Context, name, targetAgeGroup string) (*models.MedicalInstitution, error)
	LastUpdated(ctx context.Context) (*time.Time, error)
}

type medicalInstitutionRepository struct {
	sites *store[models.MedicalInstitution]
}

// NewMedicalInstitutionRepository creates a new instance of MedicalInstitutionRepository.
func NewMedicalInstitutionRepository(db *database.Database) MedicalInstitutionRepository {
	return &medicalInstitutionRepository{sites: newStore(db, medicalInstitutionSpec)}
}

var medicalInstitutionSpec = tableSpec[models.MedicalInstitution]{
	table: database.TableMedicalInstitutions,
	keys:  []string{models.FieldName, models.FieldTargetAgeGroup},
	columns: []string{
		models.FieldAddress,
		models.FieldPhone,
		models.FieldArea,
		models.FieldMemo,
		models.FieldBookableAtSite,
		models.FieldBookableViaCallCenter,
	},
	orderBy: "area, name, target_age_group",
	values: func(m models.MedicalInstitution) []any {
		return []any{
			m.Name, m.TargetAgeGroup,
			m.Address, m.Phone, m.Area, m.Memo, m.BookableAtSite, m.BookableViaCallCenter,
		}
	},
	key: func(m models.MedicalInstitution) string {
		return JoinKey(m.Name, m.TargetAgeGroup)
	},
	scan: func(row scanner) (models.MedicalInstitution, error) {
		var m models.MedicalInstitution
		err := row.Scan(
			&m.Name, &m.TargetAgeGroup,
			&m.Address, &m.Phone, &m.Area, &m.Memo, &m.BookableAtSite, &m.BookableViaCallCenter,
			&m.UpdatedAt,
		)
		m.UpdatedAt = m.UpdatedAt.UTC()
		return m, err
	},
}

func (r *medicalInstitutionRepository) Reconcile(ctx context.Context, sites []models.MedicalInstitution, updatedAt time.Time) (ReconcileResult, error) {
	return r.sites.reconcile(ctx, "", sites, updatedAt)
}

func (r *medicalInstitutionRepository) FindAll(ctx context.Context) ([]models.MedicalInstitution, error) {
	return r.sites.find(ctx, "")
}

func (r *medicalInstitutionRepository) FindByArea(ctx context.Context, area string) ([]models.MedicalInstitution, error) {
	return r.sites.find(ctx, "area = ?", area)
}

func (r *medicalInstitutionRepository) FindByTargetAge(ctx context.Context, targetAgeGroup string) ([]models.MedicalInstitution, error) {
	return r.sites.find(ctx, "target_age_group = ?", targetAgeGroup)
}

func (r *medicalInstitutionRepository) Find(ctx context.Context, name, targetAgeGroup string) (*models.MedicalInstitution, error) {
	return r.sites.findOne(ctx, name, targetAgeGroup)
}

func (r *medicalInstitutionRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	return r.sites.lastUpdated(ctx)
}
