package repository

import (
	"context"
	"strings"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/database"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

// OutpatientFilter narrows an outpatient listing. Unset flags do not filter.
type OutpatientFilter struct {
	Pediatrics bool
	NotFamily  bool
}

// OutpatientRepository defines data access for fever outpatient clinics.
type OutpatientRepository interface {
	// Reconcile replaces the stored list. Keys are institution names.
	Reconcile(ctx context.Context, outpatients []models.Outpatient, updatedAt time.Time) (ReconcileResult, error)

	// FindAll returns clinics that currently take outpatients, by name.
	FindAll(ctx context.Context, filter OutpatientFilter) ([]models.Outpatient, error)
	// Find returns nil, nil if the clinic is not listed.
	Find(ctx context.Context, name string) (*models.Outpatient, error)
	LastUpdated(ctx context.Context) (*time.Time, error)
}

type outpatientRepository struct {
	outpatients *store[models.Outpatient]
}

// NewOutpatientRepository creates a new instance of OutpatientRepository.
func NewOutpatientRepository(db *database.Database) OutpatientRepository {
	return &outpatientRepository{outpatients: newStore(db, outpatientSpec)}
}

var outpatientSpec = tableSpec[models.Outpatient]{
	table: database.TableOutpatients,
	keys:  []string{models.FieldInstitutionName},
	columns: []string{
		models.FieldPublicHealthCenter, models.FieldCity, models.FieldAddress, models.FieldPhone,
		models.FieldMon, models.FieldTue, models.FieldWed, models.FieldThu,
		models.FieldFri, models.FieldSat, models.FieldSun,
		models.FieldMemo,
		models.FieldIsOutpatient, models.FieldIsPositivePatients, models.FieldTargetNotFamily,
		models.FieldIsPediatrics,
		models.FieldFaceToFaceForPositive, models.FieldOnlineForPositive, models.FieldHomeVisitForPositive,
	},
	orderBy: "institution_name",
	values: func(o models.Outpatient) []any {
		return []any{
			o.InstitutionName,
			o.PublicHealthCenter, o.City, o.Address, o.Phone,
			o.Mon, o.Tue, o.Wed, o.Thu, o.Fri, o.Sat, o.Sun,
			o.Memo,
			o.IsOutpatient, o.IsPositivePatients, o.TargetNotFamily, o.IsPediatrics,
			o.FaceToFace, o.Online, o.HomeVisit,
		}
	},
	key: func(o models.Outpatient) string {
		return o.InstitutionName
	},
	scan: func(row scanner) (models.Outpatient, error) {
		var o models.Outpatient
		err := row.Scan(
			&o.InstitutionName,
			&o.PublicHealthCenter, &o.City, &o.Address, &o.Phone,
			&o.Mon, &o.Tue, &o.Wed, &o.Thu, &o.Fri, &o.Sat, &o.Sun,
			&o.Memo,
			&o.IsOutpatient, &o.IsPositivePatients, &o.TargetNotFamily, &o.IsPediatrics,
			&o.FaceToFace, &o.Online, &o.HomeVisit,
			&o.UpdatedAt,
		)
		o.UpdatedAt = o.UpdatedAt.UTC()
		return o, err
	},
}

func (r *outpatientRepository) Reconcile(ctx context.Context, outpatients []models.Outpatient, updatedAt time.Time) (ReconcileResult, error) {
	return r.outpatients.reconcile(ctx, "", outpatients, updatedAt)
}

func (r *outpatientRepository) FindAll(ctx context.Context, filter OutpatientFilter) ([]models.Outpatient, error) {
	conds := []string{"is_outpatient = ?"}
	args := []any{true}
	if filter.Pediatrics {
		conds = append(conds, "is_pediatrics = ?")
		args = append(args, true)
	}
	if filter.NotFamily {
		conds = append(conds, "target_not_family = ?")
		args = append(args, true)
	}
	return r.outpatients.find(ctx, strings.Join(conds, " AND "), args...)
}

func (r *outpatientRepository) Find(ctx context.Context, name string) (*models.Outpatient, error) {
	return r.outpatients.findOne(ctx, name)
}

func (r *outpatientRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	return r.outpatients.lastUpdated(ctx)
}
