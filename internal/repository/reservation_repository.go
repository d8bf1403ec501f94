package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/database"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

// ReservationRepository defines data access for reservation statuses. Each
// campaign is its own snapshot.
type ReservationRepository interface {
	// Reconcile replaces the stored statuses of campaign. Every status must
	// belong to campaign. Keys are JoinKey(campaign, institution, vaccine).
	Reconcile(ctx context.Context, campaign string, statuses []models.ReservationStatus, updatedAt time.Time) (ReconcileResult, error)

	// FindByCampaign returns the statuses of campaign, optionally limited to
	// one area, ordered by area, institution and vaccine.
	FindByCampaign(ctx context.Context, campaign, area string) ([]models.ReservationStatus, error)
	LastUpdated(ctx context.Context) (*time.Time, error)
}

type reservationRepository struct {
	statuses *store[models.ReservationStatus]
}

// NewReservationRepository creates a new instance of ReservationRepository.
func NewReservationRepository(db *database.Database) ReservationRepository {
	return &reservationRepository{statuses: newStore(db, reservationSpec)}
}

var reservationSpec = tableSpec[models.ReservationStatus]{
	table: database.TableReservationStatuses,
	keys:  []string{models.FieldCampaign, models.FieldInstitutionName, models.FieldVaccineType},
	columns: []string{
		models.FieldArea,
		models.FieldAddress,
		models.FieldPhone,
		models.FieldStatusText,
		models.FieldTargetAge,
		models.FieldInoculationTime,
		models.FieldTargetFamilyOnly,
		models.FieldTargetNotFamily,
		models.FieldTargetSuburbs,
		models.FieldTargetOther,
		models.FieldMemo,
	},
	scope:   models.FieldCampaign,
	orderBy: "area, institution_name, vaccine_type",
	values: func(s models.ReservationStatus) []any {
		return []any{
			s.Campaign, s.InstitutionName, s.VaccineType,
			s.Area, s.Address, s.Phone, s.StatusText, s.TargetAge, s.InoculationTime,
			nullBool(s.TargetFamilyOnly), nullBool(s.TargetNotFamily), nullBool(s.TargetSuburbs),
			s.TargetOther, s.Memo,
		}
	},
	key: func(s models.ReservationStatus) string {
		return JoinKey(s.Campaign, s.InstitutionName, s.VaccineType)
	},
	scan: func(row scanner) (models.ReservationStatus, error) {
		var (
			s                             models.ReservationStatus
			familyOnly, notFamily, suburb sql.NullBool
		)
		err := row.Scan(
			&s.Campaign, &s.InstitutionName, &s.VaccineType,
			&s.Area, &s.Address, &s.Phone, &s.StatusText, &s.TargetAge, &s.InoculationTime,
			&familyOnly, &notFamily, &suburb,
			&s.TargetOther, &s.Memo,
			&s.UpdatedAt,
		)
		s.TargetFamilyOnly = boolPtr(familyOnly)
		s.TargetNotFamily = boolPtr(notFamily)
		s.TargetSuburbs = boolPtr(suburb)
		s.UpdatedAt = s.UpdatedAt.UTC()
		return s, err
	},
}

func (r *reservationRepository) Reconcile(ctx context.Context, campaign string, statuses []models.ReservationStatus, updatedAt time.Time) (ReconcileResult, error) {
	for i, s := range statuses {
		if s.Campaign != campaign {
			return ReconcileResult{}, r.statuses.fail("reconcile",
				fmt.Errorf("row %d belongs to campaign %q, not %q", i, s.Campaign, campaign))
		}
	}
	return r.statuses.reconcile(ctx, campaign, statuses, updatedAt)
}

func (r *reservationRepository) FindByCampaign(ctx context.Context, campaign, area string) ([]models.ReservationStatus, error) {
	if area == "" {
		return r.statuses.find(ctx, "campaign = ?", campaign)
	}
	return r.statuses.find(ctx, "campaign = ? AND area = ?", campaign, area)
}

func (r *reservationRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	return r.statuses.lastUpdated(ctx)
}
