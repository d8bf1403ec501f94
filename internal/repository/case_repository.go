package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/database"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

// CaseRepository defines data access for city and prefecture case records.
// Both kinds are append-only: batches are upserted and rows are only removed
// by an explicit delete.
type CaseRepository interface {
	UpsertCityCases(ctx context.Context, cases []models.CaseRecord, updatedAt time.Time) error
	UpsertPrefectureCases(ctx context.Context, cases []models.CaseRecord, updatedAt time.Time) error
	DeleteCityCase(ctx context.Context, caseNumber int) error

	// FindCityCase returns nil, nil if the case does not exist. Fields the
	// city does not publish are filled from the matching prefecture case.
	FindCityCase(ctx context.Context, caseNumber int) (*models.CaseRecord, error)

	// ListCityCases returns city cases newest first. A limit <= 0 returns all.
	ListCityCases(ctx context.Context, limit, offset int) ([]models.CaseRecord, error)
	CountCityCases(ctx context.Context) (int, error)

	// PublicationDates returns the publication date of every city case
	// published in [from, to), one entry per case.
	PublicationDates(ctx context.Context, from, to time.Time) ([]time.Time, error)

	// FindPublishedBetween returns city cases published in [from, to) without
	// the prefecture join, oldest first.
	FindPublishedBetween(ctx context.Context, from, to time.Time) ([]models.CaseRecord, error)

	// CountByAgeBracket counts city cases per age bracket. Cases without a
	// published bracket are counted under "".
	CountByAgeBracket(ctx context.Context) (map[string]int, error)

	LastUpdated(ctx context.Context) (*time.Time, error)
}

type caseRepository struct {
	db         *database.Database
	city       *store[models.CaseRecord]
	prefecture *store[models.CaseRecord]
}

// NewCaseRepository creates a new instance of CaseRepository.
func NewCaseRepository(db *database.Database) CaseRepository {
	return &caseRepository{
		db:         db,
		city:       newStore(db, cityCaseSpec),
		prefecture: newStore(db, prefectureCaseSpec),
	}
}

var baseCaseColumns = []string{
	models.FieldRegionCode,
	models.FieldPrefecture,
	models.FieldCity,
	models.FieldPublicationDate,
	models.FieldOnsetDate,
	models.FieldResidence,
	models.FieldAgeBracket,
	models.FieldSex,
	models.FieldOccupation,
	models.FieldClinicalStatus,
	models.FieldSymptoms,
	models.FieldHadOverseasTravel,
	models.FieldWasDischarged,
	models.FieldNote,
}

func baseCaseValues(c models.CaseRecord) []any {
	return []any{
		c.CaseNumber,
		c.RegionCode,
		c.Prefecture,
		c.City,
		nullTime(c.PublicationDate),
		nullTime(c.OnsetDate),
		c.Residence,
		c.AgeBracket,
		c.Sex,
		c.Occupation,
		c.ClinicalStatus,
		c.Symptoms,
		nullBool(c.HadOverseasTravel),
		nullBool(c.WasDischarged),
		c.Note,
	}
}

func caseKey(c models.CaseRecord) string {
	return strconv.Itoa(c.CaseNumber)
}

// caseScan holds the nullable columns shared by both case tables.
type caseScan struct {
	published, onset   sql.NullTime
	travel, discharged sql.NullBool
}

func (cs *caseScan) dest(c *models.CaseRecord) []any {
	return []any{
		&c.CaseNumber,
		&c.RegionCode,
		&c.Prefecture,
		&c.City,
		&cs.published,
		&cs.onset,
		&c.Residence,
		&c.AgeBracket,
		&c.Sex,
		&c.Occupation,
		&c.ClinicalStatus,
		&c.Symptoms,
		&cs.travel,
		&cs.discharged,
		&c.Note,
	}
}

func (cs *caseScan) apply(c *models.CaseRecord) {
	c.PublicationDate = timePtr(cs.published)
	c.OnsetDate = timePtr(cs.onset)
	c.HadOverseasTravel = boolPtr(cs.travel)
	c.WasDischarged = boolPtr(cs.discharged)
	c.UpdatedAt = c.UpdatedAt.UTC()
}

var cityCaseSpec = tableSpec[models.CaseRecord]{
	table: database.TableCityCases,
	keys:  []string{models.FieldCaseNumber},
	columns: append(append([]string{}, baseCaseColumns...),
		models.FieldSourceRegionCaseNumber,
		models.FieldSurroundingCases,
		models.FieldCloseContacts,
	),
	orderBy: "case_number DESC",
	values: func(c models.CaseRecord) []any {
		detail := models.CityDetail{}
		if c.CityDetail != nil {
			detail = *c.CityDetail
		}
		return append(baseCaseValues(c), detail.SourceRegionCaseNumber, detail.SurroundingCases, detail.CloseContacts)
	},
	key:  caseKey,
	scan: scanCityCase,
}

func scanCityCase(row scanner) (models.CaseRecord, error) {
	var c models.CaseRecord
	var cs caseScan
	detail := &models.CityDetail{}
	dest := append(cs.dest(&c), &detail.SourceRegionCaseNumber, &detail.SurroundingCases, &detail.CloseContacts, &c.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return models.CaseRecord{}, err
	}
	cs.apply(&c)
	c.CityDetail = detail
	return c, nil
}

var prefectureCaseSpec = tableSpec[models.CaseRecord]{
	table:   database.TablePrefectureCases,
	keys:    []string{models.FieldCaseNumber},
	columns: baseCaseColumns,
	orderBy: "case_number DESC",
	values:  baseCaseValues,
	key:     caseKey,
	scan: func(row scanner) (models.CaseRecord, error) {
		var c models.CaseRecord
		var cs caseScan
		if err := row.Scan(append(cs.dest(&c), &c.UpdatedAt)...); err != nil {
			return models.CaseRecord{}, err
		}
		cs.apply(&c)
		return c, nil
	},
}

// cityCaseJoinSQL reads city cases with the prefecture columns the city does
// not publish. Date columns are selected bare so every driver scans them as
// dates.
const cityCaseJoinSQL = `
	SELECT
		c.case_number, c.region_code, c.prefecture, c.city,
		c.publication_date, c.onset_date, c.residence, c.age_bracket, c.sex,
		c.occupation, c.clinical_status, c.symptoms,
		c.had_overseas_travel, c.was_discharged, c.note,
		c.source_region_case_number, c.surrounding_cases, c.close_contacts,
		c.updated_at,
		p.onset_date, p.occupation, p.clinical_status, p.symptoms,
		p.had_overseas_travel, p.was_discharged
	FROM city_cases c
	LEFT JOIN prefecture_cases p ON p.case_number = c.source_region_case_number`

func scanJoinedCityCase(row scanner) (models.CaseRecord, error) {
	var c models.CaseRecord
	var cs caseScan
	detail := &models.CityDetail{}
	var (
		pOnset                          sql.NullTime
		pOccupation, pStatus, pSymptoms sql.NullString
		pTravel, pDischarged            sql.NullBool
	)
	dest := append(cs.dest(&c),
		&detail.SourceRegionCaseNumber, &detail.SurroundingCases, &detail.CloseContacts, &c.UpdatedAt,
		&pOnset, &pOccupation, &pStatus, &pSymptoms, &pTravel, &pDischarged,
	)
	if err := row.Scan(dest...); err != nil {
		return models.CaseRecord{}, err
	}
	cs.apply(&c)
	c.CityDetail = detail

	if c.OnsetDate == nil {
		c.OnsetDate = timePtr(pOnset)
	}
	if c.Occupation == "" {
		c.Occupation = pOccupation.String
	}
	if c.ClinicalStatus == "" {
		c.ClinicalStatus = pStatus.String
	}
	if c.Symptoms == "" {
		c.Symptoms = pSymptoms.String
	}
	if c.HadOverseasTravel == nil {
		c.HadOverseasTravel = boolPtr(pTravel)
	}
	if c.WasDischarged == nil {
		c.WasDischarged = boolPtr(pDischarged)
	}
	return c, nil
}

// UpsertCityCases writes city cases in one transaction.
func (r *caseRepository) UpsertCityCases(ctx context.Context, cases []models.CaseRecord, updatedAt time.Time) error {
	return r.city.Upsert(ctx, cases, updatedAt)
}

// UpsertPrefectureCases writes prefecture cases in one transaction.
func (r *caseRepository) UpsertPrefectureCases(ctx context.Context, cases []models.CaseRecord, updatedAt time.Time) error {
	return r.prefecture.Upsert(ctx, cases, updatedAt)
}

func (r *caseRepository) DeleteCityCase(ctx context.Context, caseNumber int) error {
	return r.city.delete(ctx, caseNumber)
}

func (r *caseRepository) FindCityCase(ctx context.Context, caseNumber int) (*models.CaseRecord, error) {
	query := r.db.Rebind(cityCaseJoinSQL + " WHERE c.case_number = ?")
	c, err := scanJoinedCityCase(r.db.DB.QueryRowContext(ctx, query, caseNumber))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.city.fail("find", err)
	}
	return &c, nil
}

func (r *caseRepository) ListCityCases(ctx context.Context, limit, offset int) ([]models.CaseRecord, error) {
	query := cityCaseJoinSQL + " ORDER BY c.case_number DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, r.city.fail("list", err)
	}
	defer rows.Close()

	cases := []models.CaseRecord{}
	for rows.Next() {
		c, err := scanJoinedCityCase(rows)
		if err != nil {
			return nil, r.city.fail("list", fmt.Errorf("failed to scan case row: %w", err))
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.city.fail("list", err)
	}
	return cases, nil
}

func (r *caseRepository) CountCityCases(ctx context.Context) (int, error) {
	return r.city.count(ctx)
}

func (r *caseRepository) PublicationDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	query := r.db.Rebind(`SELECT publication_date FROM city_cases
		WHERE publication_date >= ? AND publication_date < ?
		ORDER BY publication_date`)
	rows, err := r.db.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, r.city.fail("aggregate", err)
	}
	defer rows.Close()

	dates := []time.Time{}
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, r.city.fail("aggregate", fmt.Errorf("failed to scan date: %w", err))
		}
		dates = append(dates, utcDate(d))
	}
	if err := rows.Err(); err != nil {
		return nil, r.city.fail("aggregate", err)
	}
	return dates, nil
}

func (r *caseRepository) FindPublishedBetween(ctx context.Context, from, to time.Time) ([]models.CaseRecord, error) {
	cases, err := r.city.find(ctx, "publication_date >= ? AND publication_date < ?", from, to)
	if err != nil {
		return nil, err
	}
	// find orders newest first
	for i, j := 0, len(cases)-1; i < j; i, j = i+1, j-1 {
		cases[i], cases[j] = cases[j], cases[i]
	}
	return cases, nil
}

func (r *caseRepository) CountByAgeBracket(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.DB.QueryContext(ctx, `SELECT age_bracket, COUNT(*) FROM city_cases GROUP BY age_bracket`)
	if err != nil {
		return nil, r.city.fail("count by age", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var bracket string
		var n int
		if err := rows.Scan(&bracket, &n); err != nil {
			return nil, r.city.fail("count by age", fmt.Errorf("failed to scan count: %w", err))
		}
		counts[bracket] = n
	}
	if err := rows.Err(); err != nil {
		return nil, r.city.fail("count by age", err)
	}
	return counts, nil
}

func (r *caseRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	return r.city.lastUpdated(ctx)
}
