package database

import (
	"context"
	"fmt"
)

// Table names.
const (
	TableCityCases           = "city_cases"
	TablePrefectureCases     = "prefecture_cases"
	TableDailyCounts         = "daily_counts"
	TableSapporoDailyCounts  = "sapporo_daily_counts"
	TablePressReleaseLinks   = "press_release_links"
	TableMedicalInstitutions = "medical_institutions"
	TableReservationStatuses = "reservation_statuses"
	TableOutpatients         = "outpatients"
	TableLocations           = "locations"
)

// schema is written in the subset of SQL both engines accept. DATE and
// TIMESTAMP are spelled exactly so the sqlite driver scans them as time.Time.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS city_cases (
		case_number INTEGER NOT NULL PRIMARY KEY,
		region_code TEXT NOT NULL DEFAULT '',
		prefecture TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		publication_date DATE,
		onset_date DATE,
		residence TEXT NOT NULL DEFAULT '',
		age_bracket TEXT NOT NULL DEFAULT '',
		sex TEXT NOT NULL DEFAULT '',
		occupation TEXT NOT NULL DEFAULT '',
		clinical_status TEXT NOT NULL DEFAULT '',
		symptoms TEXT NOT NULL DEFAULT '',
		had_overseas_travel BOOLEAN,
		was_discharged BOOLEAN,
		note TEXT NOT NULL DEFAULT '',
		source_region_case_number INTEGER NOT NULL DEFAULT 0,
		surrounding_cases TEXT NOT NULL DEFAULT '',
		close_contacts TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_city_cases_publication_date ON city_cases (publication_date)`,
	`CREATE INDEX IF NOT EXISTS idx_city_cases_source_region ON city_cases (source_region_case_number)`,
	`CREATE TABLE IF NOT EXISTS prefecture_cases (
		case_number INTEGER NOT NULL PRIMARY KEY,
		region_code TEXT NOT NULL DEFAULT '',
		prefecture TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		publication_date DATE,
		onset_date DATE,
		residence TEXT NOT NULL DEFAULT '',
		age_bracket TEXT NOT NULL DEFAULT '',
		sex TEXT NOT NULL DEFAULT '',
		occupation TEXT NOT NULL DEFAULT '',
		clinical_status TEXT NOT NULL DEFAULT '',
		symptoms TEXT NOT NULL DEFAULT '',
		had_overseas_travel BOOLEAN,
		was_discharged BOOLEAN,
		note TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS daily_counts (
		publication_date DATE NOT NULL PRIMARY KEY,
		age_under_10 INTEGER NOT NULL DEFAULT 0,
		age_10s INTEGER NOT NULL DEFAULT 0,
		age_20s INTEGER NOT NULL DEFAULT 0,
		age_30s INTEGER NOT NULL DEFAULT 0,
		age_40s INTEGER NOT NULL DEFAULT 0,
		age_50s INTEGER NOT NULL DEFAULT 0,
		age_60s INTEGER NOT NULL DEFAULT 0,
		age_70s INTEGER NOT NULL DEFAULT 0,
		age_80s INTEGER NOT NULL DEFAULT 0,
		age_over_90 INTEGER NOT NULL DEFAULT 0,
		investigating INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sapporo_daily_counts (
		publication_date DATE NOT NULL PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS press_release_links (
		publication_date DATE NOT NULL PRIMARY KEY,
		document_url TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS medical_institutions (
		name TEXT NOT NULL,
		target_age_group TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		area TEXT NOT NULL DEFAULT '',
		memo TEXT NOT NULL DEFAULT '',
		bookable_at_site BOOLEAN NOT NULL DEFAULT FALSE,
		bookable_via_call_center BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (name, target_age_group)
	)`,
	`CREATE TABLE IF NOT EXISTS reservation_statuses (
		campaign TEXT NOT NULL,
		institution_name TEXT NOT NULL,
		vaccine_type TEXT NOT NULL DEFAULT '',
		area TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		status_text TEXT NOT NULL DEFAULT '',
		target_age TEXT NOT NULL DEFAULT '',
		inoculation_time TEXT NOT NULL DEFAULT '',
		target_family_only BOOLEAN,
		target_not_family BOOLEAN,
		target_suburbs BOOLEAN,
		target_other TEXT NOT NULL DEFAULT '',
		memo TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (campaign, institution_name, vaccine_type)
	)`,
	`CREATE TABLE IF NOT EXISTS outpatients (
		institution_name TEXT NOT NULL PRIMARY KEY,
		public_health_center TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		mon TEXT NOT NULL DEFAULT '',
		tue TEXT NOT NULL DEFAULT '',
		wed TEXT NOT NULL DEFAULT '',
		thu TEXT NOT NULL DEFAULT '',
		fri TEXT NOT NULL DEFAULT '',
		sat TEXT NOT NULL DEFAULT '',
		sun TEXT NOT NULL DEFAULT '',
		memo TEXT NOT NULL DEFAULT '',
		is_outpatient BOOLEAN NOT NULL DEFAULT FALSE,
		is_positive_patients BOOLEAN NOT NULL DEFAULT FALSE,
		target_not_family BOOLEAN NOT NULL DEFAULT FALSE,
		is_pediatrics BOOLEAN NOT NULL DEFAULT FALSE,
		face_to_face_for_positive BOOLEAN NOT NULL DEFAULT FALSE,
		online_for_positive BOOLEAN NOT NULL DEFAULT FALSE,
		home_visit_for_positive BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		institution_name TEXT NOT NULL PRIMARY KEY,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		status TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

// Migrate creates every table and index that does not exist yet.
func (db *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
