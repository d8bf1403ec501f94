package factory

import (
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/extract"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

// BuildCase builds a case record. Rows carrying a source region case number
// are city rows and get a CityDetail.
func BuildCase(row extract.Row) (models.CaseRecord, error) {
	r := &reader{row: row}
	rec := models.CaseRecord{
		CaseNumber:        r.integer(models.FieldCaseNumber),
		RegionCode:        r.str(models.FieldRegionCode),
		Prefecture:        r.str(models.FieldPrefecture),
		City:              r.str(models.FieldCity),
		PublicationDate:   r.date(models.FieldPublicationDate),
		OnsetDate:         r.date(models.FieldOnsetDate),
		Residence:         r.str(models.FieldResidence),
		AgeBracket:        r.str(models.FieldAgeBracket),
		Sex:               r.str(models.FieldSex),
		Occupation:        r.str(models.FieldOccupation),
		ClinicalStatus:    r.str(models.FieldClinicalStatus),
		Symptoms:          r.str(models.FieldSymptoms),
		HadOverseasTravel: r.triState(models.FieldHadOverseasTravel),
		WasDischarged:     r.triState(models.FieldWasDischarged),
		Note:              r.str(models.FieldNote),
	}
	if _, ok := row[models.FieldSourceRegionCaseNumber]; ok {
		rec.CityDetail = &models.CityDetail{
			SourceRegionCaseNumber: r.integer(models.FieldSourceRegionCaseNumber),
			SurroundingCases:       r.str(models.FieldSurroundingCases),
			CloseContacts:          r.str(models.FieldCloseContacts),
		}
	}
	if r.err != nil {
		return models.CaseRecord{}, r.err
	}
	if err := check(rec); err != nil {
		return models.CaseRecord{}, err
	}
	return rec, nil
}

// BuildDailyCount builds a per-age daily count. Missing buckets are zero.
func BuildDailyCount(row extract.Row) (models.DailyAgeBucketCount, error) {
	r := &reader{row: row}
	count := func(field string) int {
		if _, ok := row[field]; !ok {
			return 0
		}
		return r.integer(field)
	}
	rec := models.DailyAgeBucketCount{
		PublicationDate: r.requiredDate(models.FieldPublicationDate),
		Under10:         count(models.FieldAgeUnder10),
		Age10s:          count(models.FieldAge10s),
		Age20s:          count(models.FieldAge20s),
		Age30s:          count(models.FieldAge30s),
		Age40s:          count(models.FieldAge40s),
		Age50s:          count(models.FieldAge50s),
		Age60s:          count(models.FieldAge60s),
		Age70s:          count(models.FieldAge70s),
		Age80s:          count(models.FieldAge80s),
		Over90:          count(models.FieldAgeOver90),
		Investigating:   count(models.FieldInvestigating),
	}
	if r.err != nil {
		return models.DailyAgeBucketCount{}, r.err
	}
	if err := check(rec); err != nil {
		return models.DailyAgeBucketCount{}, err
	}
	return rec, nil
}

// BuildSapporoCount builds one Sapporo daily count.
func BuildSapporoCount(row extract.Row) (models.SapporoDailyCount, error) {
	r := &reader{row: row}
	rec := models.SapporoDailyCount{
		PublicationDate: r.requiredDate(models.FieldPublicationDate),
		Count:           r.integer(models.FieldCount),
	}
	if r.err != nil {
		return models.SapporoDailyCount{}, r.err
	}
	if err := check(rec); err != nil {
		return models.SapporoDailyCount{}, err
	}
	return rec, nil
}

// BuildPressRelease builds a press release link.
func BuildPressRelease(row extract.Row) (models.PressReleaseLink, error) {
	r := &reader{row: row}
	rec := models.PressReleaseLink{
		PublicationDate: r.requiredDate(models.FieldPublicationDate),
		DocumentURL:     r.str(models.FieldDocumentURL),
	}
	if r.err != nil {
		return models.PressReleaseLink{}, r.err
	}
	if err := check(rec); err != nil {
		return models.PressReleaseLink{}, err
	}
	return rec, nil
}

// BuildMedicalInstitution builds a vaccination site.
func BuildMedicalInstitution(row extract.Row) (models.MedicalInstitution, error) {
	r := &reader{row: row}
	rec := models.MedicalInstitution{
		Name:                  r.str(models.FieldName),
		Address:               r.str(models.FieldAddress),
		Phone:                 r.str(models.FieldPhone),
		Area:                  r.str(models.FieldArea),
		Memo:                  r.str(models.FieldMemo),
		TargetAgeGroup:        r.str(models.FieldTargetAgeGroup),
		BookableAtSite:        r.flag(models.FieldBookableAtSite),
		BookableViaCallCenter: r.flag(models.FieldBookableViaCallCenter),
	}
	if r.err != nil {
		return models.MedicalInstitution{}, r.err
	}
	if err := check(rec); err != nil {
		return models.MedicalInstitution{}, err
	}
	return rec, nil
}

// BuildReservation builds a reservation status.
func BuildReservation(row extract.Row) (models.ReservationStatus, error) {
	r := &reader{row: row}
	rec := models.ReservationStatus{
		Campaign:         r.str(models.FieldCampaign),
		InstitutionName:  r.str(models.FieldInstitutionName),
		VaccineType:      r.str(models.FieldVaccineType),
		Area:             r.str(models.FieldArea),
		Address:          r.str(models.FieldAddress),
		Phone:            r.str(models.FieldPhone),
		StatusText:       r.str(models.FieldStatusText),
		TargetAge:        r.str(models.FieldTargetAge),
		InoculationTime:  r.str(models.FieldInoculationTime),
		TargetFamilyOnly: r.triState(models.FieldTargetFamilyOnly),
		TargetNotFamily:  r.triState(models.FieldTargetNotFamily),
		TargetSuburbs:    r.triState(models.FieldTargetSuburbs),
		TargetOther:      r.str(models.FieldTargetOther),
		Memo:             r.str(models.FieldMemo),
	}
	if r.err != nil {
		return models.ReservationStatus{}, r.err
	}
	if err := check(rec); err != nil {
		return models.ReservationStatus{}, err
	}
	return rec, nil
}

// BuildOutpatient builds a fever outpatient clinic.
func BuildOutpatient(row extract.Row) (models.Outpatient, error) {
	r := &reader{row: row}
	rec := models.Outpatient{
		InstitutionName:    r.str(models.FieldInstitutionName),
		PublicHealthCenter: r.str(models.FieldPublicHealthCenter),
		City:               r.str(models.FieldCity),
		Address:            r.str(models.FieldAddress),
		Phone:              r.str(models.FieldPhone),
		Mon:                r.str(models.FieldMon),
		Tue:                r.str(models.FieldTue),
		Wed:                r.str(models.FieldWed),
		Thu:                r.str(models.FieldThu),
		Fri:                r.str(models.FieldFri),
		Sat:                r.str(models.FieldSat),
		Sun:                r.str(models.FieldSun),
		Memo:               r.str(models.FieldMemo),
		IsOutpatient:       r.flag(models.FieldIsOutpatient),
		IsPositivePatients: r.flag(models.FieldIsPositivePatients),
		TargetNotFamily:    r.flag(models.FieldTargetNotFamily),
		IsPediatrics:       r.flag(models.FieldIsPediatrics),
		FaceToFace:         r.flag(models.FieldFaceToFaceForPositive),
		Online:             r.flag(models.FieldOnlineForPositive),
		HomeVisit:          r.flag(models.FieldHomeVisitForPositive),
	}
	if r.err != nil {
		return models.Outpatient{}, r.err
	}
	if err := check(rec); err != nil {
		return models.Outpatient{}, err
	}
	return rec, nil
}

// BuildLocation builds an institution location. Coordinates must be given
// together, except for pending locations which have none.
func BuildLocation(row extract.Row) (models.Location, error) {
	r := &reader{row: row}
	rec := models.Location{
		InstitutionName: r.str(models.FieldInstitutionName),
		Latitude:        r.float(models.FieldLatitude),
		Longitude:       r.float(models.FieldLongitude),
		Status:          models.LocationStatus(r.str(models.FieldStatus)),
	}
	if r.err != nil {
		return models.Location{}, r.err
	}
	if !rec.Status.Valid() {
		return models.Location{}, invalid(models.FieldStatus, string(rec.Status), "unknown location status")
	}
	_, hasPoint := rec.Point()
	switch {
	case rec.Status == models.LocationPendingReview && (rec.Latitude != nil || rec.Longitude != nil):
		return models.Location{}, invalid(models.FieldLatitude, rec.Latitude, "pending locations have no coordinates")
	case rec.Status != models.LocationPendingReview && !hasPoint:
		return models.Location{}, invalid(models.FieldLatitude, rec.Latitude, "latitude and longitude are required")
	}
	if err := check(rec); err != nil {
		return models.Location{}, err
	}
	return rec, nil
}
