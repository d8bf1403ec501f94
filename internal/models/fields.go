package models

// Field names shared by extracted rows and table columns.
const (
	FieldCaseNumber             = "case_number"
	FieldRegionCode             = "region_code"
	FieldPrefecture             = "prefecture"
	FieldCity                   = "city"
	FieldPublicationDate        = "publication_date"
	FieldOnsetDate              = "onset_date"
	FieldResidence              = "residence"
	FieldAgeBracket             = "age_bracket"
	FieldSex                    = "sex"
	FieldOccupation             = "occupation"
	FieldClinicalStatus         = "clinical_status"
	FieldSymptoms               = "symptoms"
	FieldHadOverseasTravel      = "had_overseas_travel"
	FieldWasDischarged          = "was_discharged"
	FieldNote                   = "note"
	FieldSourceRegionCaseNumber = "source_region_case_number"
	FieldSurroundingCases       = "surrounding_cases"
	FieldCloseContacts          = "close_contacts"

	FieldAgeUnder10    = "age_under_10"
	FieldAge10s        = "age_10s"
	FieldAge20s        = "age_20s"
	FieldAge30s        = "age_30s"
	FieldAge40s        = "age_40s"
	FieldAge50s        = "age_50s"
	FieldAge60s        = "age_60s"
	FieldAge70s        = "age_70s"
	FieldAge80s        = "age_80s"
	FieldAgeOver90     = "age_over_90"
	FieldInvestigating = "investigating"
	FieldCount         = "count"

	FieldDocumentURL = "document_url"

	FieldName                  = "name"
	FieldAddress               = "address"
	FieldPhone                 = "phone"
	FieldBookableAtSite        = "bookable_at_site"
	FieldBookableViaCallCenter = "bookable_via_call_center"
	FieldArea                  = "area"
	FieldMemo                  = "memo"
	FieldTargetAgeGroup        = "target_age_group"

	FieldCampaign         = "campaign"
	FieldInstitutionName  = "institution_name"
	FieldVaccineType      = "vaccine_type"
	FieldStatusText       = "status_text"
	FieldTargetAge        = "target_age"
	FieldInoculationTime  = "inoculation_time"
	FieldTargetFamilyOnly = "target_family_only"
	FieldTargetNotFamily  = "target_not_family"
	FieldTargetSuburbs    = "target_suburbs"
	FieldTargetOther      = "target_other"

	FieldIsOutpatient            = "is_outpatient"
	FieldIsPositivePatients      = "is_positive_patients"
	FieldPublicHealthCenter      = "public_health_center"
	FieldIsPediatrics            = "is_pediatrics"
	FieldMon                     = "mon"
	FieldTue                     = "tue"
	FieldWed                     = "wed"
	FieldThu                     = "thu"
	FieldFri                     = "fri"
	FieldSat                     = "sat"
	FieldSun                     = "sun"
	FieldFaceToFaceForPositive   = "face_to_face_for_positive"
	FieldOnlineForPositive       = "online_for_positive"
	FieldHomeVisitForPositive    = "home_visit_for_positive"

	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldStatus    = "status"

	FieldUpdatedAt = "updated_at"
)
