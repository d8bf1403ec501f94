package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/extract"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

func cityRow() extract.Row {
	return extract.CityCaseRows([][]string{
		{"1121", "19080", "2月27日", "30代", "男性", "旭川市", "No.1072", "0人"},
	}, 2021).Rows()[0]
}

func TestBuildCaseFromCityRow(t *testing.T) {
	rec, err := BuildCase(cityRow())

	require.NoError(t, err)
	assert.Equal(t, 1121, rec.CaseNumber)
	require.NotNil(t, rec.PublicationDate)
	assert.Equal(t, normalize.Date(2021, time.February, 27), *rec.PublicationDate)
	assert.Equal(t, "30代", rec.AgeBracket)
	assert.Equal(t, "男性", rec.Sex)
	require.NotNil(t, rec.CityDetail)
	assert.Equal(t, 19080, rec.CityDetail.SourceRegionCaseNumber)
	assert.Nil(t, rec.OnsetDate)
	assert.Nil(t, rec.WasDischarged)
}

func TestBuildCaseRejects(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{name: "non numeric case number", field: models.FieldCaseNumber, value: "千百二十"},
		{name: "raw date string", field: models.FieldPublicationDate, value: "2月26日"},
		{name: "tri-state as string", field: models.FieldWasDischarged, value: "1"},
		{name: "age outside vocabulary", field: models.FieldAgeBracket, value: "100代"},
		{name: "sex outside vocabulary", field: models.FieldSex, value: "男"},
		{name: "zero case number", field: models.FieldCaseNumber, value: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			row := cityRow()
			row[tt.field] = tt.value

			// Act
			_, err := BuildCase(row)

			// Assert
			require.Error(t, err)
			assert.True(t, apierrors.IsValidation(err), "got %v", err)
		})
	}
}

func TestBuildCaseAcceptsNumericStringAndPlainDate(t *testing.T) {
	row := cityRow()
	row[models.FieldCaseNumber] = "1121"
	row[models.FieldOnsetDate] = normalize.Date(2021, time.February, 25)
	row[models.FieldHadOverseasTravel] = false

	rec, err := BuildCase(row)

	require.NoError(t, err)
	assert.Equal(t, 1121, rec.CaseNumber)
	require.NotNil(t, rec.OnsetDate)
	assert.Equal(t, 25, rec.OnsetDate.Day())
	require.NotNil(t, rec.HadOverseasTravel)
	assert.False(t, *rec.HadOverseasTravel)
}

func TestBuildCasePrefectureRowHasNoCityDetail(t *testing.T) {
	row := cityRow()
	delete(row, models.FieldSourceRegionCaseNumber)

	rec, err := BuildCase(row)

	require.NoError(t, err)
	assert.Nil(t, rec.CityDetail)
}

func TestValidateAndCollect(t *testing.T) {
	// Arrange
	good := cityRow()
	bad := cityRow()
	bad[models.FieldCaseNumber] = "千百二十"
	dup := cityRow()
	dup[models.FieldSex] = "女性"

	// Act
	records, report := ValidateAndCollect([]extract.Row{good, bad, dup}, BuildCase)

	// Assert
	require.Len(t, records, 2)
	assert.Equal(t, "男性", records[0].Sex)
	assert.Equal(t, "女性", records[1].Sex)
	assert.Equal(t, 2, report.Accepted)
	assert.False(t, report.OK())
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, 1, report.Rejected[0].Index)
	assert.Equal(t, 1, report.Fields()["first_rejected_index"])
}

func TestBuildDailyCount(t *testing.T) {
	rows := extract.DailyCountCorrections()

	rec, err := BuildDailyCount(rows[0])

	require.NoError(t, err)
	assert.Equal(t, 24, rec.Under10)
	assert.Equal(t, 97, rec.Total())

	_, err = BuildDailyCount(extract.Row{models.FieldAgeUnder10: 1})
	assert.True(t, apierrors.IsValidation(err))

	_, err = BuildDailyCount(extract.Row{
		models.FieldPublicationDate: normalize.Date(2022, time.March, 1),
		models.FieldAge20s:          -1,
	})
	assert.True(t, apierrors.IsValidation(err))
}

func TestBuildPressRelease(t *testing.T) {
	published := normalize.Date(2022, time.February, 21)

	rec, err := BuildPressRelease(extract.Row{
		models.FieldPublicationDate: &published,
		models.FieldDocumentURL:     "https://www.city.asahikawa.hokkaido.jp/files/0221.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, published, rec.PublicationDate)

	_, err = BuildPressRelease(extract.Row{
		models.FieldPublicationDate: &published,
		models.FieldDocumentURL:     "not a url",
	})
	assert.True(t, apierrors.IsValidation(err))
}

func TestBuildSapporoCount(t *testing.T) {
	published := normalize.Date(2022, time.January, 1)

	rec, err := BuildSapporoCount(extract.Row{models.FieldPublicationDate: &published, models.FieldCount: 52})

	require.NoError(t, err)
	assert.Equal(t, 52, rec.Count)
}

func TestBuildMedicalInstitution(t *testing.T) {
	row := extract.Row{
		models.FieldName:                  "旭川医療センター",
		models.FieldAddress:               "旭川市花咲町7丁目4048",
		models.FieldTargetAgeGroup:        models.TargetAgeAdult,
		models.FieldBookableAtSite:        true,
		models.FieldBookableViaCallCenter: false,
	}

	rec, err := BuildMedicalInstitution(row)
	require.NoError(t, err)
	assert.True(t, rec.BookableAtSite)

	row[models.FieldTargetAgeGroup] = "全年齢"
	_, err = BuildMedicalInstitution(row)
	assert.True(t, apierrors.IsValidation(err))

	row[models.FieldTargetAgeGroup] = models.TargetAgeAdult
	row[models.FieldBookableAtSite] = "○"
	_, err = BuildMedicalInstitution(row)
	assert.True(t, apierrors.IsValidation(err))
}

func TestBuildReservation(t *testing.T) {
	yes := true
	row := extract.Row{
		models.FieldCampaign:         models.CampaignFirst,
		models.FieldInstitutionName:  "唐沢病院",
		models.FieldTargetFamilyOnly: &yes,
		models.FieldTargetNotFamily:  (*bool)(nil),
	}

	rec, err := BuildReservation(row)
	require.NoError(t, err)
	require.NotNil(t, rec.TargetFamilyOnly)
	assert.True(t, *rec.TargetFamilyOnly)
	assert.Nil(t, rec.TargetNotFamily)

	row[models.FieldCampaign] = "fourth"
	_, err = BuildReservation(row)
	assert.True(t, apierrors.IsValidation(err))
}

func TestBuildOutpatient(t *testing.T) {
	rec, err := BuildOutpatient(extract.Row{
		models.FieldInstitutionName: "旭川医療センター",
		models.FieldIsOutpatient:    true,
		models.FieldMon:             "09:00～12:00",
	})

	require.NoError(t, err)
	assert.True(t, rec.IsOutpatient)
	assert.Equal(t, "09:00～12:00", rec.OpeningHours()[0])

	_, err = BuildOutpatient(extract.Row{models.FieldIsOutpatient: true})
	assert.True(t, apierrors.IsValidation(err))
}

func TestBuildLocation(t *testing.T) {
	tests := []struct {
		name    string
		row     extract.Row
		wantErr bool
	}{
		{
			name: "manual",
			row:  extract.ManualLocationRows()[0],
		},
		{
			name: "pending without coordinates",
			row:  extract.Row{models.FieldInstitutionName: "新しい診療所", models.FieldStatus: string(models.LocationPendingReview)},
		},
		{
			name:    "pending with coordinates",
			row:     extract.Row{models.FieldInstitutionName: "x", models.FieldStatus: string(models.LocationPendingReview), models.FieldLatitude: 0.0, models.FieldLongitude: 0.0},
			wantErr: true,
		},
		{
			name:    "resolved without coordinates",
			row:     extract.Row{models.FieldInstitutionName: "x", models.FieldStatus: string(models.LocationResolved)},
			wantErr: true,
		},
		{
			name:    "unknown status",
			row:     extract.Row{models.FieldInstitutionName: "x", models.FieldStatus: "guessed", models.FieldLatitude: 43.0, models.FieldLongitude: 142.0},
			wantErr: true,
		},
		{
			name:    "latitude out of range",
			row:     extract.Row{models.FieldInstitutionName: "x", models.FieldStatus: string(models.LocationResolved), models.FieldLatitude: 143.0, models.FieldLongitude: 43.0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildLocation(tt.row)
			if tt.wantErr {
				assert.True(t, apierrors.IsValidation(err), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
