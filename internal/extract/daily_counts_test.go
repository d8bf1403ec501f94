package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

func TestDailyCountPDFAgeTable(t *testing.T) {
	// Arrange
	rows := [][]string{
		{"年代", "人数"},
		{"10歳未満", "24"},
		{"10歳代", "13"},
		{"20歳代", "12"},
		{"30歳代", "10"},
		{"40歳代", "8"},
		{"50歳代", "7"},
		{"60歳代", "7"},
		{"70歳代", "8"},
		{"80歳代", "3"},
		{"90歳以上", "5"},
		{"調査中", "2"},
		{"合計", "99"},
	}

	// Act
	results := DailyCountPDF(rows, normalize.Date(2022, time.February, 21))

	// Assert
	require.Len(t, results, 1)
	row := results[0].Row
	assert.Equal(t, StatusOK, results[0].Status)
	assert.Equal(t, 24, row[models.FieldAgeUnder10])
	assert.Equal(t, 7, row[models.FieldAge60s])
	assert.Equal(t, 5, row[models.FieldAgeOver90])
	assert.Equal(t, 2, row[models.FieldInvestigating])
}

func TestDailyCountPDFTotalRow(t *testing.T) {
	rows := [][]string{
		{"", "0歳", "1-4歳", "5-9歳", "10代", "20代", "30代", "40代", "50代", "60-64歳", "65-69歳", "70代", "80代", "90歳以上"},
		{"全 体", "1", "2", "3", "10", "20", "30", "40", "50", "4", "5", "6", "7", "８"},
	}

	results := DailyCountPDF(rows, normalize.Date(2022, time.October, 1))

	require.Len(t, results, 1)
	row := results[0].Row
	assert.Equal(t, 6, row[models.FieldAgeUnder10])
	assert.Equal(t, 10, row[models.FieldAge10s])
	assert.Equal(t, 9, row[models.FieldAge60s])
	assert.Equal(t, 6, row[models.FieldAge70s])
	assert.Equal(t, 8, row[models.FieldAgeOver90])
	assert.Equal(t, 0, row[models.FieldInvestigating])
}

func TestDailyCountPDFTotalRowUnreadable(t *testing.T) {
	rows := [][]string{{"全体", "1", "2", "3", "x", "20", "30", "40", "50", "4", "5", "6", "7", "8"}}

	results := DailyCountPDF(rows, normalize.Date(2022, time.October, 1))

	require.Len(t, results, 1)
	assert.Equal(t, StatusInvalid, results[0].Status)
}

func TestDailyCountPDFWithoutTable(t *testing.T) {
	for _, pressDate := range []time.Time{normalize.Date(2021, time.May, 1), normalize.Date(2022, time.October, 1)} {
		results := DailyCountPDF([][]string{{"本日の発生はありません"}}, pressDate)

		require.Len(t, results, 1)
		row := results[0].Row
		assert.Equal(t, pressDate, *row[models.FieldPublicationDate].(*time.Time))
		assert.Equal(t, 0, row[models.FieldAge30s])
	}
}

func TestDailyCountCorrections(t *testing.T) {
	rows := DailyCountCorrections()

	require.Len(t, rows, 1)
	assert.Equal(t, normalize.Date(2022, time.February, 20), *rows[0][models.FieldPublicationDate].(*time.Time))
	assert.Equal(t, 24, rows[0][models.FieldAgeUnder10])
	assert.Equal(t, 5, rows[0][models.FieldAgeOver90])
}
