package extract

import (
	"fmt"
	"io"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

const (
	sourcePrefectureCSV = "prefecture_cases_csv"

	prefectureCaseColumns = 16
)

// PrefectureCaseCSV extracts case rows from the prefecture's Shift_JIS
// open-data CSV. The first record is the header.
func PrefectureCaseCSV(r io.Reader) (Results, error) {
	records, err := readCSV(r, true, sourcePrefectureCSV)
	if err != nil {
		return nil, err
	}

	results := make(Results, 0, len(records))
	for i, record := range records {
		line := i + 1
		cells := cleanCells(record)
		switch {
		case i == 0:
			results = append(results, Skipped(line, "header row"))
		case blank(cells):
			results = append(results, Skipped(line, "blank row"))
		case len(cells) < prefectureCaseColumns:
			results = append(results, Skipped(line, fmt.Sprintf("expected %d columns, got %d", prefectureCaseColumns, len(cells))))
		default:
			results = append(results, prefectureCaseRow(line, cells))
		}
	}
	return results, nil
}

func prefectureCaseRow(line int, cells []string) Result {
	caseNumber, ok := normalize.Int(cells[0])
	if !ok {
		return Invalid(line, fmt.Sprintf("case number %q is not an integer", cells[0]))
	}
	return OK(line, Row{
		models.FieldCaseNumber:        caseNumber,
		models.FieldRegionCode:        cells[1],
		models.FieldPrefecture:        cells[2],
		models.FieldCity:              cells[3],
		models.FieldPublicationDate:   normalize.ParseISODate(cells[4]),
		models.FieldOnsetDate:         normalize.ParseISODate(cells[5]),
		models.FieldResidence:         cells[6],
		models.FieldAgeBracket:        normalize.AgeBracket(cells[7]),
		models.FieldSex:               normalize.Sex(cells[8]),
		models.FieldOccupation:        cells[9],
		models.FieldClinicalStatus:    cells[10],
		models.FieldSymptoms:          cells[11],
		models.FieldHadOverseasTravel: normalize.ParseFlag(cells[12]),
		models.FieldWasDischarged:     normalize.ParseFlag(cells[14]),
		models.FieldNote:              cells[15],
	})
}
