package extract

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

const (
	sourceCityHTML = "city_cases_html"
	sourceCityPDF  = "city_cases_pdf"

	cityCaseColumns    = 8
	cityCasePDFColumns = 10
)

// cityCaseHeaders are first-cell values of header rows in the city table.
var cityCaseHeaders = map[string]bool{"No.": true, "No": true, "市内番号": true, "番号": true}

func cityCaseNote(regionNumber, surrounding, closeContacts string) string {
	return "北海道発表No.;" + regionNumber + ";周囲の患者の発生;" + surrounding + ";濃厚接触者の状況;" + closeContacts + ";"
}

// CityCaseHTML extracts city case rows from every table of the city's case
// page. The page omits the year, so year is attached to every date.
func CityCaseHTML(r io.Reader, year int) (Results, error) {
	doc, err := parseHTML(r, sourceCityHTML)
	if err != nil {
		return nil, err
	}
	tables := doc.Find("table")
	if tables.Length() == 0 {
		return nil, &apierrors.ExtractionError{Source: sourceCityHTML, Reason: "no table found"}
	}

	var rows [][]string
	tables.Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			rows = append(rows, cellTexts(tr, "td"))
		})
	})
	return CityCaseRows(rows, year), nil
}

// CityCaseRows extracts city cases from rows laid out as
// [case no, prefecture no, date, age, sex, residence, surrounding, close contacts].
func CityCaseRows(rows [][]string, year int) Results {
	results := make(Results, 0, len(rows))
	for i, cells := range rows {
		results = append(results, cityCaseRow(i+1, cleanCells(cells), year))
	}
	return results
}

func cityCaseRow(line int, cells []string, year int) Result {
	if blank(cells) {
		return Skipped(line, "blank row")
	}
	if len(cells) < cityCaseColumns {
		return Skipped(line, fmt.Sprintf("expected %d columns, got %d", cityCaseColumns, len(cells)))
	}
	if cityCaseHeaders[cells[0]] {
		return Skipped(line, "header row")
	}
	caseNumber, ok := normalize.Int(cells[0])
	if !ok {
		return Invalid(line, fmt.Sprintf("case number %q is not an integer", cells[0]))
	}
	regionNumber, ok := normalize.Int(cells[1])
	if !ok {
		return Invalid(line, fmt.Sprintf("prefecture case number %q is not an integer", cells[1]))
	}

	return OK(line, cityCase(caseNumber, regionNumber,
		normalize.ParseDateWithYear(cells[2], year),
		cells[5], cells[3], cells[4], cells[6], cells[7]))
}

func cityCase(caseNumber, regionNumber int, published *time.Time, residence, age, sex, surrounding, closeContacts string) Row {
	return Row{
		models.FieldCaseNumber:             caseNumber,
		models.FieldRegionCode:             models.AsahikawaRegionCode,
		models.FieldPrefecture:             models.HokkaidoPrefecture,
		models.FieldCity:                   models.AsahikawaCity,
		models.FieldPublicationDate:        published,
		models.FieldOnsetDate:              nil,
		models.FieldResidence:              residence,
		models.FieldAgeBracket:             normalize.AgeBracket(age),
		models.FieldSex:                    normalize.Sex(sex),
		models.FieldOccupation:             "",
		models.FieldClinicalStatus:         "",
		models.FieldSymptoms:               "",
		models.FieldHadOverseasTravel:      nil,
		models.FieldWasDischarged:          nil,
		models.FieldNote:                   cityCaseNote(strconv.Itoa(regionNumber), surrounding, closeContacts),
		models.FieldSourceRegionCaseNumber: regionNumber,
		models.FieldSurroundingCases:       surrounding,
		models.FieldCloseContacts:          closeContacts,
	}
}

// CityCasePDF extracts city cases from the rows of a press release PDF.
// Only rows below a [*, 市内番号, 道内番号, ...] header are read. The PDF
// lists the previous day's cases, so the publication date is pressDate - 1.
func CityCasePDF(rows [][]string, pressDate time.Time) (Results, error) {
	published := pressDate.AddDate(0, 0, -1)
	results := make(Results, 0, len(rows))
	inTable := false
	found := false
	for i, raw := range rows {
		line := i + 1
		cells := cleanCells(raw)
		if len(cells) >= 3 && cells[1] == "市内番号" && cells[2] == "道内番号" {
			inTable, found = true, true
			results = append(results, Skipped(line, "header row"))
			continue
		}
		if !inTable {
			results = append(results, Skipped(line, "outside case table"))
			continue
		}
		if blank(cells) {
			results = append(results, Skipped(line, "blank row"))
			continue
		}
		if len(cells) < cityCasePDFColumns {
			results = append(results, Skipped(line, fmt.Sprintf("expected %d columns, got %d", cityCasePDFColumns, len(cells))))
			continue
		}
		caseNumber, ok := normalize.Int(cells[1])
		if !ok {
			results = append(results, Invalid(line, fmt.Sprintf("case number %q is not an integer", cells[1])))
			continue
		}
		regionNumber, ok := normalize.Int(cells[2])
		if !ok {
			results = append(results, Invalid(line, fmt.Sprintf("prefecture case number %q is not an integer", cells[2])))
			continue
		}
		day := published
		results = append(results, OK(line, cityCase(caseNumber, regionNumber, &day,
			cells[4], cells[5], cells[6], cells[8], cells[9])))
	}
	if !found {
		return nil, &apierrors.ExtractionError{Source: sourceCityPDF, Reason: "no case table found"}
	}
	return results, nil
}
