package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

const (
	sourceReservationPDF  = "reservations_pdf"
	sourceReservationHTML = "reservations_html"

	reservationPDFColumns = 7
)

// ReservationLayout describes one campaign's table on the vaccination site.
type ReservationLayout struct {
	Campaign string
	TableID  string
	Columns  int
}

// Tablepress layouts for the campaigns published as HTML.
var (
	FirstReservationLayout = ReservationLayout{Campaign: models.CampaignFirst, TableID: "tablepress-2-no-2", Columns: 12}
	BabyReservationLayout  = ReservationLayout{Campaign: models.CampaignBaby, TableID: "tablepress-20-no-2", Columns: 10}
)

// ReservationPDF extracts booster reservation statuses from the rows of the
// city's PDF list: [name, address, phone, status, target, time, memo].
func ReservationPDF(rows [][]string) Results {
	results := make(Results, 0, len(rows))
	seen := map[string]bool{}
	for i, raw := range rows {
		line := i + 1
		cells := cleanCells(raw)
		if len(cells) < reservationPDFColumns {
			results = append(results, Skipped(line, fmt.Sprintf("expected %d columns, got %d", reservationPDFColumns, len(cells))))
			continue
		}
		name := normalize.StripSpaces(cells[0])
		if name == "" || name == "医療機関名" {
			results = append(results, Skipped(line, "header or continuation row"))
			continue
		}
		// Repeated page headers and duplicated lines appear in the PDF.
		key := strings.Join(cells, "\x1f")
		if seen[key] {
			results = append(results, Skipped(line, "duplicate row"))
			continue
		}
		seen[key] = true

		results = append(results, OK(line, Row{
			models.FieldCampaign:         models.CampaignBooster,
			models.FieldInstitutionName:  name,
			models.FieldVaccineType:      "",
			models.FieldArea:             "",
			models.FieldAddress:          cells[1],
			models.FieldPhone:            cells[2],
			models.FieldStatusText:       cells[3],
			models.FieldTargetAge:        cells[4],
			models.FieldInoculationTime:  cells[5],
			models.FieldTargetFamilyOnly: nil,
			models.FieldTargetNotFamily:  nil,
			models.FieldTargetSuburbs:    nil,
			models.FieldTargetOther:      "",
			models.FieldMemo:             cells[6],
		}))
	}
	return results
}

// ReservationHTML extracts reservation statuses from the tablepress table
// identified by layout.
func ReservationHTML(r io.Reader, layout ReservationLayout) (Results, error) {
	doc, err := parseHTML(r, sourceReservationHTML)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table#" + layout.TableID)
	if table.Length() == 0 {
		return nil, &apierrors.ExtractionError{Source: sourceReservationHTML, Reason: "no table " + layout.TableID}
	}

	var results Results
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		line := i + 1
		cells := cellTexts(tr, "td")
		switch {
		case len(cells) == 0:
			results = append(results, Skipped(line, "header row"))
		case len(cells) < layout.Columns:
			results = append(results, Skipped(line, fmt.Sprintf("expected %d columns, got %d", layout.Columns, len(cells))))
		case normalize.StripSpaces(cells[1]) == "":
			results = append(results, Invalid(line, "missing institution name"))
		case layout.Campaign == models.CampaignBaby:
			results = append(results, OK(line, babyReservationRow(cells)))
		default:
			results = append(results, OK(line, firstReservationRow(cells)))
		}
	})
	return results, nil
}

func joinMemo(parts ...string) string {
	return strings.TrimSpace(strings.Join(parts, " "))
}

// [area, name, address, phone, status, time, target age, family, non-family,
// suburbs, other, memo]
func firstReservationRow(cells []string) Row {
	family, familyText := normalize.Availability(cells[7])
	notFamily, notFamilyText := normalize.Availability(cells[8])
	suburbs, suburbsText := normalize.Availability(cells[9])
	return Row{
		models.FieldCampaign:         models.CampaignFirst,
		models.FieldInstitutionName:  strings.ReplaceAll(cells[1], " ", ""),
		models.FieldVaccineType:      "",
		models.FieldArea:             FixArea(strings.ReplaceAll(cells[0], " ", "")),
		models.FieldAddress:          cells[2],
		models.FieldPhone:            cells[3],
		models.FieldStatusText:       stripDash(cells[4]),
		models.FieldInoculationTime:  stripDash(cells[5]),
		models.FieldTargetAge:        stripDash(cells[6]),
		models.FieldTargetFamilyOnly: family,
		models.FieldTargetNotFamily:  notFamily,
		models.FieldTargetSuburbs:    suburbs,
		models.FieldTargetOther:      stripDash(cells[10]),
		models.FieldMemo:             joinMemo(familyText, notFamilyText, suburbsText, cells[11]),
	}
}

// [area, name, address, phone, status, time, family, non-family, suburbs,
// memo]. An empty status means the memo column holds the status.
func babyReservationRow(cells []string) Row {
	family, familyText := normalize.Availability(cells[6])
	notFamily, notFamilyText := normalize.Availability(cells[7])
	suburbs, _ := normalize.Availability(cells[8])
	memo := joinMemo(familyText, notFamilyText, cells[9])
	status := stripDash(cells[4])
	if status == "" {
		status, memo = memo, ""
	}
	return Row{
		models.FieldCampaign:         models.CampaignBaby,
		models.FieldInstitutionName:  strings.ReplaceAll(cells[1], " ", ""),
		models.FieldVaccineType:      "",
		models.FieldArea:             FixArea(strings.ReplaceAll(cells[0], " ", "")),
		models.FieldAddress:          cells[2],
		models.FieldPhone:            cells[3],
		models.FieldStatusText:       status,
		models.FieldInoculationTime:  stripDash(cells[5]),
		models.FieldTargetAge:        "",
		models.FieldTargetFamilyOnly: family,
		models.FieldTargetNotFamily:  notFamily,
		models.FieldTargetSuburbs:    suburbs,
		models.FieldTargetOther:      "",
		models.FieldMemo:             memo,
	}
}
