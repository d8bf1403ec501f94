package extract

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
	"github.com/xuri/excelize/v2"
)

const (
	sourceOutpatientXLSX = "outpatients_xlsx"
	sourceOutpatientLink = "outpatients_link"

	outpatientSheet      = "Sheet1"
	outpatientHeaderRows = 4
	outpatientColumns    = 58

	notFamilyOnly = "かかりつけ患者以外の診療も可"
)

var clockPattern = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})(:[0-9]{2})?$`)

// weekday column ranges: am start, -, am end, pm start, -, pm end
var weekdayColumns = []struct {
	field string
	start int
}{
	{models.FieldMon, 9},
	{models.FieldTue, 15},
	{models.FieldWed, 21},
	{models.FieldThu, 27},
	{models.FieldFri, 33},
	{models.FieldSat, 39},
	{models.FieldSun, 45},
}

// OutpatientXLSX extracts fever outpatient clinics from the prefecture's
// workbook. The first four rows of Sheet1 are titles and headers.
func OutpatientXLSX(r io.Reader) (Results, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &apierrors.ExtractionError{Source: sourceOutpatientXLSX, Reason: fmt.Sprintf("open workbook: %v", err)}
	}
	defer f.Close()

	rows, err := f.GetRows(outpatientSheet)
	if err != nil {
		return nil, &apierrors.ExtractionError{Source: sourceOutpatientXLSX, Reason: fmt.Sprintf("read %s: %v", outpatientSheet, err)}
	}
	return OutpatientRows(rows), nil
}

// OutpatientRows extracts outpatients from the raw rows of Sheet1, header
// rows included.
func OutpatientRows(rows [][]string) Results {
	results := make(Results, 0, len(rows))
	for i, raw := range rows {
		line := i + 1
		if i < outpatientHeaderRows {
			results = append(results, Skipped(line, "header row"))
			continue
		}
		cells := outpatientCells(raw)
		switch {
		case blank(cells):
			results = append(results, Skipped(line, "blank row"))
		case cells[3] == "":
			results = append(results, Invalid(line, "missing institution name"))
		default:
			results = append(results, OK(line, outpatientRow(cells)))
		}
	}
	return results
}

// outpatientCells pads a row to the full width, since trailing empty cells
// are not returned, and normalizes every cell. A lone "0" is an empty cell.
func outpatientCells(raw []string) []string {
	cells := make([]string, outpatientColumns)
	for i := 0; i < len(raw) && i < outpatientColumns; i++ {
		if raw[i] == "0" {
			continue
		}
		cells[i] = normalize.NFKC(normalize.CollapseWhitespace(raw[i]))
	}
	return cells
}

func marked(cell string) bool {
	return strings.ContainsAny(cell, "○〇")
}

func outpatientRow(cells []string) Row {
	positive := marked(cells[1])
	row := Row{
		models.FieldIsOutpatient:          marked(cells[0]),
		models.FieldIsPositivePatients:    positive,
		models.FieldPublicHealthCenter:    cells[2],
		models.FieldInstitutionName:       cells[3],
		models.FieldCity:                  cells[4],
		models.FieldAddress:               cells[5],
		models.FieldPhone:                 cells[6],
		models.FieldTargetNotFamily:       cells[7] == notFamilyOnly,
		models.FieldIsPediatrics:          marked(cells[8]),
		models.FieldFaceToFaceForPositive: positive && marked(cells[51]),
		models.FieldOnlineForPositive:     positive && marked(cells[52]),
		models.FieldHomeVisitForPositive:  positive && marked(cells[53]),
		models.FieldMemo:                  cells[57],
	}
	for _, day := range weekdayColumns {
		row[day.field] = OpeningHours(cells[day.start : day.start+6])
	}
	return row
}

// OpeningHours joins one weekday's six cells into text such as
// "09:00～12:00、13:00～17:00". A session whose start and end are both
// empty or 00:00 is closed. Back-to-back sessions are merged.
func OpeningHours(cells []string) string {
	if len(cells) < 6 {
		return ""
	}
	session := func(start, end string) string {
		start, end = clock(start), clock(end)
		if closed(start) && closed(end) {
			return ""
		}
		return start + "～" + end
	}
	am := session(cells[0], cells[2])
	pm := session(cells[3], cells[5])
	switch {
	case am == "":
		return pm
	case pm == "":
		return am
	default:
		return strings.Replace(am+"、"+pm, "～00:00、00:00～", "～", 1)
	}
}

func closed(t string) bool {
	return t == "" || t == "00:00"
}

// clock renders a time cell as HH:MM. Cells stored as a fraction of a day
// are converted; anything else is returned as is.
func clock(cell string) string {
	if m := clockPattern.FindStringSubmatch(cell); m != nil {
		h, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", h, m[2])
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil && v >= 0 && v < 1 {
		minutes := int(v*24*60 + 0.5)
		return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
	}
	return cell
}

// OutpatientLink finds the Asahikawa workbook link on the prefecture's
// outpatient page: an .xlsx anchor in a div whose image alt mentions 旭川.
func OutpatientLink(r io.Reader, base string) (string, error) {
	doc, err := parseHTML(r, sourceOutpatientLink)
	if err != nil {
		return "", err
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", &apierrors.ExtractionError{Source: sourceOutpatientLink, Reason: fmt.Sprintf("base url: %v", err)}
	}

	link := ""
	doc.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		href, ok := div.Find("a").First().Attr("href")
		if !ok || !strings.HasSuffix(href, ".xlsx") {
			return true
		}
		alt, ok := div.Find("img").First().Attr("alt")
		if !ok || !strings.Contains(alt, "旭川") {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		link = baseURL.ResolveReference(ref).String()
		return false
	})
	if link == "" {
		return "", &apierrors.ExtractionError{Source: sourceOutpatientLink, Reason: "no Asahikawa workbook link"}
	}
	return link, nil
}
