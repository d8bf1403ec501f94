package extract

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

const (
	sourceMedicalInstitutions = "medical_institutions_html"

	adultSitesCaption     = "新型コロナワクチン接種医療機関"
	pediatricSitesCaption = "新型コロナワクチン接種医療機関（12歳から15歳）"

	// area, name, address, phone, bookable at site, bookable via call center
	siteColumns = 6
)

var (
	footnotePattern    = regexp.MustCompile(`^(※[0-9]+)(.+)$`)
	footnoteRefPattern = regexp.MustCompile(`(※[0-9]+)`)
	shortPhonePattern  = regexp.MustCompile(`^[0-9]{2}-[0-9]{4}`)
)

// MedicalInstitutionHTML extracts vaccination sites from the city's site
// list. The adult table uses th rows for area headings and footnotes; the
// pediatric table marks area headings with an anchored td instead. Area
// headings carry forward to every following row.
func MedicalInstitutionHTML(r io.Reader, pediatric bool) (Results, error) {
	doc, err := parseHTML(r, sourceMedicalInstitutions)
	if err != nil {
		return nil, err
	}

	caption, targetAge := adultSitesCaption, models.TargetAgeAdult
	if pediatric {
		caption, targetAge = pediatricSitesCaption, models.TargetAgePediatric
	}
	tables := tablesWithCaption(doc, caption)
	if tables.Length() == 0 {
		return nil, &apierrors.ExtractionError{Source: sourceMedicalInstitutions, Reason: "no table captioned " + caption}
	}

	footnotes := map[string]string{}
	var rows [][]string
	area := ""
	tables.Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if th := tr.Find("th").First(); th.Length() > 0 {
				text := normalize.CollapseWhitespace(th.Text())
				if m := footnotePattern.FindStringSubmatch(text); m != nil {
					footnotes[m[1]] = strings.TrimSpace(m[2])
				} else {
					area = text
				}
				rows = append(rows, nil)
				return
			}
			first := tr.Find("td").First()
			if pediatric && first.Find("[id]").Length() > 0 {
				area = normalize.CollapseWhitespace(first.Text())
				rows = append(rows, nil)
				return
			}
			rows = append(rows, append([]string{area}, cellTexts(tr, "td")...))
		})
	})

	results := make(Results, 0, len(rows))
	for i, cells := range rows {
		line := i + 1
		switch {
		case cells == nil:
			results = append(results, Skipped(line, "heading row"))
		case len(cells) < siteColumns:
			results = append(results, Skipped(line, "short row"))
		case cells[1] == "医療機関名":
			results = append(results, Skipped(line, "header row"))
		case normalize.StripSpaces(cells[1]) == "":
			results = append(results, Invalid(line, "missing institution name"))
		default:
			results = append(results, OK(line, siteRow(cells, footnotes, targetAge)))
		}
	}
	return results, nil
}

func siteRow(cells []string, footnotes map[string]string, targetAge string) Row {
	memo := ""
	atSite := strings.Contains(cells[4], "○")
	if atSite {
		memo = siteMemo(cells[4], footnotes)
	}
	viaCallCenter := strings.Contains(cells[5], "○")
	if viaCallCenter {
		memo = siteMemo(cells[5], footnotes)
	}
	return Row{
		models.FieldName:                  normalize.StripSpaces(cells[1]),
		models.FieldAddress:               models.AsahikawaCity + cells[2],
		models.FieldPhone:                 sitePhone(cells[3]),
		models.FieldBookableAtSite:        atSite,
		models.FieldBookableViaCallCenter: viaCallCenter,
		models.FieldArea:                  cells[0],
		models.FieldMemo:                  memo,
		models.FieldTargetAgeGroup:        targetAge,
	}
}

// sitePhone adds the Asahikawa area code to numbers published without it.
func sitePhone(phone string) string {
	phone = strings.ReplaceAll(phone, "‐", "-")
	if shortPhonePattern.MatchString(phone) {
		return "0166-" + phone
	}
	return phone
}

// siteMemo resolves a ※N reference against the footnotes, or returns the
// text written after the ○ mark. Unknown references resolve to "".
func siteMemo(cell string, footnotes map[string]string) string {
	if m := footnoteRefPattern.FindStringSubmatch(cell); m != nil {
		return footnotes[m[1]]
	}
	if _, after, ok := strings.Cut(cell, "○"); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
