package extract

import (
	"fmt"
	"io"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

const sourcePressReleases = "press_releases_html"

var pressReleasePattern = regexp.MustCompile(`新型コロナウイルス感染症の発生状況.*?([0-9]+月[0-9]+日)発表分`)

// PressReleaseLinks extracts the daily press release PDF links from the
// city's press release index. Anchor texts carry only month and day, so
// year is attached.
func PressReleaseLinks(r io.Reader, pageURL string, year int) (Results, error) {
	doc, err := parseHTML(r, sourcePressReleases)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &apierrors.ExtractionError{Source: sourcePressReleases, Reason: fmt.Sprintf("page url: %v", err)}
	}

	var results Results
	found := false
	doc.Find("a").Each(func(i int, a *goquery.Selection) {
		line := i + 1
		text := normalize.CollapseWhitespace(normalize.FullwidthDigitsToHalfwidth(a.Text()))

		fixed, patched := PressReleaseLinkTextFixups[text]
		m := pressReleasePattern.FindStringSubmatch(text)
		if !patched && m == nil {
			results = append(results, Skipped(line, "not a press release link"))
			return
		}
		found = true

		href, _ := a.Attr("href")
		ref, err := url.Parse(href)
		if err != nil || href == "" {
			results = append(results, Invalid(line, fmt.Sprintf("bad href %q", href)))
			return
		}

		published := &fixed
		if !patched {
			published = normalize.ParseDateWithYear(m[1], year)
		}
		if published == nil {
			results = append(results, Invalid(line, fmt.Sprintf("bad press date %q", m[1])))
			return
		}
		results = append(results, OK(line, Row{
			models.FieldPublicationDate: published,
			models.FieldDocumentURL:     base.ResolveReference(ref).String(),
		}))
	})
	if !found {
		return nil, &apierrors.ExtractionError{Source: sourcePressReleases, Reason: "no press release links"}
	}
	return results, nil
}
