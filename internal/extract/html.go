package extract

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

func parseHTML(r io.Reader, source string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &apierrors.ExtractionError{Source: source, Reason: fmt.Sprintf("parse html: %v", err)}
	}
	return doc, nil
}

// cellTexts returns the cleaned text of every element matching sel in tr.
func cellTexts(tr *goquery.Selection, sel string) []string {
	var cells []string
	tr.Find(sel).Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, normalize.CollapseWhitespace(cell.Text()))
	})
	return cells
}

// tablesWithCaption returns the tables whose caption text equals caption.
func tablesWithCaption(doc *goquery.Document, caption string) *goquery.Selection {
	return doc.Find("table").FilterFunction(func(_ int, table *goquery.Selection) bool {
		return normalize.CollapseWhitespace(table.Find("caption").First().Text()) == caption
	})
}
