// Package pdftable recovers table rows from text-based PDF reports.
//
// The city's PDFs are generated from spreadsheets, so every table row is a
// line of text fragments at the same baseline. Fragments separated by a
// horizontal gap wider than CellGap are treated as separate cells.
package pdftable

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// CellGap is the minimum horizontal gap, in points, between two cells.
const CellGap = 3.0

// Fragment is one positioned run of text on a page.
type Fragment struct {
	Text  string
	X     float64
	Width float64
}

// Rows extracts every text line of every page as a row of cells, in page
// order and top to bottom within a page.
func Rows(data []byte) ([][]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var rows [][]string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		lines, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("failed to read text of page %d: %w", i, err)
		}
		for _, line := range lines {
			fragments := make([]Fragment, 0, len(line.Content))
			for _, t := range line.Content {
				fragments = append(fragments, Fragment{Text: t.S, X: t.X, Width: t.W})
			}
			if cells := Cells(fragments, CellGap); len(cells) > 0 {
				rows = append(rows, cells)
			}
		}
	}
	return rows, nil
}

// Cells joins fragments into cells. Fragments are ordered by X first, and a
// new cell starts wherever the gap to the previous fragment exceeds gap.
// Blank lines yield nil.
func Cells(fragments []Fragment, gap float64) []string {
	if len(fragments) == 0 {
		return nil
	}
	sorted := make([]Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var (
		cells   []string
		current strings.Builder
		end     = sorted[0].X
	)
	for i, f := range sorted {
		if i > 0 && f.X-end > gap {
			cells = append(cells, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(f.Text)
		if e := f.X + f.Width; e > end {
			end = e
		}
	}
	cells = append(cells, strings.TrimSpace(current.String()))

	for _, c := range cells {
		if c != "" {
			return cells
		}
	}
	return nil
}
