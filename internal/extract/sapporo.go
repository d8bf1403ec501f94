package extract

import (
	"fmt"
	"io"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

const sourceSapporoCSV = "sapporo_csv"

// SapporoCSV extracts daily new-case counts from Sapporo's open-data CSV:
// [date(time), count, ...] with a header row.
func SapporoCSV(r io.Reader) (Results, error) {
	records, err := readCSV(r, false, sourceSapporoCSV)
	if err != nil {
		return nil, err
	}

	results := make(Results, 0, len(records))
	for i, cells := range records {
		line := i + 1
		if i == 0 {
			results = append(results, Skipped(line, "header row"))
			continue
		}
		if len(cells) < 2 {
			results = append(results, Skipped(line, "short row"))
			continue
		}
		published := normalize.ParseISODate(cells[0])
		if published == nil {
			results = append(results, Invalid(line, fmt.Sprintf("date %q is not YYYY-MM-DD", cells[0])))
			continue
		}
		count, ok := normalize.Int(cells[1])
		if !ok {
			results = append(results, Invalid(line, fmt.Sprintf("count %q is not an integer", cells[1])))
			continue
		}
		results = append(results, OK(line, Row{
			models.FieldPublicationDate: published,
			models.FieldCount:           count,
		}))
	}
	return results, nil
}
