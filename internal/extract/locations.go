package extract

import (
	"fmt"
	"io"
	"strconv"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

const (
	sourceLocationCSV = "opendata_locations_csv"

	locationColumns = 37
)

// OpendataLocationCSV extracts Asahikawa institution coordinates from the
// prefecture's Shift_JIS medical facility list. Only rows with exactly 37
// columns are read: [4] city, [5] name, [11] latitude, [12] longitude.
func OpendataLocationCSV(r io.Reader) (Results, error) {
	records, err := readCSV(r, true, sourceLocationCSV)
	if err != nil {
		return nil, err
	}

	results := make(Results, 0, len(records))
	for i, record := range records {
		line := i + 1
		if i == 0 {
			results = append(results, Skipped(line, "header row"))
			continue
		}
		if len(record) != locationColumns {
			results = append(results, Skipped(line, fmt.Sprintf("expected %d columns, got %d", locationColumns, len(record))))
			continue
		}
		cells := make([]string, len(record))
		for j, c := range record {
			cells[j] = normalize.NFKC(normalize.CollapseWhitespace(c))
		}
		if cells[4] != models.AsahikawaCity {
			results = append(results, Skipped(line, "outside Asahikawa"))
			continue
		}
		lat, err := strconv.ParseFloat(cells[11], 64)
		if err != nil {
			results = append(results, Invalid(line, fmt.Sprintf("latitude %q is not a number", cells[11])))
			continue
		}
		lng, err := strconv.ParseFloat(cells[12], 64)
		if err != nil {
			results = append(results, Invalid(line, fmt.Sprintf("longitude %q is not a number", cells[12])))
			continue
		}
		results = append(results, OK(line, Row{
			models.FieldInstitutionName: cells[5],
			models.FieldLatitude:        lat,
			models.FieldLongitude:       lng,
			models.FieldStatus:          string(models.LocationResolved),
		}))
	}
	return results, nil
}
