package extract

import (
	"encoding/csv"
	"fmt"
	"io"

	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// readCSV reads every record, tolerating ragged rows and stray quotes.
// Shift_JIS input is decoded when sjis is set.
func readCSV(r io.Reader, sjis bool, source string) ([][]string, error) {
	if sjis {
		r = transform.NewReader(r, japanese.ShiftJIS.NewDecoder())
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &apierrors.ExtractionError{Source: source, Reason: fmt.Sprintf("read csv: %v", err)}
	}
	if len(records) == 0 {
		return nil, &apierrors.ExtractionError{Source: source, Reason: "empty csv"}
	}
	return records, nil
}
