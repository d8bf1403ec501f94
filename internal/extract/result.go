// Package extract turns downloaded municipal documents into normalized rows.
//
// Every extractor reports one Result per source row so that callers can tell
// rows that were intentionally skipped (headers, headings, blank lines) from
// rows that looked like data but could not be read.
package extract

import (
	"fmt"
	"strings"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

// Row is one extracted record keyed by models.Field* names.
type Row map[string]any

// Status classifies the outcome of extracting one source row.
type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome for one source row. Line is 1-based within the
// extractor's input.
type Result struct {
	Row    Row
	Reason string
	Line   int
	Status Status
}

// OK wraps an extracted row.
func OK(line int, row Row) Result {
	return Result{Line: line, Status: StatusOK, Row: row}
}

// Skipped records a row that is not data, such as a header or a blank line.
func Skipped(line int, reason string) Result {
	return Result{Line: line, Status: StatusSkipped, Reason: reason}
}

// Invalid records a data row whose mandatory fields could not be read.
func Invalid(line int, reason string) Result {
	return Result{Line: line, Status: StatusInvalid, Reason: reason}
}

// Results is the ordered outcome of one extraction.
type Results []Result

// Rows returns the extracted rows in source order.
func (rs Results) Rows() []Row {
	rows := make([]Row, 0, len(rs))
	for _, r := range rs {
		if r.Status == StatusOK {
			rows = append(rows, r.Row)
		}
	}
	return rows
}

// Counts returns how many rows ended in each status.
func (rs Results) Counts() (ok, skipped, invalid int) {
	for _, r := range rs {
		switch r.Status {
		case StatusOK:
			ok++
		case StatusSkipped:
			skipped++
		case StatusInvalid:
			invalid++
		}
	}
	return ok, skipped, invalid
}

// Invalid returns only the rows that failed to extract.
func (rs Results) Invalid() []Result {
	var out []Result
	for _, r := range rs {
		if r.Status == StatusInvalid {
			out = append(out, r)
		}
	}
	return out
}

// cleanCells applies CollapseWhitespace to every cell.
func cleanCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = normalize.CollapseWhitespace(c)
	}
	return out
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// stripDash removes the "―" placeholder the city uses for empty cells.
func stripDash(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "―", ""))
}
