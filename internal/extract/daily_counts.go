package extract

import (
	"fmt"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/normalize"
)

// The press release PDFs switched to a single "全体" row with finer age
// groups for releases after this date.
var dailyCountLayoutChange = normalize.Date(2022, time.September, 26)

var bucketFields = [10]string{
	models.FieldAgeUnder10, models.FieldAge10s, models.FieldAge20s, models.FieldAge30s,
	models.FieldAge40s, models.FieldAge50s, models.FieldAge60s, models.FieldAge70s,
	models.FieldAge80s, models.FieldAgeOver90,
}

// oldLayoutLabels maps the row labels of the age table used up to the
// layout change to bucket indexes. -1 is the investigating row.
var oldLayoutLabels = map[string]int{
	"10歳未満": 0, "10歳代": 1, "20歳代": 2, "30歳代": 3, "40歳代": 4,
	"50歳代": 5, "60歳代": 6, "70歳代": 7, "80歳代": 8, "90歳以上": 9,
	"調査中": -1, "非公表": -1, "不明": -1,
}

func dailyCountRow(published time.Time, buckets [10]int, investigating int) Row {
	row := Row{
		models.FieldPublicationDate: &published,
		models.FieldInvestigating:   investigating,
	}
	for i, field := range bucketFields {
		row[field] = buckets[i]
	}
	return row
}

func pdfLabel(cell string) string {
	return normalize.NFKC(normalize.StripSpaces(cell))
}

// DailyCountPDF extracts the per-age count table of one press release.
// A release without an age table reports zero cases for the day.
func DailyCountPDF(rows [][]string, pressDate time.Time) Results {
	if pressDate.After(dailyCountLayoutChange) {
		return dailyCountTotalRow(rows, pressDate)
	}
	return dailyCountAgeTable(rows, pressDate)
}

// dailyCountAgeTable reads a label/count table starting at "10歳未満".
// Unreadable counts are zero.
func dailyCountAgeTable(rows [][]string, pressDate time.Time) Results {
	var buckets [10]int
	investigating := 0
	start := -1
	for i, cells := range rows {
		if len(cells) < 2 {
			if start >= 0 {
				break
			}
			continue
		}
		label := pdfLabel(cells[0])
		if start < 0 && label != "10歳未満" {
			continue
		}
		idx, known := oldLayoutLabels[label]
		if !known {
			break
		}
		if start < 0 {
			start = i
		}
		n, _ := normalize.Int(pdfLabel(cells[1]))
		if idx < 0 {
			investigating = n
		} else {
			buckets[idx] = n
		}
	}
	if start < 0 {
		return Results{OK(0, dailyCountRow(pressDate, [10]int{}, 0))}
	}
	return Results{OK(start+1, dailyCountRow(pressDate, buckets, investigating))}
}

// dailyCountTotalRow reads the "全体" row: [全体, 0歳, 1-4歳, 5-9歳, 10代,
// 20代, 30代, 40代, 50代, 60-64歳, 65-69歳, 70代, 80代, 90歳以上].
func dailyCountTotalRow(rows [][]string, pressDate time.Time) Results {
	const columns = 14
	for i, cells := range rows {
		if len(cells) == 0 || pdfLabel(cells[0]) != "全体" {
			continue
		}
		line := i + 1
		if len(cells) < columns {
			return Results{Invalid(line, fmt.Sprintf("expected %d columns, got %d", columns, len(cells)))}
		}
		var n [columns]int
		for c := 1; c < columns; c++ {
			v, ok := normalize.Int(pdfLabel(cells[c]))
			if !ok {
				return Results{Invalid(line, fmt.Sprintf("count %q is not an integer", cells[c]))}
			}
			n[c] = v
		}
		buckets := [10]int{
			n[1] + n[2] + n[3], n[4], n[5], n[6], n[7], n[8], n[9] + n[10], n[11], n[12], n[13],
		}
		return Results{OK(line, dailyCountRow(pressDate, buckets, 0))}
	}
	return Results{OK(0, dailyCountRow(pressDate, [10]int{}, 0))}
}
