package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Unit is the length of one aggregation period.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// maxBuckets bounds the number of periods one aggregate may produce.
const maxBuckets = 3700

var (
	ErrInvalidUnit  = errors.New("unit must be day, week or month")
	ErrInvalidRange = errors.New("from must be before to")
)

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	switch u {
	case UnitDay, UnitWeek, UnitMonth:
		return true
	}
	return false
}

func (u Unit) next(t time.Time) time.Time {
	switch u {
	case UnitWeek:
		return t.AddDate(0, 0, 7)
	case UnitMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Bucket is the count for the period starting at Start.
type Bucket struct {
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// Rate is a derived per-period value.
type Rate struct {
	Start time.Time `json:"start"`
	Value float64   `json:"value"`
}

// day keeps the calendar date of t as a UTC midnight.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateRange(from, to time.Time) error {
	if !day(from).Before(day(to)) {
		return fmt.Errorf("%w: %s >= %s", ErrInvalidRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return nil
}

// newBuckets returns one empty bucket per period starting in [from, to).
// Periods start at from and step by unit.
func newBuckets(unit Unit, from, to time.Time) ([]Bucket, error) {
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidUnit, unit)
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	from, to = day(from), day(to)

	var buckets []Bucket
	for start := from; start.Before(to); start = unit.next(start) {
		if len(buckets) == maxBuckets {
			return nil, fmt.Errorf("%w: more than %d %s periods", ErrInvalidRange, maxBuckets, unit)
		}
		buckets = append(buckets, Bucket{Start: start})
	}
	return buckets, nil
}

// add counts n at date d. Dates before the first bucket are ignored; the
// caller queries [from, to) so nothing falls after the last one.
func add(buckets []Bucket, d time.Time, n int) {
	d = day(d)
	i := sort.Search(len(buckets), func(i int) bool {
		return buckets[i].Start.After(d)
	})
	if i == 0 {
		return
	}
	buckets[i-1].Count += n
}

func cumulative(buckets []Bucket) []Bucket {
	total := 0
	out := make([]Bucket, len(buckets))
	for i, b := range buckets {
		total += b.Count
		out[i] = Bucket{Start: b.Start, Count: total}
	}
	return out
}

// dailyAverage divides each weekly count by seven.
func dailyAverage(weeks []Bucket) []Rate {
	rates := make([]Rate, len(weeks))
	for i, w := range weeks {
		rates[i] = Rate{Start: w.Start, Value: roundHalfUp(float64(w.Count)/7, 2)}
	}
	return rates
}

func perHundredThousand(buckets []Bucket, population int) []Rate {
	rates := make([]Rate, len(buckets))
	for i, b := range buckets {
		value := 0.0
		if population > 0 {
			value = roundHalfUp(float64(b.Count)/float64(population)*100000, 2)
		}
		rates[i] = Rate{Start: b.Start, Value: value}
	}
	return rates
}

// generationTime is the serial interval in days used by the simplified
// reproduction number estimate.
const generationTime = 5

// reproductionWindow returns the [from, to) range of daily counts needed to
// estimate the reproduction number on date.
func reproductionWindow(date time.Time) (time.Time, time.Time) {
	date = day(date)
	return date.AddDate(0, 0, -(6 + generationTime)), date.AddDate(0, 0, 1)
}

// reproductionNumber compares the last seven days with the seven days one
// generation earlier. days must cover reproductionWindow.
func reproductionNumber(days []Bucket) float64 {
	if len(days) != 7+generationTime {
		return 0
	}
	before, latest := 0, 0
	for i, d := range days {
		if i < 7 {
			before += d.Count
		}
		if i >= generationTime {
			latest += d.Count
		}
	}
	if before == 0 {
		return 0
	}
	return roundHalfUp(float64(latest)/float64(before), 2)
}

// roundHalfUp rounds the shortest decimal form of v, so 2.675 becomes 2.68.
func roundHalfUp(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// jst is the zone every publication date refers to.
var jst = time.FixedZone("JST", 9*60*60)

// today returns the current publication date.
func today(now time.Time) time.Time {
	return day(now.In(jst))
}
