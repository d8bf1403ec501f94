package models

import "time"

// DailyAgeBucketCount is the number of new cases per age bracket published
// for one day.
type DailyAgeBucketCount struct {
	PublicationDate time.Time `json:"publication_date"`
	UpdatedAt       time.Time `json:"updated_at"`
	Under10         int       `json:"age_under_10" validate:"gte=0"`
	Age10s          int       `json:"age_10s" validate:"gte=0"`
	Age20s          int       `json:"age_20s" validate:"gte=0"`
	Age30s          int       `json:"age_30s" validate:"gte=0"`
	Age40s          int       `json:"age_40s" validate:"gte=0"`
	Age50s          int       `json:"age_50s" validate:"gte=0"`
	Age60s          int       `json:"age_60s" validate:"gte=0"`
	Age70s          int       `json:"age_70s" validate:"gte=0"`
	Age80s          int       `json:"age_80s" validate:"gte=0"`
	Over90          int       `json:"age_over_90" validate:"gte=0"`
	Investigating   int       `json:"investigating" validate:"gte=0"`
}

// Buckets returns the ten age-bracket counts in AgeBrackets order.
func (d DailyAgeBucketCount) Buckets() []int {
	return []int{
		d.Under10, d.Age10s, d.Age20s, d.Age30s, d.Age40s,
		d.Age50s, d.Age60s, d.Age70s, d.Age80s, d.Over90,
	}
}

// Total is the sum of every bucket including investigating.
func (d DailyAgeBucketCount) Total() int {
	total := d.Investigating
	for _, n := range d.Buckets() {
		total += n
	}
	return total
}

// SapporoDailyCount is the number of new cases Sapporo published for one day.
type SapporoDailyCount struct {
	PublicationDate time.Time `json:"publication_date"`
	UpdatedAt       time.Time `json:"updated_at"`
	Count           int       `json:"count" validate:"gte=0"`
}
