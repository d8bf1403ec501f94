package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewBuckets(t *testing.T) {
	tests := []struct {
		name   string
		unit   Unit
		from   time.Time
		to     time.Time
		starts []time.Time
	}{
		{
			name:   "days",
			unit:   UnitDay,
			from:   date(2021, 2, 27),
			to:     date(2021, 3, 2),
			starts: []time.Time{date(2021, 2, 27), date(2021, 2, 28), date(2021, 3, 1)},
		},
		{
			name:   "weeks keep a partial last week",
			unit:   UnitWeek,
			from:   date(2021, 3, 1),
			to:     date(2021, 3, 16),
			starts: []time.Time{date(2021, 3, 1), date(2021, 3, 8), date(2021, 3, 15)},
		},
		{
			name:   "months",
			unit:   UnitMonth,
			from:   date(2020, 11, 1),
			to:     date(2021, 2, 1),
			starts: []time.Time{date(2020, 11, 1), date(2020, 12, 1), date(2021, 1, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets, err := newBuckets(tt.unit, tt.from, tt.to)

			require.NoError(t, err)
			require.Len(t, buckets, len(tt.starts))
			for i, b := range buckets {
				assert.Equal(t, tt.starts[i], b.Start)
				assert.Zero(t, b.Count)
			}
		})
	}
}

func TestNewBuckets_Errors(t *testing.T) {
	_, err := newBuckets("year", date(2021, 1, 1), date(2022, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidUnit)

	_, err = newBuckets(UnitDay, date(2021, 3, 1), date(2021, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = newBuckets(UnitDay, date(2000, 1, 1), date(2021, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestAddAndCumulative(t *testing.T) {
	buckets, err := newBuckets(UnitWeek, date(2021, 3, 1), date(2021, 3, 15))
	require.NoError(t, err)

	add(buckets, date(2021, 2, 28), 5)
	add(buckets, date(2021, 3, 1), 1)
	add(buckets, date(2021, 3, 7), 2)
	add(buckets, date(2021, 3, 8), 3)

	assert.Equal(t, 3, buckets[0].Count)
	assert.Equal(t, 3, buckets[1].Count)
	assert.Equal(t, []int{3, 6}, []int{cumulative(buckets)[0].Count, cumulative(buckets)[1].Count})
}

func TestRates(t *testing.T) {
	weeks := []Bucket{{Start: date(2021, 3, 1), Count: 100}, {Start: date(2021, 3, 8), Count: 0}}

	avg := dailyAverage(weeks)
	assert.Equal(t, 14.29, avg[0].Value)
	assert.Equal(t, 0.0, avg[1].Value)

	per := perHundredThousand(weeks, 329033)
	assert.Equal(t, 30.39, per[0].Value)
	assert.Equal(t, 0.0, perHundredThousand(weeks, 0)[0].Value)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 2.68, roundHalfUp(2.675, 2))
	assert.Equal(t, 0.13, roundHalfUp(0.125, 2))
	assert.Equal(t, 1.0, roundHalfUp(0.995, 2))
}

func TestReproductionNumber(t *testing.T) {
	from, to := reproductionWindow(date(2021, 5, 12))
	assert.Equal(t, date(2021, 5, 1), from)
	assert.Equal(t, date(2021, 5, 13), to)

	days, err := newBuckets(UnitDay, from, to)
	require.NoError(t, err)
	require.Len(t, days, 12)

	t.Run("no earlier cases", func(t *testing.T) {
		assert.Equal(t, 0.0, reproductionNumber(days))
	})

	t.Run("doubling", func(t *testing.T) {
		for i := range days {
			days[i].Count = 1
		}
		for i := 7; i < 12; i++ {
			days[i].Count = 3
		}
		// before = 7, latest = 2 + 15
		assert.Equal(t, 2.43, reproductionNumber(days))
	})

	t.Run("wrong window", func(t *testing.T) {
		assert.Equal(t, 0.0, reproductionNumber(days[:7]))
	})
}

func TestToday(t *testing.T) {
	// 2021-03-05 16:00 UTC is already the 6th in Japan.
	assert.Equal(t, date(2021, 3, 6), today(time.Date(2021, 3, 5, 16, 0, 0, 0, time.UTC)))
}
