package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
)

// InvestigatingAge labels counts whose age was under investigation or not
// published.
const InvestigatingAge = "調査中等"

// StatsService reports on the per-age daily counts the city publishes after
// it stopped publishing individual cases, and on Sapporo's daily counts.
type StatsService interface {
	DailyCounts(ctx context.Context, from, to time.Time) ([]models.DailyAgeBucketCount, error)
	// Aggregate sums daily totals per period over [from, to).
	Aggregate(ctx context.Context, unit Unit, from, to time.Time) ([]Bucket, error)
	CumulativeByMonth(ctx context.Context, from, to time.Time) ([]Bucket, error)
	MovingAverage(ctx context.Context, from, to time.Time) ([]Rate, error)
	PerHundredThousand(ctx context.Context, from, to time.Time) ([]Rate, error)
	SapporoPerHundredThousand(ctx context.Context, from, to time.Time) ([]Rate, error)
	ReproductionNumber(ctx context.Context, date time.Time) (float64, error)
	CountByAge(ctx context.Context, from, to time.Time) ([]AgeCount, error)

	// DeriveFromCases builds daily counts for [from, to) from individual
	// case records. Cases without a published age count as investigating.
	DeriveFromCases(ctx context.Context, from, to time.Time) ([]models.DailyAgeBucketCount, error)
	LastUpdated(ctx context.Context) (*time.Time, error)
}

// Populations used by the per-100k rates.
type Populations struct {
	Asahikawa int
	Sapporo   int
}

type statsService struct {
	counts      repository.DailyCountRepository
	cases       repository.CaseRepository
	clock       clockwork.Clock
	populations Populations
	log         *logger.Logger
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(counts repository.DailyCountRepository, cases repository.CaseRepository, clock clockwork.Clock, populations Populations, log *logger.Logger) StatsService {
	return &statsService{
		counts:      counts,
		cases:       cases,
		clock:       clock,
		populations: populations,
		log:         log,
	}
}

func (s *statsService) DailyCounts(ctx context.Context, from, to time.Time) ([]models.DailyAgeBucketCount, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	counts, err := s.counts.Range(ctx, day(from), day(to))
	if err != nil {
		s.log.Error("Failed to query daily counts", err, map[string]interface{}{
			"from": from.Format(time.DateOnly),
			"to":   to.Format(time.DateOnly),
		})
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	return counts, nil
}

func (s *statsService) Aggregate(ctx context.Context, unit Unit, from, to time.Time) ([]Bucket, error) {
	buckets, err := newBuckets(unit, from, to)
	if err != nil {
		return nil, err
	}
	counts, err := s.DailyCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		add(buckets, c.PublicationDate, c.Total())
	}
	return buckets, nil
}

func (s *statsService) CumulativeByMonth(ctx context.Context, from, to time.Time) ([]Bucket, error) {
	months, err := s.Aggregate(ctx, UnitMonth, from, to)
	if err != nil {
		return nil, err
	}
	return cumulative(months), nil
}

func (s *statsService) MovingAverage(ctx context.Context, from, to time.Time) ([]Rate, error) {
	weeks, err := s.Aggregate(ctx, UnitWeek, from, to)
	if err != nil {
		return nil, err
	}
	return dailyAverage(weeks), nil
}

func (s *statsService) PerHundredThousand(ctx context.Context, from, to time.Time) ([]Rate, error) {
	weeks, err := s.Aggregate(ctx, UnitWeek, from, to)
	if err != nil {
		return nil, err
	}
	return perHundredThousand(weeks, s.populations.Asahikawa), nil
}

func (s *statsService) SapporoPerHundredThousand(ctx context.Context, from, to time.Time) ([]Rate, error) {
	weeks, err := newBuckets(UnitWeek, from, to)
	if err != nil {
		return nil, err
	}
	counts, err := s.counts.SapporoRange(ctx, day(from), day(to))
	if err != nil {
		s.log.Error("Failed to query Sapporo counts", err, nil)
		return nil, fmt.Errorf("failed to query Sapporo counts: %w", err)
	}
	for _, c := range counts {
		add(weeks, c.PublicationDate, c.Count)
	}
	return perHundredThousand(weeks, s.populations.Sapporo), nil
}

func (s *statsService) ReproductionNumber(ctx context.Context, date time.Time) (float64, error) {
	if date.IsZero() {
		date = today(s.clock.Now())
	}
	from, to := reproductionWindow(date)
	days, err := s.Aggregate(ctx, UnitDay, from, to)
	if err != nil {
		return 0, err
	}
	return reproductionNumber(days), nil
}

func (s *statsService) CountByAge(ctx context.Context, from, to time.Time) ([]AgeCount, error) {
	counts, err := s.DailyCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	sums := make([]int, len(models.AgeBrackets))
	investigating := 0
	for _, c := range counts {
		for i, n := range c.Buckets() {
			sums[i] += n
		}
		investigating += c.Investigating
	}

	result := make([]AgeCount, 0, len(sums)+1)
	for i, bracket := range models.AgeBrackets {
		result = append(result, AgeCount{AgeBracket: bracket, Count: sums[i]})
	}
	return append(result, AgeCount{AgeBracket: InvestigatingAge, Count: investigating}), nil
}

func (s *statsService) DeriveFromCases(ctx context.Context, from, to time.Time) ([]models.DailyAgeBucketCount, error) {
	days, err := newBuckets(UnitDay, from, to)
	if err != nil {
		return nil, err
	}

	cases, err := s.cases.FindPublishedBetween(ctx, day(from), day(to))
	if err != nil {
		s.log.Error("Failed to read cases for daily counts", err, nil)
		return nil, fmt.Errorf("failed to read cases: %w", err)
	}

	byDate := make(map[time.Time]*models.DailyAgeBucketCount, len(days))
	derived := make([]models.DailyAgeBucketCount, len(days))
	for i, d := range days {
		derived[i].PublicationDate = d.Start
		byDate[d.Start] = &derived[i]
	}

	for _, c := range cases {
		if c.PublicationDate == nil {
			continue
		}
		count, ok := byDate[day(*c.PublicationDate)]
		if !ok {
			continue
		}
		addAge(count, c.AgeBracket)
	}
	return derived, nil
}

// addAge counts one case in the bucket for bracket.
func addAge(c *models.DailyAgeBucketCount, bracket string) {
	buckets := []*int{
		&c.Under10, &c.Age10s, &c.Age20s, &c.Age30s, &c.Age40s,
		&c.Age50s, &c.Age60s, &c.Age70s, &c.Age80s, &c.Over90,
	}
	for i, b := range models.AgeBrackets {
		if b == bracket {
			*buckets[i]++
			return
		}
	}
	c.Investigating++
}

func (s *statsService) LastUpdated(ctx context.Context) (*time.Time, error) {
	updated, err := s.counts.LastUpdated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read last update: %w", err)
	}
	return updated, nil
}
