package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
)

// CasesPerPage is the page size of case listings.
const CasesPerPage = 100

// UndisclosedAge labels cases whose age bracket was not published.
const UndisclosedAge = "非公表"

var ErrInvalidPage = errors.New("page must be 1 or greater")

// CasePage is one page of city cases, newest first.
type CasePage struct {
	Cases   []models.CaseRecord `json:"cases"`
	Page    int                 `json:"page"`
	MaxPage int                 `json:"max_page"`
	Total   int                 `json:"total"`
}

// AgeCount is the number of cases in one age bracket.
type AgeCount struct {
	AgeBracket string `json:"age_bracket"`
	Count      int    `json:"count"`
}

// CaseService defines read operations over the city's case records.
type CaseService interface {
	// GetCase returns a *errors.NotFoundError if the case does not exist.
	GetCase(ctx context.Context, caseNumber int) (*models.CaseRecord, error)
	ListCases(ctx context.Context, page int) (*CasePage, error)
	DeleteCase(ctx context.Context, caseNumber int) error

	// Aggregate counts cases per period over [from, to), one bucket per
	// period even when it is empty.
	Aggregate(ctx context.Context, unit Unit, from, to time.Time) ([]Bucket, error)
	CumulativeByMonth(ctx context.Context, from, to time.Time) ([]Bucket, error)
	// MovingAverage is the weekly count divided by seven.
	MovingAverage(ctx context.Context, from, to time.Time) ([]Rate, error)
	PerHundredThousand(ctx context.Context, from, to time.Time) ([]Rate, error)
	// ReproductionNumber estimates the effective reproduction number on date.
	// A zero date means today.
	ReproductionNumber(ctx context.Context, date time.Time) (float64, error)
	CountByAge(ctx context.Context) ([]AgeCount, error)
	LastUpdated(ctx context.Context) (*time.Time, error)
}

type caseService struct {
	repo       repository.CaseRepository
	clock      clockwork.Clock
	population int
	log        *logger.Logger
}

// NewCaseService creates a new instance of CaseService.
func NewCaseService(repo repository.CaseRepository, clock clockwork.Clock, population int, log *logger.Logger) CaseService {
	return &caseService{
		repo:       repo,
		clock:      clock,
		population: population,
		log:        log,
	}
}

func (s *caseService) GetCase(ctx context.Context, caseNumber int) (*models.CaseRecord, error) {
	c, err := s.repo.FindCityCase(ctx, caseNumber)
	if err != nil {
		s.log.Error("Failed to query case", err, map[string]interface{}{
			"case_number": caseNumber,
		})
		return nil, fmt.Errorf("failed to query case: %w", err)
	}

	// Repository returns nil, nil when no case found
	if c == nil {
		s.log.Debug("Case not found", map[string]interface{}{
			"case_number": caseNumber,
		})
		return nil, &apierrors.NotFoundError{Entity: "case", Key: strconv.Itoa(caseNumber)}
	}
	return c, nil
}

func (s *caseService) ListCases(ctx context.Context, page int) (*CasePage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}

	total, err := s.repo.CountCityCases(ctx)
	if err != nil {
		s.log.Error("Failed to count cases", err, nil)
		return nil, fmt.Errorf("failed to count cases: %w", err)
	}

	cases, err := s.repo.ListCityCases(ctx, CasesPerPage, (page-1)*CasesPerPage)
	if err != nil {
		s.log.Error("Failed to list cases", err, map[string]interface{}{
			"page": page,
		})
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	maxPage := (total + CasesPerPage - 1) / CasesPerPage
	if maxPage < 1 {
		maxPage = 1
	}
	return &CasePage{Cases: cases, Page: page, MaxPage: maxPage, Total: total}, nil
}

func (s *caseService) DeleteCase(ctx context.Context, caseNumber int) error {
	c, err := s.GetCase(ctx, caseNumber)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCityCase(ctx, c.CaseNumber); err != nil {
		s.log.Error("Failed to delete case", err, map[string]interface{}{
			"case_number": caseNumber,
		})
		return fmt.Errorf("failed to delete case: %w", err)
	}

	s.log.Info("Case deleted", map[string]interface{}{
		"case_number": caseNumber,
	})
	return nil
}

func (s *caseService) Aggregate(ctx context.Context, unit Unit, from, to time.Time) ([]Bucket, error) {
	buckets, err := newBuckets(unit, from, to)
	if err != nil {
		return nil, err
	}

	dates, err := s.repo.PublicationDates(ctx, day(from), day(to))
	if err != nil {
		s.log.Error("Failed to aggregate cases", err, map[string]interface{}{
			"unit": string(unit),
			"from": from.Format(time.DateOnly),
			"to":   to.Format(time.DateOnly),
		})
		return nil, fmt.Errorf("failed to aggregate cases: %w", err)
	}

	for _, d := range dates {
		add(buckets, d, 1)
	}
	return buckets, nil
}

func (s *caseService) CumulativeByMonth(ctx context.Context, from, to time.Time) ([]Bucket, error) {
	months, err := s.Aggregate(ctx, UnitMonth, from, to)
	if err != nil {
		return nil, err
	}
	return cumulative(months), nil
}

func (s *caseService) MovingAverage(ctx context.Context, from, to time.Time) ([]Rate, error) {
	weeks, err := s.Aggregate(ctx, UnitWeek, from, to)
	if err != nil {
		return nil, err
	}
	return dailyAverage(weeks), nil
}

func (s *caseService) PerHundredThousand(ctx context.Context, from, to time.Time) ([]Rate, error) {
	weeks, err := s.Aggregate(ctx, UnitWeek, from, to)
	if err != nil {
		return nil, err
	}
	return perHundredThousand(weeks, s.population), nil
}

func (s *caseService) ReproductionNumber(ctx context.Context, date time.Time) (float64, error) {
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

func (s *caseService) CountByAge(ctx context.Context) ([]AgeCount, error) {
	counts, err := s.repo.CountByAgeBracket(ctx)
	if err != nil {
		s.log.Error("Failed to count cases by age", err, nil)
		return nil, fmt.Errorf("failed to count cases by age: %w", err)
	}

	result := make([]AgeCount, 0, len(models.AgeBrackets)+1)
	for _, bracket := range models.AgeBrackets {
		result = append(result, AgeCount{AgeBracket: bracket, Count: counts[bracket]})
	}
	return append(result, AgeCount{AgeBracket: UndisclosedAge, Count: counts[""]}), nil
}

func (s *caseService) LastUpdated(ctx context.Context) (*time.Time, error) {
	updated, err := s.repo.LastUpdated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read last update: %w", err)
	}
	return updated, nil
}
