package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
)

// Coordinate validation constants
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// MaxNearResults bounds k in near searches.
const MaxNearResults = 50

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidK           = fmt.Errorf("k must be between 1 and %d", MaxNearResults)
)

// validateOrigin checks the query point of a near search.
func validateOrigin(p models.Point, k int) error {
	if p.Latitude < MinLatitude || p.Latitude > MaxLatitude {
		return fmt.Errorf("%w: latitude must be between %f and %f, got %f",
			ErrInvalidCoordinates, MinLatitude, MaxLatitude, p.Latitude)
	}
	if p.Longitude < MinLongitude || p.Longitude > MaxLongitude {
		return fmt.Errorf("%w: longitude must be between %f and %f, got %f",
			ErrInvalidCoordinates, MinLongitude, MaxLongitude, p.Longitude)
	}
	if k < 0 || k > MaxNearResults {
		return fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	return nil
}

// Located pairs an institution with its coordinates, which are nil while
// the location is pending review.
type Located[T any] struct {
	Institution T             `json:"institution"`
	Point       *models.Point `json:"location"`
}

func locatedPoint[T any](l Located[T]) (models.Point, bool) {
	if l.Point == nil {
		return models.Point{}, false
	}
	return *l.Point, true
}

// LocationService exposes institution coordinates.
type LocationService interface {
	FindAll(ctx context.Context) ([]models.Location, error)
	// Pending lists institutions the geocoder could not place.
	Pending(ctx context.Context) ([]models.Location, error)
	// Points returns the known coordinates keyed by institution name.
	Points(ctx context.Context) (map[string]models.Point, error)
}

type locationService struct {
	repo repository.LocationRepository
	log  *logger.Logger
}

// NewLocationService creates a new instance of LocationService.
func NewLocationService(repo repository.LocationRepository, log *logger.Logger) LocationService {
	return &locationService{repo: repo, log: log}
}

func (s *locationService) FindAll(ctx context.Context) ([]models.Location, error) {
	locations, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to query locations", err, nil)
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	return locations, nil
}

func (s *locationService) Pending(ctx context.Context) ([]models.Location, error) {
	pending, err := s.repo.Pending(ctx)
	if err != nil {
		s.log.Error("Failed to query pending locations", err, nil)
		return nil, fmt.Errorf("failed to query pending locations: %w", err)
	}
	return pending, nil
}

func (s *locationService) Points(ctx context.Context) (map[string]models.Point, error) {
	locations, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	points := make(map[string]models.Point, len(locations))
	for _, l := range locations {
		if p, ok := l.Point(); ok {
			points[l.InstitutionName] = p
		}
	}
	return points, nil
}

// locate attaches coordinates to each item by name.
func locate[T any](items []T, points map[string]models.Point, name func(T) string) []Located[T] {
	located := make([]Located[T], len(items))
	for i, item := range items {
		located[i] = Located[T]{Institution: item}
		if p, ok := points[name(item)]; ok {
			located[i].Point = &p
		}
	}
	return located
}
