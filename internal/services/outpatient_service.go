package services

import (
	"context"
	"fmt"
	"time"

	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/geo"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
)

// OutpatientService defines read operations over fever outpatient clinics.
type OutpatientService interface {
	List(ctx context.Context, filter repository.OutpatientFilter) ([]Located[models.Outpatient], error)
	// Get returns a *errors.NotFoundError if the clinic is not listed.
	Get(ctx context.Context, name string) (*models.Outpatient, error)
	Near(ctx context.Context, origin models.Point, k int, filter repository.OutpatientFilter) ([]geo.Ranked[Located[models.Outpatient]], error)
	LastUpdated(ctx context.Context) (*time.Time, error)
}

type outpatientService struct {
	repo      repository.OutpatientRepository
	locations LocationService
	log       *logger.Logger
}

// NewOutpatientService creates a new instance of OutpatientService.
func NewOutpatientService(repo repository.OutpatientRepository, locations LocationService, log *logger.Logger) OutpatientService {
	return &outpatientService{repo: repo, locations: locations, log: log}
}

func (s *outpatientService) List(ctx context.Context, filter repository.OutpatientFilter) ([]Located[models.Outpatient], error) {
	outpatients, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to query outpatients", err, map[string]interface{}{
			"pediatrics": filter.Pediatrics,
			"not_family": filter.NotFamily,
		})
		return nil, fmt.Errorf("failed to query outpatients: %w", err)
	}

	points, err := s.locations.Points(ctx)
	if err != nil {
		return nil, err
	}
	return locate(outpatients, points, func(o models.Outpatient) string { return o.InstitutionName }), nil
}

func (s *outpatientService) Get(ctx context.Context, name string) (*models.Outpatient, error) {
	outpatient, err := s.repo.Find(ctx, name)
	if err != nil {
		s.log.Error("Failed to query outpatient", err, map[string]interface{}{
			"name": name,
		})
		return nil, fmt.Errorf("failed to query outpatient: %w", err)
	}
	if outpatient == nil {
		return nil, &apierrors.NotFoundError{Entity: "outpatient", Key: name}
	}
	return outpatient, nil
}

func (s *outpatientService) Near(ctx context.Context, origin models.Point, k int, filter repository.OutpatientFilter) ([]geo.Ranked[Located[models.Outpatient]], error) {
	if err := validateOrigin(origin, k); err != nil {
		return nil, err
	}
	outpatients, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return geo.KNearest(origin, outpatients, k, locatedPoint[models.Outpatient]), nil
}

func (s *outpatientService) LastUpdated(ctx context.Context) (*time.Time, error) {
	updated, err := s.repo.LastUpdated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read last update: %w", err)
	}
	return updated, nil
}
