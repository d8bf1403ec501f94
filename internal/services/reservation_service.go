package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/geo"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
)

var ErrUnknownCampaign = errors.New("campaign must be booster, first or baby")

func validCampaign(campaign string) bool {
	switch campaign {
	case models.CampaignBooster, models.CampaignFirst, models.CampaignBaby:
		return true
	}
	return false
}

// ReservationService defines read operations over reservation statuses.
type ReservationService interface {
	// List returns the statuses of one campaign, optionally for one area.
	List(ctx context.Context, campaign, area string) ([]Located[models.ReservationStatus], error)
	Near(ctx context.Context, campaign string, origin models.Point, k int) ([]geo.Ranked[Located[models.ReservationStatus]], error)
	LastUpdated(ctx context.Context) (*time.Time, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	locations LocationService
	log       *logger.Logger
}

// NewReservationService creates a new instance of ReservationService.
func NewReservationService(repo repository.ReservationRepository, locations LocationService, log *logger.Logger) ReservationService {
	return &reservationService{repo: repo, locations: locations, log: log}
}

func (s *reservationService) List(ctx context.Context, campaign, area string) ([]Located[models.ReservationStatus], error) {
	if !validCampaign(campaign) {
		return nil, fmt.Errorf("%w: got %q", ErrUnknownCampaign, campaign)
	}

	statuses, err := s.repo.FindByCampaign(ctx, campaign, area)
	if err != nil {
		s.log.Error("Failed to query reservation statuses", err, map[string]interface{}{
			"campaign": campaign,
			"area":     area,
		})
		return nil, fmt.Errorf("failed to query reservation statuses: %w", err)
	}

	points, err := s.locations.Points(ctx)
	if err != nil {
		return nil, err
	}
	return locate(statuses, points, func(r models.ReservationStatus) string { return r.InstitutionName }), nil
}

func (s *reservationService) Near(ctx context.Context, campaign string, origin models.Point, k int) ([]geo.Ranked[Located[models.ReservationStatus]], error) {
	if err := validateOrigin(origin, k); err != nil {
		return nil, err
	}
	statuses, err := s.List(ctx, campaign, "")
	if err != nil {
		return nil, err
	}
	return geo.KNearest(origin, statuses, k, locatedPoint[models.ReservationStatus]), nil
}

func (s *reservationService) LastUpdated(ctx context.Context) (*time.Time, error) {
	updated, err := s.repo.LastUpdated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read last update: %w", err)
	}
	return updated, nil
}
