package services

import (
	"context"
	"fmt"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/geo"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
)

// SiteFilter narrows a vaccination site listing. Empty fields do not filter.
type SiteFilter struct {
	Area           string
	TargetAgeGroup string
}

// SiteService defines read operations over vaccination sites.
type SiteService interface {
	List(ctx context.Context, filter SiteFilter) ([]Located[models.MedicalInstitution], error)
	// Near ranks the k sites nearest to origin. Sites without coordinates
	// are not ranked.
	Near(ctx context.Context, origin models.Point, k int, filter SiteFilter) ([]geo.Ranked[Located[models.MedicalInstitution]], error)
	LastUpdated(ctx context.Context) (*time.Time, error)
}

type siteService struct {
	repo      repository.MedicalInstitutionRepository
	locations LocationService
	log       *logger.Logger
}

// NewSiteService creates a new instance of SiteService.
func NewSiteService(repo repository.MedicalInstitutionRepository, locations LocationService, log *logger.Logger) SiteService {
	return &siteService{repo: repo, locations: locations, log: log}
}

func (s *siteService) List(ctx context.Context, filter SiteFilter) ([]Located[models.MedicalInstitution], error) {
	var (
		sites []models.MedicalInstitution
		err   error
	)
	switch {
	case filter.Area != "":
		sites, err = s.repo.FindByArea(ctx, filter.Area)
	case filter.TargetAgeGroup != "":
		sites, err = s.repo.FindByTargetAge(ctx, filter.TargetAgeGroup)
	default:
		sites, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		s.log.Error("Failed to query vaccination sites", err, map[string]interface{}{
			"area":             filter.Area,
			"target_age_group": filter.TargetAgeGroup,
		})
		return nil, fmt.Errorf("failed to query vaccination sites: %w", err)
	}

	// FindByArea does not filter by age
	if filter.Area != "" && filter.TargetAgeGroup != "" {
		filtered := sites[:0]
		for _, site := range sites {
			if site.TargetAgeGroup == filter.TargetAgeGroup {
				filtered = append(filtered, site)
			}
		}
		sites = filtered
	}

	points, err := s.locations.Points(ctx)
	if err != nil {
		return nil, err
	}
	return locate(sites, points, func(m models.MedicalInstitution) string { return m.Name }), nil
}

func (s *siteService) Near(ctx context.Context, origin models.Point, k int, filter SiteFilter) ([]geo.Ranked[Located[models.MedicalInstitution]], error) {
	if err := validateOrigin(origin, k); err != nil {
		s.log.Warn("Invalid near search", map[string]interface{}{
			"lat": origin.Latitude,
			"lng": origin.Longitude,
			"k":   k,
		})
		return nil, err
	}

	sites, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ranked := geo.KNearest(origin, sites, k, locatedPoint[models.MedicalInstitution])
	s.log.Info("Nearby vaccination sites found", map[string]interface{}{
		"lat":   origin.Latitude,
		"lng":   origin.Longitude,
		"count": len(ranked),
	})
	return ranked, nil
}

func (s *siteService) LastUpdated(ctx context.Context) (*time.Time, error) {
	updated, err := s.repo.LastUpdated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read last update: %w", err)
	}
	return updated, nil
}
