package services

import (
	"context"
	"fmt"

	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
)

// PressReleaseService exposes the press release links the importer stored.
type PressReleaseService interface {
	// Latest returns a *errors.NotFoundError when no link has been imported.
	Latest(ctx context.Context) (*models.PressReleaseLink, error)
	List(ctx context.Context) ([]models.PressReleaseLink, error)
}

type pressReleaseService struct {
	repo repository.PressReleaseRepository
	log  *logger.Logger
}

// NewPressReleaseService creates a new instance of PressReleaseService.
func NewPressReleaseService(repo repository.PressReleaseRepository, log *logger.Logger) PressReleaseService {
	return &pressReleaseService{repo: repo, log: log}
}

func (s *pressReleaseService) Latest(ctx context.Context) (*models.PressReleaseLink, error) {
	link, err := s.repo.Latest(ctx)
	if err != nil {
		s.log.Error("Failed to query latest press release", err, nil)
		return nil, fmt.Errorf("failed to query latest press release: %w", err)
	}
	if link == nil {
		return nil, &apierrors.NotFoundError{Entity: "press release", Key: "latest"}
	}
	return link, nil
}

func (s *pressReleaseService) List(ctx context.Context) ([]models.PressReleaseLink, error) {
	links, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to query press releases", err, nil)
		return nil, fmt.Errorf("failed to query press releases: %w", err)
	}
	return links, nil
}
