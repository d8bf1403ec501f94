package repository

import (
	"context"
	"time"

	"github.com/takedah/ash-unofficial-covid19-sub000/internal/database"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

// PressReleaseRepository defines data access for press release links.
type PressReleaseRepository interface {
	Upsert(ctx context.Context, links []models.PressReleaseLink, updatedAt time.Time) error
	// Latest returns the newest link, or nil, nil if none is stored.
	Latest(ctx context.Context) (*models.PressReleaseLink, error)
	// FindAll returns every link, oldest first.
	FindAll(ctx context.Context) ([]models.PressReleaseLink, error)
}

type pressReleaseRepository struct {
	links *store[models.PressReleaseLink]
}

// NewPressReleaseRepository creates a new instance of PressReleaseRepository.
func NewPressReleaseRepository(db *database.Database) PressReleaseRepository {
	return &pressReleaseRepository{links: newStore(db, pressReleaseSpec)}
}

var pressReleaseSpec = tableSpec[models.PressReleaseLink]{
	table:   database.TablePressReleaseLinks,
	keys:    []string{models.FieldPublicationDate},
	columns: []string{models.FieldDocumentURL},
	orderBy: "publication_date",
	values: func(l models.PressReleaseLink) []any {
		return []any{l.PublicationDate, l.DocumentURL}
	},
	key: func(l models.PressReleaseLink) string {
		return l.PublicationDate.Format(time.DateOnly)
	},
	scan: func(row scanner) (models.PressReleaseLink, error) {
		var l models.PressReleaseLink
		err := row.Scan(&l.PublicationDate, &l.DocumentURL, &l.UpdatedAt)
		l.PublicationDate = utcDate(l.PublicationDate)
		l.UpdatedAt = l.UpdatedAt.UTC()
		return l, err
	},
}

func (r *pressReleaseRepository) Upsert(ctx context.Context, links []models.PressReleaseLink, updatedAt time.Time) error {
	return r.links.Upsert(ctx, links, updatedAt)
}

func (r *pressReleaseRepository) Latest(ctx context.Context) (*models.PressReleaseLink, error) {
	links, err := r.links.find(ctx, "")
	if err != nil || len(links) == 0 {
		return nil, err
	}
	latest := links[len(links)-1]
	return &latest, nil
}

func (r *pressReleaseRepository) FindAll(ctx context.Context) ([]models.PressReleaseLink, error) {
	return r.links.find(ctx, "")
}
