package dashboard

import (
	"context"

	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// Counts is the set of catalog totals shown on the landing page. The
// title-match count only appears when a filter was given.
type Counts struct {
	Books           int  `json:"num_books"`
	Copies          int  `json:"num_copies"`
	AvailableCopies int  `json:"num_copies_available"`
	Authors         int  `json:"num_authors"`
	Genres          int  `json:"num_genres"`
	TitleMatches    *int `json:"num_books_matching,omitempty"`
}

type CountOptions struct {
	TitleContains *string
}

func (s *Service) Count(ctx context.Context, opts CountOptions) (*Counts, error) {
	counts := &Counts{}

	var err error
	counts.Books, err = s.db.NewSelect().Model((*models.Book)(nil)).Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	counts.Copies, err = s.db.NewSelect().Model((*models.Copy)(nil)).Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	counts.AvailableCopies, err = s.db.NewSelect().
		Model((*models.Copy)(nil)).
		Where("c.status = ?", models.StatusAvailable).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	counts.Authors, err = s.db.NewSelect().Model((*models.Author)(nil)).Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	counts.Genres, err = s.db.NewSelect().Model((*models.Genre)(nil)).Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if opts.TitleContains != nil && *opts.TitleContains != "" {
		matches, err := s.db.NewSelect().
			Model((*models.Book)(nil)).
			Where("b.title LIKE ? COLLATE NOCASE", "%"+*opts.TitleContains+"%").
			Count(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		counts.TitleMatches = &matches
	}

	return counts, nil
}
