package languages

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveLanguageOptions struct {
	ID   *int
	Name *string
}

type ListLanguagesOptions struct {
	Limit  *int
	Offset *int

	includeTotal bool
}

type UpdateLanguageOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateLanguage(ctx context.Context, language *models.Language) error {
	language.Name = strings.TrimSpace(language.Name)
	if language.Name == "" {
		return errcodes.ValidationError("Language name cannot be empty")
	}

	exists, err := svc.db.NewSelect().
		Model((*models.Language)(nil)).
		Where("LOWER(name) = LOWER(?)", language.Name).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return errcodes.ValidationError("Language name already exists")
	}

	now := time.Now()
	if language.CreatedAt.IsZero() {
		language.CreatedAt = now
	}
	language.UpdatedAt = language.CreatedAt

	_, err = svc.db.
		NewInsert().
		Model(language).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveLanguage(ctx context.Context, opts RetrieveLanguageOptions) (*models.Language, error) {
	language := &models.Language{}

	q := svc.db.
		NewSelect().
		Model(language)

	if opts.ID != nil {
		q = q.Where("l.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where("LOWER(l.name) = LOWER(?)", *opts.Name)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Language")
		}
		return nil, errors.WithStack(err)
	}

	return language, nil
}

func (svc *Service) ListLanguages(ctx context.Context, opts ListLanguagesOptions) ([]*models.Language, error) {
	l, _, err := svc.listLanguagesWithTotal(ctx, opts)
	return l, errors.WithStack(err)
}

func (svc *Service) ListLanguagesWithTotal(ctx context.Context, opts ListLanguagesOptions) ([]*models.Language, int, error) {
	opts.includeTotal = true
	return svc.listLanguagesWithTotal(ctx, opts)
}

func (svc *Service) listLanguagesWithTotal(ctx context.Context, opts ListLanguagesOptions) ([]*models.Language, int, error) {
	var languages []*models.Language
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&languages).
		Order("l.name ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return languages, total, nil
}

func (svc *Service) UpdateLanguage(ctx context.Context, language *models.Language, opts UpdateLanguageOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	language.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(language).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Language")
		}
		return errors.WithStack(err)
	}
	return nil
}

// DeleteLanguage deletes a language and clears the reference on any books
// that pointed at it, in one transaction.
func (svc *Service) DeleteLanguage(ctx context.Context, languageID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*models.Book)(nil)).
			Set("language_id = NULL").
			Set("updated_at = CURRENT_TIMESTAMP").
			Where("language_id = ?", languageID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.Language)(nil)).
			Where("id = ?", languageID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// GetBookCount returns the count of books in this language.
func (svc *Service) GetBookCount(ctx context.Context, languageID int) (int, error) {
	count, err := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Where("language_id = ?", languageID).
		Count(ctx)
	return count, errors.WithStack(err)
}
