package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *int

	IncludeRelations bool
}

type ListBooksOptions struct {
	Limit  *int
	Offset *int
	// TitleContains filters by case-insensitive title substring.
	TitleContains *string

	includeTotal bool
}

type UpdateBookOptions struct {
	Columns []string
	// GenreIDs replaces the book's genre set when non-nil.
	GenreIDs *[]int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBook creates a book and attaches its genre set.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book, genreIDs []int) error {
	if book.AuthorID != nil {
		exists, err := svc.db.NewSelect().
			Model((*models.Author)(nil)).
			Where("id = ?", *book.AuthorID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.ValidationError("Invalid author ID")
		}
	}
	if book.LanguageID != nil {
		exists, err := svc.db.NewSelect().
			Model((*models.Language)(nil)).
			Where("id = ?", *book.LanguageID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.ValidationError("Invalid language ID")
		}
	}
	if err := svc.validateGenreIDs(ctx, genreIDs); err != nil {
		return err
	}

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return svc.insertGenreLinks(ctx, tx, book.ID, genreIDs)
	})
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book)

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.IncludeRelations {
		q = q.
			Relation("Author").
			Relation("Language").
			Relation("Genres", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Order("g.name ASC")
			}).
			Relation("Copies", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Order("c.due_back ASC")
			})
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	var books []*models.Book
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author").
		Relation("Language").
		Relation("Genres").
		Order("b.id ASC")

	if opts.TitleContains != nil && *opts.TitleContains != "" {
		q = q.Where("b.title LIKE ? COLLATE NOCASE", "%"+*opts.TitleContains+"%")
	}
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

	return books, total, nil
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if opts.GenreIDs != nil {
		if err := svc.validateGenreIDs(ctx, *opts.GenreIDs); err != nil {
			return err
		}
	}

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if len(opts.Columns) > 0 {
			book.UpdatedAt = time.Now()
			columns := append(opts.Columns, "updated_at")

			_, err := tx.NewUpdate().
				Model(book).
				Column(columns...).
				WherePK().
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		if opts.GenreIDs != nil {
			_, err := tx.NewDelete().
				Model((*models.BookGenre)(nil)).
				Where("book_id = ?", book.ID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			if err := svc.insertGenreLinks(ctx, tx, book.ID, *opts.GenreIDs); err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteBook deletes a book, its genre links, and clears the reference on
// any copies of it, in one transaction. The copies survive as orphans.
func (svc *Service) DeleteBook(ctx context.Context, bookID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*models.Copy)(nil)).
			Set("book_id = NULL").
			Set("updated_at = CURRENT_TIMESTAMP").
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) validateGenreIDs(ctx context.Context, genreIDs []int) error {
	if len(genreIDs) == 0 {
		return nil
	}

	count, err := svc.db.NewSelect().
		Model((*models.Genre)(nil)).
		Where("id IN (?)", bun.In(genreIDs)).
		Count(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if count != len(genreIDs) {
		return errcodes.ValidationError("One or more genre IDs are invalid")
	}
	return nil
}

func (svc *Service) insertGenreLinks(ctx context.Context, tx bun.Tx, bookID int, genreIDs []int) error {
	for _, genreID := range genreIDs {
		link := &models.BookGenre{
			BookID:  bookID,
			GenreID: genreID,
		}
		_, err := tx.NewInsert().Model(link).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
