package copies

import (
	"context"
	"database/sql"
	"time"

	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveCopyOptions struct {
	ID *string

	IncludeRelations bool
}

type ListCopiesOptions struct {
	Limit      *int
	Offset     *int
	BookID     *int
	Status     *string
	BorrowerID *int

	includeTotal bool
}

type UpdateCopyOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateCopy creates a copy of a book. New copies start in maintenance
// unless a status is set.
func (svc *Service) CreateCopy(ctx context.Context, bookID int, imprint string, status string) (*models.Copy, error) {
	exists, err := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Where("id = ?", bookID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.ValidationError("Invalid book ID")
	}

	copyRecord := models.NewCopy(bookID)
	copyRecord.Imprint = imprint
	if status != "" {
		copyRecord.Status = status
	}

	_, err = svc.db.NewInsert().Model(copyRecord).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return copyRecord, nil
}

func (svc *Service) RetrieveCopy(ctx context.Context, opts RetrieveCopyOptions) (*models.Copy, error) {
	copyRecord := &models.Copy{}

	q := svc.db.
		NewSelect().
		Model(copyRecord)

	if opts.ID != nil {
		q = q.Where("c.id = ?", *opts.ID)
	}
	if opts.IncludeRelations {
		q = q.
			Relation("Book").
			Relation("Borrower")
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Copy")
		}
		return nil, errors.WithStack(err)
	}

	return copyRecord, nil
}

func (svc *Service) ListCopies(ctx context.Context, opts ListCopiesOptions) ([]*models.Copy, error) {
	c, _, err := svc.listCopiesWithTotal(ctx, opts)
	return c, errors.WithStack(err)
}

func (svc *Service) ListCopiesWithTotal(ctx context.Context, opts ListCopiesOptions) ([]*models.Copy, int, error) {
	opts.includeTotal = true
	return svc.listCopiesWithTotal(ctx, opts)
}

func (svc *Service) listCopiesWithTotal(ctx context.Context, opts ListCopiesOptions) ([]*models.Copy, int, error) {
	var copies []*models.Copy
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&copies).
		Relation("Book").
		Order("c.due_back ASC")

	if opts.BookID != nil {
		q = q.Where("c.book_id = ?", *opts.BookID)
	}
	if opts.Status != nil {
		q = q.Where("c.status = ?", *opts.Status)
	}
	if opts.BorrowerID != nil {
		q = q.Where("c.borrower_id = ?", *opts.BorrowerID)
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

	return copies, total, nil
}

func (svc *Service) UpdateCopy(ctx context.Context, copyRecord *models.Copy, opts UpdateCopyOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	copyRecord.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(copyRecord).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Copy")
		}
		return errors.WithStack(err)
	}
	return nil
}

func (svc *Service) DeleteCopy(ctx context.Context, copyID string) error {
	_, err := svc.db.NewDelete().
		Model((*models.Copy)(nil)).
		Where("id = ?", copyID).
		Exec(ctx)
	return errors.WithStack(err)
}

// Checkout puts a copy on loan to a borrower with a due date.
func (svc *Service) Checkout(ctx context.Context, copyID string, borrowerID int, dueBack time.Time) (*models.Copy, error) {
	copyRecord, err := svc.RetrieveCopy(ctx, RetrieveCopyOptions{ID: &copyID})
	if err != nil {
		return nil, err
	}

	if copyRecord.Status == models.StatusOnLoan {
		return nil, errcodes.ValidationError("Copy is already on loan")
	}

	exists, err := svc.db.NewSelect().
		Model((*models.User)(nil)).
		Where("id = ?", borrowerID).
		Where("is_active = ?", true).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.ValidationError("Invalid borrower ID")
	}

	copyRecord.Status = models.StatusOnLoan
	copyRecord.BorrowerID = &borrowerID
	copyRecord.DueBack = &dueBack
	err = svc.UpdateCopy(ctx, copyRecord, UpdateCopyOptions{
		Columns: []string{"status", "borrower_id", "due_back"},
	})
	if err != nil {
		return nil, err
	}

	return copyRecord, nil
}

// Return marks a copy as available and clears the loan fields.
func (svc *Service) Return(ctx context.Context, copyID string) (*models.Copy, error) {
	copyRecord, err := svc.RetrieveCopy(ctx, RetrieveCopyOptions{ID: &copyID})
	if err != nil {
		return nil, err
	}

	if copyRecord.Status != models.StatusOnLoan {
		return nil, errcodes.ValidationError("Copy is not on loan")
	}

	copyRecord.Status = models.StatusAvailable
	copyRecord.BorrowerID = nil
	copyRecord.DueBack = nil
	err = svc.UpdateCopy(ctx, copyRecord, UpdateCopyOptions{
		Columns: []string{"status", "borrower_id", "due_back"},
	})
	if err != nil {
		return nil, err
	}

	return copyRecord, nil
}
