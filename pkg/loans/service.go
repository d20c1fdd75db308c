package loans

import (
	"context"
	"time"

	"github.com/openshelf/openshelf/pkg/copies"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles the loan workflows on top of the copy store.
type Service struct {
	db          *bun.DB
	copyService *copies.Service
}

// NewService creates a new loans service.
func NewService(db *bun.DB) *Service {
	return &Service{
		db:          db,
		copyService: copies.NewService(db),
	}
}

// RenewCopy validates the renewal date and pushes the copy's due date. On a
// validation failure nothing is persisted.
func (s *Service) RenewCopy(ctx context.Context, copyID string, renewalDate, today time.Time) (*models.Copy, error) {
	copyRecord, err := s.copyService.RetrieveCopy(ctx, copies.RetrieveCopyOptions{ID: &copyID})
	if err != nil {
		return nil, err
	}

	date, err := ValidateRenewalDate(renewalDate, today)
	if err != nil {
		return nil, err
	}

	copyRecord.DueBack = &date
	err = s.copyService.UpdateCopy(ctx, copyRecord, copies.UpdateCopyOptions{
		Columns: []string{"due_back"},
	})
	if err != nil {
		return nil, err
	}

	return copyRecord, nil
}

// ListBorrowedByUser returns the user's on-loan copies ordered by due date.
func (s *Service) ListBorrowedByUser(ctx context.Context, userID int) ([]*models.Copy, error) {
	var borrowed []*models.Copy

	err := s.db.NewSelect().
		Model(&borrowed).
		Relation("Book").
		Where("c.borrower_id = ?", userID).
		Where("c.status = ?", models.StatusOnLoan).
		Order("c.due_back ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return borrowed, nil
}

// ListAllOnLoanOptions contains options for the all-borrowed listing.
type ListAllOnLoanOptions struct {
	Limit  *int
	Offset *int
}

// ListAllOnLoan returns every on-loan copy ordered by due date, with the
// total for pagination.
func (s *Service) ListAllOnLoan(ctx context.Context, opts ListAllOnLoanOptions) ([]*models.Copy, int, error) {
	var borrowed []*models.Copy

	q := s.db.NewSelect().
		Model(&borrowed).
		Relation("Book").
		Relation("Borrower").
		Where("c.status = ?", models.StatusOnLoan).
		Order("c.due_back ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return borrowed, total, nil
}
