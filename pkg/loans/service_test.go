package loans

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/openshelf/openshelf/pkg/copies"
	"github.com/openshelf/openshelf/pkg/migrations"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.RegisterModel((*models.BookGenre)(nil))
	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createTestUser(ctx context.Context, t *testing.T, db *bun.DB, username string) *models.User {
	t.Helper()

	role := new(models.Role)
	err := db.NewSelect().Model(role).Where("name = ?", models.RoleMember).Scan(ctx)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: "hash",
		RoleID:       role.ID,
		IsActive:     true,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)
	return user
}

func createLoanedCopy(ctx context.Context, t *testing.T, db *bun.DB, borrowerID int, dueBack time.Time) *models.Copy {
	t.Helper()

	now := time.Now()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     "A Wizard of Earthsea",
		ISBN:      "9780140304770",
	}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	copyRecord := models.NewCopy(book.ID)
	copyRecord.Status = models.StatusOnLoan
	copyRecord.BorrowerID = &borrowerID
	copyRecord.DueBack = &dueBack
	_, err = db.NewInsert().Model(copyRecord).Exec(ctx)
	require.NoError(t, err)
	return copyRecord
}

func TestServiceRenewCopy_PersistsValidDate(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	today := date(2026, 8, 30)
	user := createTestUser(ctx, t, db, "reader")
	copyRecord := createLoanedCopy(ctx, t, db, user.ID, today.AddDate(0, 0, 3))

	renewed, err := svc.RenewCopy(ctx, copyRecord.ID, today.AddDate(0, 0, 14), today)
	require.NoError(t, err)
	require.NotNil(t, renewed.DueBack)
	assert.Equal(t, today.AddDate(0, 0, 14), *renewed.DueBack)

	// And it's persisted
	reloaded := &models.Copy{}
	err = db.NewSelect().Model(reloaded).Where("c.id = ?", copyRecord.ID).Scan(ctx)
	require.NoError(t, err)
	require.NotNil(t, reloaded.DueBack)
	assert.Equal(t, today.AddDate(0, 0, 14), reloaded.DueBack.UTC())
}

func TestServiceRenewCopy_InvalidDatePersistsNothing(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	today := date(2026, 8, 30)
	originalDue := today.AddDate(0, 0, 3)
	user := createTestUser(ctx, t, db, "reader")
	copyRecord := createLoanedCopy(ctx, t, db, user.ID, originalDue)

	_, err := svc.RenewCopy(ctx, copyRecord.ID, today.AddDate(0, 0, -7), today)
	require.ErrorIs(t, err, ErrRenewalInPast)

	_, err = svc.RenewCopy(ctx, copyRecord.ID, today.AddDate(0, 0, 35), today)
	require.ErrorIs(t, err, ErrRenewalTooFarAhead)

	reloaded := &models.Copy{}
	err = db.NewSelect().Model(reloaded).Where("c.id = ?", copyRecord.ID).Scan(ctx)
	require.NoError(t, err)
	require.NotNil(t, reloaded.DueBack)
	assert.Equal(t, originalDue, reloaded.DueBack.UTC())
}

func TestServiceRenewCopy_ResubmissionIsStable(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	today := date(2026, 8, 30)
	user := createTestUser(ctx, t, db, "reader")
	copyRecord := createLoanedCopy(ctx, t, db, user.ID, today.AddDate(0, 0, 3))

	target := today.AddDate(0, 0, 14)
	first, err := svc.RenewCopy(ctx, copyRecord.ID, target, today)
	require.NoError(t, err)

	second, err := svc.RenewCopy(ctx, copyRecord.ID, target, today)
	require.NoError(t, err)
	assert.Equal(t, *first.DueBack, *second.DueBack)
}

func TestServiceRenewCopy_UnknownCopyIs404(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	today := date(2026, 8, 30)
	_, err := svc.RenewCopy(ctx, "no-such-copy", today.AddDate(0, 0, 14), today)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestServiceListBorrowedByUser_FiltersAndOrders(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	today := date(2026, 8, 30)
	reader := createTestUser(ctx, t, db, "reader")
	other := createTestUser(ctx, t, db, "other")

	later := createLoanedCopy(ctx, t, db, reader.ID, today.AddDate(0, 0, 21))
	sooner := createLoanedCopy(ctx, t, db, reader.ID, today.AddDate(0, 0, 7))
	createLoanedCopy(ctx, t, db, other.ID, today.AddDate(0, 0, 1))

	// A returned copy of the reader's must not show up
	returned := createLoanedCopy(ctx, t, db, reader.ID, today.AddDate(0, 0, 2))
	copySvc := copies.NewService(db)
	_, err := copySvc.Return(ctx, returned.ID)
	require.NoError(t, err)

	borrowed, err := svc.ListBorrowedByUser(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, borrowed, 2)
	assert.Equal(t, sooner.ID, borrowed[0].ID)
	assert.Equal(t, later.ID, borrowed[1].ID)
}

func TestServiceListAllOnLoan_OrdersByDueBack(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	today := date(2026, 8, 30)
	reader := createTestUser(ctx, t, db, "reader")
	other := createTestUser(ctx, t, db, "other")

	second := createLoanedCopy(ctx, t, db, reader.ID, today.AddDate(0, 0, 10))
	first := createLoanedCopy(ctx, t, db, other.ID, today.AddDate(0, 0, 2))

	borrowed, total, err := svc.ListAllOnLoan(ctx, ListAllOnLoanOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, borrowed, 2)
	assert.Equal(t, first.ID, borrowed[0].ID)
	assert.Equal(t, second.ID, borrowed[1].ID)
}
