package copies

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/openshelf/openshelf/pkg/errcodes"
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

func createTestBook(ctx context.Context, t *testing.T, db *bun.DB, title string) *models.Book {
	t.Helper()

	now := time.Now()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		ISBN:      "9780000000000",
	}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)
	return book
}

func createTestBorrower(ctx context.Context, t *testing.T, db *bun.DB, username string) *models.User {
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

func TestServiceCreateCopy_DefaultsToMaintenance(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createTestBook(ctx, t, db, "The Dispossessed")

	copyRecord, err := svc.CreateCopy(ctx, book.ID, "Harper & Row, 1974", "")
	require.NoError(t, err)
	assert.NotEmpty(t, copyRecord.ID)
	assert.Equal(t, models.StatusMaintenance, copyRecord.Status)
	assert.Nil(t, copyRecord.DueBack)
	assert.Nil(t, copyRecord.BorrowerID)
}

func TestServiceCreateCopy_RejectsUnknownBook(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.CreateCopy(ctx, 9999, "", "")
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Contains(t, codeErr.Message, "Invalid book ID")
}

func TestServiceCheckout_PutsCopyOnLoan(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createTestBook(ctx, t, db, "The Dispossessed")
	borrower := createTestBorrower(ctx, t, db, "reader")

	copyRecord, err := svc.CreateCopy(ctx, book.ID, "", models.StatusAvailable)
	require.NoError(t, err)

	dueBack := time.Now().AddDate(0, 0, 21)
	checkedOut, err := svc.Checkout(ctx, copyRecord.ID, borrower.ID, dueBack)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnLoan, checkedOut.Status)
	require.NotNil(t, checkedOut.BorrowerID)
	assert.Equal(t, borrower.ID, *checkedOut.BorrowerID)
	require.NotNil(t, checkedOut.DueBack)
}

func TestServiceCheckout_RejectsCopyAlreadyOnLoan(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createTestBook(ctx, t, db, "The Dispossessed")
	borrower := createTestBorrower(ctx, t, db, "reader")

	copyRecord, err := svc.CreateCopy(ctx, book.ID, "", models.StatusAvailable)
	require.NoError(t, err)

	dueBack := time.Now().AddDate(0, 0, 21)
	_, err = svc.Checkout(ctx, copyRecord.ID, borrower.ID, dueBack)
	require.NoError(t, err)

	other := createTestBorrower(ctx, t, db, "other")
	_, err = svc.Checkout(ctx, copyRecord.ID, other.ID, dueBack)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Contains(t, codeErr.Message, "already on loan")
}

func TestServiceReturn_ClearsLoanFields(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createTestBook(ctx, t, db, "The Dispossessed")
	borrower := createTestBorrower(ctx, t, db, "reader")

	copyRecord, err := svc.CreateCopy(ctx, book.ID, "", models.StatusAvailable)
	require.NoError(t, err)

	dueBack := time.Now().AddDate(0, 0, 21)
	_, err = svc.Checkout(ctx, copyRecord.ID, borrower.ID, dueBack)
	require.NoError(t, err)

	returned, err := svc.Return(ctx, copyRecord.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, returned.Status)
	assert.Nil(t, returned.BorrowerID)
	assert.Nil(t, returned.DueBack)
}

func TestServiceReturn_RejectsCopyNotOnLoan(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createTestBook(ctx, t, db, "The Dispossessed")

	copyRecord, err := svc.CreateCopy(ctx, book.ID, "", models.StatusAvailable)
	require.NoError(t, err)

	_, err = svc.Return(ctx, copyRecord.ID)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Contains(t, codeErr.Message, "not on loan")
}

func TestServiceListCopies_FiltersByStatusAndBorrower(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := createTestBook(ctx, t, db, "The Dispossessed")
	borrower := createTestBorrower(ctx, t, db, "reader")

	available, err := svc.CreateCopy(ctx, book.ID, "", models.StatusAvailable)
	require.NoError(t, err)
	onLoan, err := svc.CreateCopy(ctx, book.ID, "", models.StatusAvailable)
	require.NoError(t, err)

	dueBack := time.Now().AddDate(0, 0, 21)
	_, err = svc.Checkout(ctx, onLoan.ID, borrower.ID, dueBack)
	require.NoError(t, err)

	status := models.StatusAvailable
	copies, err := svc.ListCopies(ctx, ListCopiesOptions{Status: &status})
	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, available.ID, copies[0].ID)

	copies, err = svc.ListCopies(ctx, ListCopiesOptions{BorrowerID: &borrower.ID})
	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, onLoan.ID, copies[0].ID)
}
