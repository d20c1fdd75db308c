package languages

import (
	"context"
	"database/sql"
	"testing"
	"time"

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

func TestCreateLanguage_RejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	err := svc.CreateLanguage(ctx, &models.Language{Name: "English"})
	require.NoError(t, err)

	err = svc.CreateLanguage(ctx, &models.Language{Name: "ENGLISH"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestDeleteLanguage_ClearsBookReferences(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	language := &models.Language{Name: "English"}
	require.NoError(t, svc.CreateLanguage(ctx, language))

	now := time.Now()
	book := &models.Book{
		CreatedAt:  now,
		UpdatedAt:  now,
		Title:      "A Wizard of Earthsea",
		ISBN:       "9780140304770",
		LanguageID: &language.ID,
	}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	count, err := svc.GetBookCount(ctx, language.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, svc.DeleteLanguage(ctx, language.ID))

	reloaded := &models.Book{}
	err = db.NewSelect().Model(reloaded).Where("b.id = ?", book.ID).Scan(ctx)
	require.NoError(t, err)
	assert.Nil(t, reloaded.LanguageID)

	_, err = svc.RetrieveLanguage(ctx, RetrieveLanguageOptions{ID: &language.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRetrieveLanguage_MatchesNameCaseInsensitively(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateLanguage(ctx, &models.Language{Name: "Farsi"}))

	name := "farsi"
	language, err := svc.RetrieveLanguage(ctx, RetrieveLanguageOptions{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Farsi", language.Name)
}
