package genres

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

func createBookWithGenre(ctx context.Context, t *testing.T, db *bun.DB, title string, genreID int) *models.Book {
	t.Helper()

	now := time.Now()
	book := &models.Book{CreatedAt: now, UpdatedAt: now, Title: title, ISBN: "9780000000000"}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	link := &models.BookGenre{BookID: book.ID, GenreID: genreID}
	_, err = db.NewInsert().Model(link).Exec(ctx)
	require.NoError(t, err)
	return book
}

func TestCreateGenre_RejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	err := svc.CreateGenre(ctx, &models.Genre{Name: "Fantasy"})
	require.NoError(t, err)

	// Case-insensitive duplicates are rejected too
	err = svc.CreateGenre(ctx, &models.Genre{Name: "  fantasy "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	err = svc.CreateGenre(ctx, &models.Genre{Name: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestListGenres_OrdersByName(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, name := range []string{"Poetry", "Fantasy", "History"} {
		require.NoError(t, svc.CreateGenre(ctx, &models.Genre{Name: name}))
	}

	genres, err := svc.ListGenres(ctx, ListGenresOptions{})
	require.NoError(t, err)
	require.Len(t, genres, 3)
	assert.Equal(t, "Fantasy", genres[0].Name)
	assert.Equal(t, "History", genres[1].Name)
	assert.Equal(t, "Poetry", genres[2].Name)
}

func TestDeleteGenre_RemovesBookLinks(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := &models.Genre{Name: "Fantasy"}
	require.NoError(t, svc.CreateGenre(ctx, genre))

	book := createBookWithGenre(ctx, t, db, "A Wizard of Earthsea", genre.ID)

	count, err := svc.GetBookCount(ctx, genre.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, svc.DeleteGenre(ctx, genre.ID))

	_, err = svc.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &genre.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// The book survives, only the link is gone
	links, err := db.NewSelect().Model((*models.BookGenre)(nil)).Where("book_id = ?", book.ID).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, links)

	exists, err := db.NewSelect().Model((*models.Book)(nil)).Where("id = ?", book.ID).Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetBooks_OrdersByTitle(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := &models.Genre{Name: "Fantasy"}
	require.NoError(t, svc.CreateGenre(ctx, genre))
	other := &models.Genre{Name: "History"}
	require.NoError(t, svc.CreateGenre(ctx, other))

	createBookWithGenre(ctx, t, db, "The Tombs of Atuan", genre.ID)
	createBookWithGenre(ctx, t, db, "A Wizard of Earthsea", genre.ID)
	createBookWithGenre(ctx, t, db, "SPQR", other.ID)

	books, err := svc.GetBooks(ctx, genre.ID)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "A Wizard of Earthsea", books[0].Title)
	assert.Equal(t, "The Tombs of Atuan", books[1].Title)
}
