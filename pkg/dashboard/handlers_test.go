package dashboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/binder"
	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/migrations"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestServer(t *testing.T) (*echo.Echo, *bun.DB) {
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

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutes(e, db)

	return e, db
}

func seedCatalog(ctx context.Context, t *testing.T, db *bun.DB) {
	t.Helper()

	now := time.Now()
	author := &models.Author{CreatedAt: now, UpdatedAt: now, FirstName: "Ursula", LastName: "Le Guin"}
	_, err := db.NewInsert().Model(author).Exec(ctx)
	require.NoError(t, err)

	genre := &models.Genre{CreatedAt: now, UpdatedAt: now, Name: "Fantasy"}
	_, err = db.NewInsert().Model(genre).Exec(ctx)
	require.NoError(t, err)

	books := []*models.Book{
		{CreatedAt: now, UpdatedAt: now, Title: "A Wizard of Earthsea", ISBN: "9780140304770", AuthorID: &author.ID},
		{CreatedAt: now, UpdatedAt: now, Title: "The Tombs of Atuan", ISBN: "9780140305333", AuthorID: &author.ID},
	}
	_, err = db.NewInsert().Model(&books).Exec(ctx)
	require.NoError(t, err)

	available := models.NewCopy(books[0].ID)
	available.Status = models.StatusAvailable
	onLoan := models.NewCopy(books[1].ID)
	onLoan.Status = models.StatusOnLoan
	copies := []*models.Copy{available, onLoan}
	_, err = db.NewInsert().Model(&copies).Exec(ctx)
	require.NoError(t, err)
}

func getIndex(t *testing.T, e *echo.Echo, path string, cookies []*http.Cookie) (*httptest.ResponseRecorder, IndexResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)

	var resp IndexResponse
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr, resp
}

func TestIndex_ReportsCatalogCounts(t *testing.T) {
	t.Parallel()

	e, db := setupTestServer(t)
	seedCatalog(context.Background(), t, db)

	_, resp := getIndex(t, e, "/", nil)
	assert.Equal(t, 2, resp.Books)
	assert.Equal(t, 2, resp.Copies)
	assert.Equal(t, 1, resp.AvailableCopies)
	assert.Equal(t, 1, resp.Authors)
	assert.Equal(t, 1, resp.Genres)
	assert.Nil(t, resp.TitleMatches)
}

func TestIndex_TitleFilterIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	e, db := setupTestServer(t)
	seedCatalog(context.Background(), t, db)

	_, resp := getIndex(t, e, "/?title_contains=WIZARD", nil)
	require.NotNil(t, resp.TitleMatches)
	assert.Equal(t, 1, *resp.TitleMatches)

	_, resp = getIndex(t, e, "/?title_contains=zzz", nil)
	require.NotNil(t, resp.TitleMatches)
	assert.Equal(t, 0, *resp.TitleMatches)
}

func TestIndex_CountsVisitsPerVisitor(t *testing.T) {
	t.Parallel()

	e, _ := setupTestServer(t)

	// First visit mints the cookie and starts at 1
	rr, resp := getIndex(t, e, "/", nil)
	assert.Equal(t, 1, resp.NumVisits)

	var visitorCookie *http.Cookie
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessions.CookieName {
			visitorCookie = cookie
		}
	}
	require.NotNil(t, visitorCookie)

	// Returning with the cookie increments, exactly once per request
	_, resp = getIndex(t, e, "/", []*http.Cookie{visitorCookie})
	assert.Equal(t, 2, resp.NumVisits)

	_, resp = getIndex(t, e, "/", []*http.Cookie{visitorCookie})
	assert.Equal(t, 3, resp.NumVisits)

	// A different visitor starts over
	_, resp = getIndex(t, e, "/", nil)
	assert.Equal(t, 1, resp.NumVisits)
}
