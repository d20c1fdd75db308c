package sessions

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/migrations"
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
	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestRecordVisit_CountsUpPerCall(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	id := uuid.NewString()

	session, err := svc.RecordVisit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, session.NumVisits)

	session, err = svc.RecordVisit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, session.NumVisits)

	session, err = svc.RecordVisit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, session.NumVisits)
}

func TestRecordVisit_SessionsAreIndependent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	first := uuid.NewString()
	second := uuid.NewString()

	_, err := svc.RecordVisit(ctx, first)
	require.NoError(t, err)
	_, err = svc.RecordVisit(ctx, first)
	require.NoError(t, err)

	session, err := svc.RecordVisit(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, session.NumVisits)
}

func TestVisitorID_MintsAndReusesCookie(t *testing.T) {
	t.Parallel()

	e := echo.New()

	// No cookie: a fresh ID is minted and set on the response
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	id := VisitorID(c)
	require.NotEmpty(t, id)

	var setCookie *http.Cookie
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == CookieName {
			setCookie = cookie
		}
	}
	require.NotNil(t, setCookie)
	assert.Equal(t, id, setCookie.Value)
	assert.True(t, setCookie.HttpOnly)

	// Existing cookie: the same ID comes back, nothing is reset
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: id})
	rr = httptest.NewRecorder()
	c = e.NewContext(req, rr)

	assert.Equal(t, id, VisitorID(c))
	assert.Empty(t, rr.Result().Cookies())
}
