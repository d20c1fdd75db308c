package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/binder"
	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, payload, method, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	res := rr.Result()
	defer res.Body.Close()
	for _, cookie := range res.Cookies() {
		if cookie.Name == CookieName {
			return cookie
		}
	}
	return nil
}

func TestHandler_Setup_CreatesFirstAdmin(t *testing.T) {
	t.Parallel()

	db := setupMiddlewareDB(t)
	svc := NewService(db, "test-jwt-secret")
	h := &handler{authService: svc}

	payload := `{"username":"admin","password":"securepassword123"}`
	c, rr := newTestContext(t, payload, http.MethodPost, "/auth/setup")

	err := h.setup(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp MeResponse
	err = json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Username)
	assert.Equal(t, models.RoleAdmin, resp.RoleName)
	assert.Contains(t, resp.Permissions, models.ResourceUsers+":"+models.OperationWrite)

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestHandler_Setup_RejectsWhenUsersExist(t *testing.T) {
	t.Parallel()

	db := setupMiddlewareDB(t)
	svc := NewService(db, "test-jwt-secret")
	h := &handler{authService: svc}

	createTestUser(context.Background(), t, db, models.RoleAdmin, true)

	payload := `{"username":"newadmin","password":"securepassword123"}`
	c, _ := newTestContext(t, payload, http.MethodPost, "/auth/setup")

	err := h.setup(c)
	require.Error(t, err)

	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusForbidden, errResp.HTTPCode)
	assert.Contains(t, errResp.Message, "Setup has already been completed")
}

func TestHandler_Login_ReturnsUserAndSetsCookie(t *testing.T) {
	t.Parallel()

	db := setupMiddlewareDB(t)
	svc := NewService(db, "test-jwt-secret")
	h := &handler{authService: svc}
	ctx := context.Background()

	hashedPassword, err := HashPassword("securepassword123")
	require.NoError(t, err)

	role := new(models.Role)
	err = db.NewSelect().Model(role).Where("name = ?", models.RoleMember).Scan(ctx)
	require.NoError(t, err)

	user := &models.User{
		Username:     "reader",
		PasswordHash: hashedPassword,
		RoleID:       role.ID,
		IsActive:     true,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	payload := `{"username":"reader","password":"securepassword123"}`
	c, rr := newTestContext(t, payload, http.MethodPost, "/auth/login")

	err = h.login(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp MeResponse
	err = json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "reader", resp.Username)
	assert.Equal(t, models.RoleMember, resp.RoleName)

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)

	// The cookie value should be a valid token for the user
	claims, err := svc.ValidateToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestHandler_Login_RejectsWrongPassword(t *testing.T) {
	t.Parallel()

	db := setupMiddlewareDB(t)
	svc := NewService(db, "test-jwt-secret")
	h := &handler{authService: svc}
	ctx := context.Background()

	hashedPassword, err := HashPassword("securepassword123")
	require.NoError(t, err)

	role := new(models.Role)
	err = db.NewSelect().Model(role).Where("name = ?", models.RoleMember).Scan(ctx)
	require.NoError(t, err)

	user := &models.User{
		Username:     "reader",
		PasswordHash: hashedPassword,
		RoleID:       role.ID,
		IsActive:     true,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	payload := `{"username":"reader","password":"wrongpassword1"}`
	c, _ := newTestContext(t, payload, http.MethodPost, "/auth/login")

	err = h.login(c)
	require.Error(t, err)

	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusUnauthorized, errResp.HTTPCode)
}

func TestHandler_Status_ReflectsNeedsSetup(t *testing.T) {
	t.Parallel()

	db := setupMiddlewareDB(t)
	svc := NewService(db, "test-jwt-secret")
	h := &handler{authService: svc}

	c, rr := newTestContext(t, "", http.MethodGet, "/auth/status")
	err := h.status(c)
	require.NoError(t, err)

	var resp StatusResponse
	err = json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.True(t, resp.NeedsSetup)

	createTestUser(context.Background(), t, db, models.RoleAdmin, true)

	c, rr = newTestContext(t, "", http.MethodGet, "/auth/status")
	err = h.status(c)
	require.NoError(t, err)

	err = json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.False(t, resp.NeedsSetup)
}

func TestHandler_Logout_ClearsCookie(t *testing.T) {
	t.Parallel()

	db := setupMiddlewareDB(t)
	svc := NewService(db, "test-jwt-secret")
	h := &handler{authService: svc}

	c, rr := newTestContext(t, "", http.MethodPost, "/auth/logout")
	err := h.logout(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
