package testutils

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

// createUserRequest is the request body for creating a test user.
type createUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
}

// createUserResponse is the response body for creating a test user.
type createUserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// createUser creates a test user. Defaults to the admin role.
// POST /test/users.
func (h *handler) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	roleName := req.Role
	if roleName == "" {
		roleName = models.RoleAdmin
	}

	role := &models.Role{}
	err := h.db.NewSelect().
		Model(role).
		Where("name = ?", roleName).
		Scan(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get role")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	now := time.Now()
	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		RoleID:       role.ID,
		IsActive:     true,
	}

	_, err = h.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}

	return c.JSON(http.StatusCreated, createUserResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// deleteAllUsersResponse is the response body for deleting all users.
type deleteAllUsersResponse struct {
	Deleted int `json:"deleted"`
}

// deleteAllUsers deletes all users from the database.
// DELETE /test/users.
func (h *handler) deleteAllUsers(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.db.NewDelete().
		Model((*models.User)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete users")
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}

	return c.JSON(http.StatusOK, deleteAllUsersResponse{Deleted: int(deleted)})
}

// createAuthorRequest is the request body for creating a test author.
type createAuthorRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// createAuthor creates a test author.
// POST /test/authors.
func (h *handler) createAuthor(c echo.Context) error {
	ctx := c.Request().Context()

	var req createAuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	now := time.Now()
	author := &models.Author{
		CreatedAt: now,
		UpdatedAt: now,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	_, err := h.db.NewInsert().Model(author).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create author")
	}

	return c.JSON(http.StatusCreated, author)
}

// createBookRequest is the request body for creating a test book.
type createBookRequest struct {
	Title    string `json:"title" validate:"required"`
	Summary  string `json:"summary"`
	ISBN     string `json:"isbn"`
	AuthorID *int   `json:"author_id"`
	Copies   int    `json:"copies"`
}

// createBook creates a test book, optionally with available copies.
// POST /test/books.
func (h *handler) createBook(c echo.Context) error {
	ctx := c.Request().Context()

	var req createBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	now := time.Now()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     req.Title,
		Summary:   req.Summary,
		ISBN:      req.ISBN,
		AuthorID:  req.AuthorID,
	}
	_, err := h.db.NewInsert().Model(book).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create book")
	}

	for i := 0; i < req.Copies; i++ {
		copyRecord := models.NewCopy(book.ID)
		copyRecord.Status = models.StatusAvailable
		_, err = h.db.NewInsert().Model(copyRecord).Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to create copy")
		}
	}

	return c.JSON(http.StatusCreated, book)
}

// deleteAllCatalogDataResponse is the response body for clearing catalog data.
type deleteAllCatalogDataResponse struct {
	Deleted bool `json:"deleted"`
}

// deleteAllCatalogData deletes all catalog data (copies, book genre links,
// books, authors, genres, languages).
// DELETE /test/catalog.
func (h *handler) deleteAllCatalogData(c echo.Context) error {
	ctx := c.Request().Context()

	tables := []string{"copies", "book_genres", "books", "authors", "genres", "languages"}
	for _, table := range tables {
		_, err := h.db.NewDelete().
			Table(table).
			Where("1 = 1").
			Exec(ctx)
		if err != nil {
			return errors.Wrapf(err, "failed to clear %s", table)
		}
	}

	return c.JSON(http.StatusOK, deleteAllCatalogDataResponse{Deleted: true})
}
