package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/pagination"
	"github.com/pkg/errors"
)

type handler struct {
	bookService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:      params.Title,
		Summary:    params.Summary,
		ISBN:       params.ISBN,
		AuthorID:   params.AuthorID,
		LanguageID: params.LanguageID,
	}
	if err := h.bookService.CreateBook(ctx, book, params.GenreIDs); err != nil {
		return err
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:               &book.ID,
		IncludeRelations: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:               &id,
		IncludeRelations: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit, offset := pagination.LimitOffset(params.Page, params.PageSize)
	books, total, err := h.bookService.ListBooksWithTotal(ctx, ListBooksOptions{
		Limit:         &limit,
		Offset:        &offset,
		TitleContains: params.TitleContains,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := struct {
		Books []*models.Book  `json:"books"`
		Meta  pagination.Meta `json:"meta"`
	}{books, pagination.NewMeta(params.Page, params.PageSize, total)}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateBookOptions{Columns: []string{}, GenreIDs: params.GenreIDs}

	if params.Title != nil && *params.Title != book.Title {
		book.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Summary != nil && *params.Summary != book.Summary {
		book.Summary = *params.Summary
		opts.Columns = append(opts.Columns, "summary")
	}
	if params.ISBN != nil && *params.ISBN != book.ISBN {
		book.ISBN = *params.ISBN
		opts.Columns = append(opts.Columns, "isbn")
	}
	if params.AuthorID != nil {
		book.AuthorID = params.AuthorID
		opts.Columns = append(opts.Columns, "author_id")
	}
	if params.LanguageID != nil {
		book.LanguageID = params.LanguageID
		opts.Columns = append(opts.Columns, "language_id")
	}

	err = h.bookService.UpdateBook(ctx, book, opts)
	if err != nil {
		return err
	}

	book, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:               &id,
		IncludeRelations: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	_, err = h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	err = h.bookService.DeleteBook(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
