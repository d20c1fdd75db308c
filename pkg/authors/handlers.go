package authors

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/pagination"
	"github.com/pkg/errors"
)

type handler struct {
	authorService *Service
}

// parseDate parses a validated YYYY-MM-DD string into midnight UTC. Empty
// strings clear the value.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, errcodes.ValidationError("Invalid date: " + s)
	}
	return &t, nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	dob, err := parseDate(params.DateOfBirth)
	if err != nil {
		return err
	}
	dod, err := parseDate(params.DateOfDeath)
	if err != nil {
		return err
	}

	author := &models.Author{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		DateOfBirth: dob,
		DateOfDeath: dod,
	}
	if err := h.authorService.CreateAuthor(ctx, author); err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, author))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Detail pages show the author's books alongside the author
	books, err := h.authorService.GetBooks(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	response := struct {
		*models.Author
		Books []*models.Book `json:"books"`
	}{author, books}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListAuthorsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit, offset := pagination.LimitOffset(params.Page, params.PageSize)
	authors, total, err := h.authorService.ListAuthorsWithTotal(ctx, ListAuthorsOptions{
		Limit:  &limit,
		Offset: &offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := struct {
		Authors []*models.Author `json:"authors"`
		Meta    pagination.Meta  `json:"meta"`
	}{authors, pagination.NewMeta(params.Page, params.PageSize, total)}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	params := UpdateAuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateAuthorOptions{Columns: []string{}}

	if params.FirstName != nil && *params.FirstName != author.FirstName {
		author.FirstName = *params.FirstName
		opts.Columns = append(opts.Columns, "first_name")
	}
	if params.LastName != nil && *params.LastName != author.LastName {
		author.LastName = *params.LastName
		opts.Columns = append(opts.Columns, "last_name")
	}
	if params.DateOfBirth != nil {
		dob, err := parseDate(*params.DateOfBirth)
		if err != nil {
			return err
		}
		author.DateOfBirth = dob
		opts.Columns = append(opts.Columns, "date_of_birth")
	}
	if params.DateOfDeath != nil {
		dod, err := parseDate(*params.DateOfDeath)
		if err != nil {
			return err
		}
		author.DateOfDeath = dod
		opts.Columns = append(opts.Columns, "date_of_death")
	}

	err = h.authorService.UpdateAuthor(ctx, author, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, author))
}

func (h *handler) books(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	_, err = h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	books, err := h.authorService.GetBooks(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, books))
}

func (h *handler) deleteAuthor(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	_, err = h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	err = h.authorService.DeleteAuthor(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
