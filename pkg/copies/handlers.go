package copies

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/pkg/errors"
)

type handler struct {
	copyService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateCopyPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	copyRecord, err := h.copyService.CreateCopy(ctx, params.BookID, params.Imprint, params.Status)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, copyRecord))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	copyRecord, err := h.copyService.RetrieveCopy(ctx, RetrieveCopyOptions{
		ID:               &id,
		IncludeRelations: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, copyRecord))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListCopiesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	copies, total, err := h.copyService.ListCopiesWithTotal(ctx, ListCopiesOptions{
		Limit:      params.Limit,
		Offset:     params.Offset,
		BookID:     params.BookID,
		Status:     params.Status,
		BorrowerID: params.BorrowerID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"copies": copies,
		"total":  total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := UpdateCopyPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	copyRecord, err := h.copyService.RetrieveCopy(ctx, RetrieveCopyOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateCopyOptions{Columns: []string{}}

	if params.Imprint != nil && *params.Imprint != copyRecord.Imprint {
		copyRecord.Imprint = *params.Imprint
		opts.Columns = append(opts.Columns, "imprint")
	}
	if params.Status != nil && *params.Status != copyRecord.Status {
		copyRecord.Status = *params.Status
		opts.Columns = append(opts.Columns, "status")
	}

	err = h.copyService.UpdateCopy(ctx, copyRecord, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, copyRecord))
}

func (h *handler) deleteCopy(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	_, err := h.copyService.RetrieveCopy(ctx, RetrieveCopyOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	err = h.copyService.DeleteCopy(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) checkout(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := CheckoutPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	dueBack, err := time.Parse("2006-01-02", params.DueBack)
	if err != nil {
		return errcodes.ValidationError("Invalid due date: " + params.DueBack)
	}

	copyRecord, err := h.copyService.Checkout(ctx, id, params.BorrowerID, dueBack)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, copyRecord))
}

func (h *handler) returnCopy(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	copyRecord, err := h.copyService.Return(ctx, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, copyRecord))
}
