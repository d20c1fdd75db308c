package loans

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/copies"
	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/pagination"
	"github.com/pkg/errors"
)

type handler struct {
	loanService *Service
	copyService *copies.Service
}

// renewForm returns the copy and the proposed default renewal date, the data
// a renewal form needs.
func (h *handler) renewForm(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	copyRecord, err := h.copyService.RetrieveCopy(ctx, copies.RetrieveCopyOptions{
		ID:               &id,
		IncludeRelations: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := struct {
		Copy         *models.Copy `json:"copy"`
		ProposedDate string       `json:"proposed_renewal_date"`
	}{copyRecord, ProposedRenewalDate(time.Now()).Format("2006-01-02")}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) renew(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := RenewCopyPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	renewalDate, err := time.Parse("2006-01-02", params.RenewalDate)
	if err != nil {
		return errcodes.ValidationError("Invalid renewal date: " + params.RenewalDate)
	}

	copyRecord, err := h.loanService.RenewCopy(ctx, id, renewalDate, time.Now())
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, copyRecord))
}

// mine lists the calling user's borrowed copies.
func (h *handler) mine(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	borrowed, err := h.loanService.ListBorrowedByUser(ctx, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	response := struct {
		Copies []*models.Copy `json:"copies"`
	}{borrowed}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

// borrowed lists every on-loan copy for desk staff.
func (h *handler) borrowed(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBorrowedQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit, offset := pagination.LimitOffset(params.Page, params.PageSize)
	borrowed, total, err := h.loanService.ListAllOnLoan(ctx, ListAllOnLoanOptions{
		Limit:  &limit,
		Offset: &offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := struct {
		Copies []*models.Copy  `json:"copies"`
		Meta   pagination.Meta `json:"meta"`
	}{borrowed, pagination.NewMeta(params.Page, params.PageSize, total)}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}
