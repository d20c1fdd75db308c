package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/sessions"
	"github.com/pkg/errors"
)

type handler struct {
	dashboardService *Service
	sessionService   *sessions.Service
}

// index serves the landing page data: catalog totals plus how many times
// this visitor has seen the page.
func (h *handler) index(c echo.Context) error {
	ctx := c.Request().Context()

	params := IndexQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := CountOptions{}
	if params.TitleContains != "" {
		opts.TitleContains = &params.TitleContains
	}

	counts, err := h.dashboardService.Count(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	session, err := h.sessionService.RecordVisit(ctx, sessions.VisitorID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, IndexResponse{
		Counts:    counts,
		NumVisits: session.NumVisits,
	}))
}
