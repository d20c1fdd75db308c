package dashboard

import (
	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/sessions"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB) *Service {
	dashboardService := NewService(db)

	h := &handler{
		dashboardService: dashboardService,
		sessionService:   sessions.NewService(db),
	}

	e.GET("/", h.index)

	return dashboardService
}
