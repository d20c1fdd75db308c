package languages

import (
	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers language routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	languageService := NewService(db)

	h := &handler{
		languageService: languageService,
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
	g.PATCH("/:id", h.update, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
	g.DELETE("/:id", h.deleteLanguage, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
}
