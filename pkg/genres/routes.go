package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers genre routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	genreService := NewService(db)

	h := &handler{
		genreService: genreService,
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.GET("/:id/books", h.books)
	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
	g.PATCH("/:id", h.update, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
	g.DELETE("/:id", h.deleteGenre, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
}
