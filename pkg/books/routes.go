package books

import (
	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	bookService := NewService(db)

	h := &handler{
		bookService: bookService,
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
	g.PATCH("/:id", h.update, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
	g.DELETE("/:id", h.deleteBook, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
}
