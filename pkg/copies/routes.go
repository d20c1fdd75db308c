package copies

import (
	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers copy routes on a pre-configured group.
// Renewal routes live in pkg/loans.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	copyService := NewService(db)

	h := &handler{
		copyService: copyService,
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
	g.PATCH("/:id", h.update, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
	g.DELETE("/:id", h.deleteCopy, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))

	// Desk transitions
	g.POST("/:id/checkout", h.checkout, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationReturn))
	g.POST("/:id/return", h.returnCopy, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationReturn))
}
