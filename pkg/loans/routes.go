package loans

import (
	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/copies"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the loan routes: renewal on the copies group and
// the borrowed listings on their own group.
func RegisterRoutes(e *echo.Echo, copiesGroup *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	loanService := NewService(db)

	h := &handler{
		loanService: loanService,
		copyService: copies.NewService(db),
	}

	copiesGroup.GET("/:id/renew", h.renewForm, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))
	copiesGroup.POST("/:id/renew", h.renew, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationRenew))

	loansGroup := e.Group("/loans")
	loansGroup.Use(authMiddleware.Authenticate)
	loansGroup.GET("/mine", h.mine)
	loansGroup.GET("/borrowed", h.borrowed, authMiddleware.RequirePermission(models.ResourceLoans, models.OperationReturn))

	return loanService
}
