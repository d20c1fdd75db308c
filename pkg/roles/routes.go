package roles

import (
	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all role routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	roleService := NewService(db)

	h := &handler{
		roleService: roleService,
	}

	roles := e.Group("/roles")
	roles.Use(authMiddleware.Authenticate)

	// Role listings back the user management screens, so they share the
	// users:read permission.
	roles.GET("", h.list, authMiddleware.RequirePermission(models.ResourceUsers, models.OperationRead))
	roles.GET("/:id", h.retrieve, authMiddleware.RequirePermission(models.ResourceUsers, models.OperationRead))

	return roleService
}
