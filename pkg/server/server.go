package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/authors"
	"github.com/openshelf/openshelf/pkg/binder"
	"github.com/openshelf/openshelf/pkg/books"
	"github.com/openshelf/openshelf/pkg/config"
	"github.com/openshelf/openshelf/pkg/copies"
	"github.com/openshelf/openshelf/pkg/dashboard"
	"github.com/openshelf/openshelf/pkg/errcodes"
	"github.com/openshelf/openshelf/pkg/genres"
	"github.com/openshelf/openshelf/pkg/languages"
	"github.com/openshelf/openshelf/pkg/loans"
	"github.com/openshelf/openshelf/pkg/roles"
	"github.com/openshelf/openshelf/pkg/testutils"
	"github.com/openshelf/openshelf/pkg/users"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	// Register auth routes and get the auth service
	authService := auth.RegisterRoutes(e, db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	// User and role management routes
	users.RegisterRoutes(e, db, authMiddleware)
	roles.RegisterRoutes(e, db, authMiddleware)

	// Catalog routes: reads are public, mutations carry their own permission
	// checks per route.
	registerCatalogRoutes(e, db, authMiddleware)

	// Landing page counters
	dashboard.RegisterRoutes(e, db)

	// Test-only endpoints for seeding and cleanup
	if os.Getenv("ENVIRONMENT") == "test" {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func registerCatalogRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	booksGroup := e.Group("/books")
	books.RegisterRoutesWithGroup(booksGroup, db, authMiddleware)

	authorsGroup := e.Group("/authors")
	authors.RegisterRoutesWithGroup(authorsGroup, db, authMiddleware)

	genresGroup := e.Group("/genres")
	genres.RegisterRoutesWithGroup(genresGroup, db, authMiddleware)

	languagesGroup := e.Group("/languages")
	languages.RegisterRoutesWithGroup(languagesGroup, db, authMiddleware)

	copiesGroup := e.Group("/copies")
	copies.RegisterRoutesWithGroup(copiesGroup, db, authMiddleware)

	// Renewal lives on the copies group, borrowed listings on /loans
	loans.RegisterRoutes(e, copiesGroup, db, authMiddleware)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
