package sessions

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/openshelf/openshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// CookieName is the anonymous visitor cookie. It carries no identity, just a
// random key for the per-visitor counters.
const CookieName = "openshelf_visitor"

const cookieMaxAge = 365 * 24 * time.Hour

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// RecordVisit bumps the visit counter for the given session, creating the row
// on first sight. The increment is a single upsert so concurrent requests
// never lose a count.
func (s *Service) RecordVisit(ctx context.Context, sessionID string) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		ID:        sessionID,
		CreatedAt: now,
		UpdatedAt: now,
		NumVisits: 1,
	}

	_, err := s.db.NewInsert().
		Model(session).
		On("CONFLICT (id) DO UPDATE").
		Set("num_visits = s.num_visits + 1").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return session, nil
}

// VisitorID returns the session key from the visitor cookie, minting a new
// one and setting the cookie when the request doesn't carry it yet.
func VisitorID(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
