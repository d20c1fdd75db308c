package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session tracks a browser session by the UUID in the visitor cookie. The
// only state kept server-side is the dashboard visit counter.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:",pk" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	NumVisits int       `json:"num_visits"`
}
