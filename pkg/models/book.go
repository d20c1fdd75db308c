package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Title      string    `bun:",nullzero" json:"title"`
	Summary    string    `json:"summary"`
	ISBN       string    `bun:"isbn" json:"isbn"`
	AuthorID   *int      `json:"author_id"`
	LanguageID *int      `json:"language_id"`

	// Relations
	Author   *Author   `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	Language *Language `bun:"rel:belongs-to,join:language_id=id" json:"language,omitempty"`
	Genres   []*Genre  `bun:"m2m:book_genres,join:Book=Genre" json:"genres,omitempty"`
	Copies   []*Copy   `bun:"rel:has-many,join:id=book_id" json:"copies,omitempty"`
}

// DisplayGenre joins the first three genre names for compact listings.
func (b *Book) DisplayGenre() string {
	names := make([]string, 0, 3)
	for _, g := range b.Genres {
		names = append(names, g.Name)
		if len(names) == 3 {
			break
		}
	}
	return strings.Join(names, ", ")
}

// BookGenre is the books<->genres join table.
type BookGenre struct {
	bun.BaseModel `bun:"table:book_genres,alias:bg"`

	BookID  int    `bun:",pk" json:"book_id"`
	Book    *Book  `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	GenreID int    `bun:",pk" json:"genre_id"`
	Genre   *Genre `bun:"rel:belongs-to,join:genre_id=id" json:"-"`
}
