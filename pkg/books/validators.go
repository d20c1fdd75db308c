package books

// CreateBookPayload represents the request body for creating a book.
type CreateBookPayload struct {
	Title      string `json:"title" validate:"required,max=200"`
	Summary    string `json:"summary" validate:"max=1000"`
	ISBN       string `json:"isbn" validate:"required,min=10,max=13"`
	AuthorID   *int   `json:"author_id"`
	LanguageID *int   `json:"language_id"`
	GenreIDs   []int  `json:"genre_ids"`
}

// UpdateBookPayload represents the request body for updating a book.
type UpdateBookPayload struct {
	Title      *string `json:"title" validate:"omitempty,max=200"`
	Summary    *string `json:"summary" validate:"omitempty,max=1000"`
	ISBN       *string `json:"isbn" validate:"omitempty,min=10,max=13"`
	AuthorID   *int    `json:"author_id"`
	LanguageID *int    `json:"language_id"`
	GenreIDs   *[]int  `json:"genre_ids"`
}

// ListBooksQuery represents the query parameters for listing books.
type ListBooksQuery struct {
	Page          int     `query:"page" default:"1" validate:"gte=1"`
	PageSize      int     `query:"page_size" default:"20" validate:"gte=1,lte=100"`
	TitleContains *string `query:"title_contains"`
}
