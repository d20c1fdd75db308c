package genres

// CreateGenrePayload represents the request body for creating a genre.
type CreateGenrePayload struct {
	Name string `json:"name" validate:"required,max=200"`
}

// UpdateGenrePayload represents the request body for updating a genre.
type UpdateGenrePayload struct {
	Name *string `json:"name" validate:"omitempty,max=200"`
}

// ListGenresQuery represents the query parameters for listing genres.
type ListGenresQuery struct {
	Limit  int `query:"limit" default:"50"`
	Offset int `query:"offset" default:"0"`
}
