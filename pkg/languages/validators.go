package languages

// CreateLanguagePayload represents the request body for creating a language.
type CreateLanguagePayload struct {
	Name string `json:"name" validate:"required,max=200"`
}

// UpdateLanguagePayload represents the request body for updating a language.
type UpdateLanguagePayload struct {
	Name *string `json:"name" validate:"omitempty,max=200"`
}

// ListLanguagesQuery represents the query parameters for listing languages.
type ListLanguagesQuery struct {
	Limit  int `query:"limit" default:"50"`
	Offset int `query:"offset" default:"0"`
}
