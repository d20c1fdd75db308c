package authors

// CreateAuthorPayload represents the request body for creating an author.
type CreateAuthorPayload struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,date"`
	DateOfDeath string `json:"date_of_death" validate:"omitempty,date"`
}

// UpdateAuthorPayload represents the request body for updating an author.
// Date fields accept "" to clear the value.
type UpdateAuthorPayload struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,date"`
	DateOfDeath *string `json:"date_of_death" validate:"omitempty,date"`
}

// ListAuthorsQuery represents the query parameters for listing authors.
type ListAuthorsQuery struct {
	Page     int `query:"page" default:"1" validate:"gte=1"`
	PageSize int `query:"page_size" default:"10" validate:"gte=1,lte=100"`
}
