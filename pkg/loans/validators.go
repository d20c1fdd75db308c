package loans

// RenewCopyPayload represents the request body for renewing a copy.
type RenewCopyPayload struct {
	RenewalDate string `json:"renewal_date" validate:"required,date"`
}

// ListBorrowedQuery represents the query parameters for the all-borrowed
// listing.
type ListBorrowedQuery struct {
	Page     int `query:"page" default:"1" validate:"gte=1"`
	PageSize int `query:"page_size" default:"20" validate:"gte=1,lte=100"`
}
