// Package pagination converts page-number queries into limit/offset pairs
// and describes result pages in responses.
package pagination

// Meta describes one page of a listing.
type Meta struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
	IsPaginated bool `json:"is_paginated"`
}

// LimitOffset converts a 1-based page number into the limit/offset pair the
// services consume.
func LimitOffset(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}

// NewMeta builds the page metadata for a listing with the given total row
// count. IsPaginated is true whenever the listing spans more than one page.
func NewMeta(page, pageSize, total int) Meta {
	if page < 1 {
		page = 1
	}
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}
	return Meta{
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		TotalPages:  totalPages,
		IsPaginated: totalPages > 1,
	}
}
