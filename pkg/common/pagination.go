package common

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageParams represents offset pagination parameters
type PageParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ParsePageParams extracts pagination parameters from the request.
// Non-numeric or negative values fall back to their defaults; limit is
// clamped to [1, MaxLimit]. The boundary is tolerant and never errors.
func ParsePageParams(r *http.Request) PageParams {
	params := PageParams{Page: DefaultPage, Limit: DefaultLimit}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p >= 1 {
			params.Page = p
		}
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l >= 1 {
			params.Limit = min(l, MaxLimit)
		}
	}

	return params
}

// Offset calculates the zero-based start index for the page
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageInfo contains offset pagination metadata
type PageInfo struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// BuildPageInfo builds pagination metadata for a filtered total
func BuildPageInfo(page, limit, total int) *PageInfo {
	totalPages := CalculateTotalPages(total, limit)

	return &PageInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// CalculateTotalPages calculates total number of pages
func CalculateTotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return pages
}

// PageSlice returns the window of items for the given page. Filtering
// must already have happened; this only slices.
func PageSlice[T any](items []T, p PageParams) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+p.Limit, len(items))
	return items[start:end]
}
