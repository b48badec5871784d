package search

import "math"

// Pagination is the page metadata returned alongside song listings
type Pagination struct {
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	Offset       int   `json:"offset"`
	HasPrevious  bool  `json:"has_previous"`
	HasNext      bool  `json:"has_next"`
}

// Offset returns the row offset of page (1-based) for the given page size.
// Pages too large to address saturate instead of overflowing.
func Offset(page, limit int) int {
	if limit < 1 {
		return 0
	}
	skipped := max(page, 1) - 1
	if skipped > math.MaxInt/limit {
		skipped = math.MaxInt / limit
	}
	return skipped * limit
}

// Paginate computes page metadata. The current page is clamped into
// [1, total pages] so an out-of-range request reports the last page.
func Paginate(total int64, limit, page int) Pagination {
	if limit < 1 {
		limit = 1
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	current := max(1, min(page, totalPages))

	return Pagination{
		TotalItems:   total,
		ItemsPerPage: limit,
		TotalPages:   totalPages,
		CurrentPage:  current,
		Offset:       Offset(current, limit),
		HasPrevious:  current > 1,
		HasNext:      current < totalPages,
	}
}
