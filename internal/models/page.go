package models

// Page is one page of a 1-indexed paginated listing.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"per_page"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
	HasPrev  bool  `json:"has_prev"`
	HasNext  bool  `json:"has_next"`
}

// NewPage fills in the derived pagination fields.
func NewPage[T any](items []T, page, pageSize int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Pages:    pages,
		HasPrev:  page > 1,
		HasNext:  page < pages,
	}
}
