package models

// PageMeta is the pagination block returned alongside list responses.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewPageMeta(page, limit int, total int64) PageMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageMeta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Offset converts a 1-based page into a row offset.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
