// Package pagination normalizes page/offset style caller input into one
// canonical form and derives response paging metadata from it.
package pagination

import "strconv"

// Bounds for normalized pagination.
const (
	DefaultLimit = 10
	MinLimit     = 1
	MaxLimit     = 100
)

// Pagination is the canonical paging window. Offset is always derived from
// Page; when a caller supplies both, page wins.
type Pagination struct {
	Page   int `json:"page" msgpack:"page"`
	Limit  int `json:"limit" msgpack:"limit"`
	Offset int `json:"offset" msgpack:"offset"`
}

// Meta is the caller-facing paging envelope.
type Meta struct {
	Page       int  `json:"page" msgpack:"page"`
	Limit      int  `json:"limit" msgpack:"limit"`
	Offset     int  `json:"offset" msgpack:"offset"`
	Total      int  `json:"total" msgpack:"total"`
	TotalPages int  `json:"total_pages" msgpack:"total_pages"`
	HasNext    bool `json:"has_next" msgpack:"has_next"`
	HasPrev    bool `json:"has_prev" msgpack:"has_prev"`
}

// Normalize converts raw page/limit/offset query values into a canonical
// window. Limit is clamped to [1, 100] with a default of 10. A present page
// takes precedence over offset; an offset-only caller is snapped to the page
// boundary containing that offset. Non-numeric input falls back to defaults.
func Normalize(rawPage, rawLimit, rawOffset string) Pagination {
	limit := parseIntOrDefault(rawLimit, DefaultLimit)
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var page int
	switch {
	case rawPage != "":
		page = parseIntOrDefault(rawPage, 1)
		if page < 1 {
			page = 1
		}
	case rawOffset != "":
		offset := parseIntOrDefault(rawOffset, 0)
		if offset < 0 {
			offset = 0
		}
		page = offset/limit + 1
	default:
		page = 1
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// FromValues normalizes already-parsed integers. Zero means "not provided".
func FromValues(page, limit, offset int) Pagination {
	return Normalize(intOrEmpty(page), intOrEmpty(limit), intOrEmpty(offset))
}

// Meta derives the paging envelope for a given total match count.
func (p Pagination) Meta(total int) Meta {
	if total < 0 {
		total = 0
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Offset:     p.Offset,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1 && totalPages > 0,
	}
}

func parseIntOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func intOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
