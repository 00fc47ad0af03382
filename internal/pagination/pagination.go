// Package pagination turns page/limit query parameters into bounded
// offset/limit pairs and builds the metadata returned next to a page.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit caps a single page so no request can ask for an unbounded result set.
	MaxLimit = 100
	// MaxPage keeps page*MaxLimit inside int.
	MaxPage = math.MaxInt / MaxLimit
)

// Params is a normalized page request.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Meta describes where a page sits in the full result set.
type Meta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Parse normalizes raw query-string values. Blank or non-numeric input
// falls back to the defaults; it never fails.
func Parse(page, limit string) Params {
	return Normalize(atoiOr(page, DefaultPage), atoiOr(limit, DefaultLimit))
}

// Normalize clamps already typed values: 1 <= page <= MaxPage, 1 <= limit <= MaxLimit.
func Normalize(page, limit int) Params {
	page = min(max(page, 1), MaxPage)
	limit = min(max(limit, 1), MaxLimit)

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Calculate builds response metadata for a page of a result set of size total.
func Calculate(page, limit, total int) Meta {
	p := Normalize(page, limit)
	total = max(total, 0)

	return Meta{
		Page:        p.Page,
		Limit:       p.Limit,
		Total:       total,
		TotalPages:  (total + p.Limit - 1) / p.Limit,
		HasNextPage: p.Page*p.Limit < total,
		HasPrevPage: p.Page > 1,
	}
}

func atoiOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}
