package httpx

import (
	"net/http"
	"strconv"
)

// PageLimits bounds the per_page query parameter.
type PageLimits struct {
	Default int64
	Min     int64
	Max     int64
}

// DefaultPageLimits matches the configured defaults for list endpoints.
var DefaultPageLimits = PageLimits{Default: 15, Min: 1, Max: 100}

// PageParams is a validated, clamped page request.
type PageParams struct {
	Page    int64
	PerPage int64
}

// ParsePageParams reads `page` and `per_page` from the query string. Missing
// or malformed values fall back to defaults; out-of-range values are clamped,
// never rejected.
func ParsePageParams(r *http.Request, limits PageLimits) PageParams {
	p := PageParams{Page: 1, PerPage: limits.Default}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			p.Page = v
		}
	}

	if raw := r.URL.Query().Get("per_page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			p.PerPage = min(max(v, limits.Min), limits.Max)
		}
	}

	return p
}

// LimitOffset converts the page request into SQL LIMIT/OFFSET terms.
func (p PageParams) LimitOffset() (limit, offset int64) {
	return p.PerPage, (p.Page - 1) * p.PerPage
}

// PageMeta is the pagination metadata block attached to list responses.
// From/To are 1-based item indexes over the whole result set; both are zero
// on an empty page.
type PageMeta struct {
	CurrentPage  int64 `json:"current_page"`
	LastPage     int64 `json:"last_page"`
	PerPage      int64 `json:"per_page"`
	Total        int64 `json:"total"`
	From         int64 `json:"from"`
	To           int64 `json:"to"`
	HasMorePages bool  `json:"has_more_pages"`
}

// NewPageMeta derives the metadata block for a page request against a result
// set of the given total size.
func NewPageMeta(p PageParams, total int64) PageMeta {
	lastPage := total / p.PerPage
	if total%p.PerPage != 0 || lastPage == 0 {
		lastPage++
	}

	meta := PageMeta{
		CurrentPage:  p.Page,
		LastPage:     lastPage,
		PerPage:      p.PerPage,
		Total:        total,
		HasMorePages: p.Page < lastPage,
	}

	offset := (p.Page - 1) * p.PerPage
	if offset < total {
		meta.From = offset + 1
		meta.To = min(offset+p.PerPage, total)
	}

	return meta
}
