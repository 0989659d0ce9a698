// AngelaMos | 2026
// request.go

package core

import (
	"net/http"
	"strconv"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ParsePagination reads page and limit query parameters, clamping both
// to sane bounds.
func ParsePagination(r *http.Request) (page, limit int) {
	page = 1
	limit = DefaultPageLimit

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	return page, limit
}
