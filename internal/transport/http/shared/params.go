package shared

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
)

// PathID reads a positive integer id from the named route parameter.
func PathID(r *http.Request, name string) (int64, bool) {
	return auth.NormalizeID(strings.TrimSpace(chi.URLParam(r, name)))
}

// QueryID reads an optional positive id from the query string. ok is false
// only when a value is present and malformed.
func QueryID(r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, true
	}
	return auth.NormalizeID(raw)
}

type Page struct {
	Limit  int
	Offset int
}

// Page reads limit and offset. Malformed values are recorded as issues; a
// limit above maxLimit is clamped.
func (v *Validator) Page(r *http.Request, defaultLimit, maxLimit int) Page {
	page := Page{Limit: defaultLimit}
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			v.Add("limit", "must be a positive integer")
		} else {
			page.Limit = n
		}
	}
	if raw := strings.TrimSpace(q.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			v.Add("offset", "must not be negative")
		} else {
			page.Offset = n
		}
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}
