package dto

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"skybook/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit, sort_by and sort_dir from the query string.
// Non-positive or malformed numbers are ignored and limit is capped at constant.MaxValueLimit.
// With withDefaults, an unset page or limit takes the package default.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	if page, ok := positiveInt(values, constant.RequestParamPage); ok {
		q.Page = page
	}

	if limit, ok := positiveInt(values, constant.RequestParamLimit); ok {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := values.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Offset is the row offset for the current page.
func (q *QueryParams) Offset() int {
	if q.Page <= 1 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

// RestrictSort drops a sort column that is not listed in allowed and falls back to fallback.
// SortBy is interpolated into the ORDER BY clause, so every handler must call this.
func (q *QueryParams) RestrictSort(fallback string, allowed ...string) {
	for _, col := range allowed {
		if q.SortBy == col {
			if q.SortDir == "" {
				q.SortDir = SortDirDesc
			}

			return
		}
	}

	q.SortBy = fallback
	q.SortDir = SortDirDesc
}

func positiveInt(values url.Values, key string) (int, bool) {
	raw := values.Get(key)
	if raw == "" {
		return 0, false
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}
