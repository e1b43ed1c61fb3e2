package dto_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skybook/shared/constant"
	"skybook/shared/dto"
	"skybook/shared/model"
	"skybook/shared/timezone"
)

func TestMetadata_FromModel(t *testing.T) {
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	modified := created.Add(90 * time.Minute)

	var metadata dto.Metadata
	metadata.FromModel(model.Metadata{
		CreatedAt:  created,
		ModifiedAt: modified,
		CreatedBy:  "admin-1",
		ModifiedBy: "mgr-7",
	})

	assert.Equal(t, dto.Metadata{
		CreatedAt:  timezone.Format(created, constant.DateFormat),
		ModifiedAt: timezone.Format(modified, constant.DateFormat),
		CreatedBy:  "admin-1",
		ModifiedBy: "mgr-7",
	}, metadata)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        url.Values
		withDefaults bool
		want         dto.QueryParams
	}{
		{
			name:  "every parameter given",
			query: url.Values{"page": {"2"}, "limit": {"20"}, "sort_by": {"departure_time"}, "sort_dir": {"asc"}},
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "departure_time", SortDir: dto.SortDirAsc},
		},
		{
			name:         "defaults fill the gaps",
			query:        url.Values{"page": {"3"}, "sort_by": {"email"}},
			withDefaults: true,
			want:         dto.QueryParams{Page: 3, Limit: constant.DefaultValueLimit, SortBy: "email"},
		},
		{
			name:  "nothing given without defaults",
			query: url.Values{},
			want:  dto.QueryParams{},
		},
		{
			name:         "malformed numbers are ignored",
			query:        url.Values{"page": {"two"}, "limit": {"-5"}},
			withDefaults: true,
			want:         dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:         "zero page falls back",
			query:        url.Values{"page": {"0"}},
			withDefaults: true,
			want:         dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:  "limit is capped",
			query: url.Values{"limit": {"5000"}},
			want:  dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:  "unknown sort direction is dropped",
			query: url.Values{"sort_dir": {"sideways"}},
			want:  dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/flights/search?"+tt.query.Encode(), nil)

			var params dto.QueryParams
			params.FromRequest(req, tt.withDefaults)

			assert.Equal(t, tt.want, params)
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	tests := []struct {
		params dto.QueryParams
		want   int
	}{
		{params: dto.QueryParams{}, want: 0},
		{params: dto.QueryParams{Page: 1, Limit: 10}, want: 0},
		{params: dto.QueryParams{Page: 4, Limit: 25}, want: 75},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.params.Offset())
	}
}

func TestQueryParams_RestrictSort(t *testing.T) {
	tests := []struct {
		name   string
		params dto.QueryParams
		want   dto.QueryParams
	}{
		{
			name:   "allowed column keeps direction",
			params: dto.QueryParams{SortBy: "departure_time", SortDir: dto.SortDirAsc},
			want:   dto.QueryParams{SortBy: "departure_time", SortDir: dto.SortDirAsc},
		},
		{
			name:   "allowed column without direction",
			params: dto.QueryParams{SortBy: "departure_time"},
			want:   dto.QueryParams{SortBy: "departure_time", SortDir: dto.SortDirDesc},
		},
		{
			name:   "unknown column falls back",
			params: dto.QueryParams{SortBy: "id; DROP TABLE flights", SortDir: dto.SortDirAsc},
			want:   dto.QueryParams{SortBy: "created_at", SortDir: dto.SortDirDesc},
		},
		{
			name:   "empty column falls back",
			params: dto.QueryParams{},
			want:   dto.QueryParams{SortBy: "created_at", SortDir: dto.SortDirDesc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.params
			params.RestrictSort("created_at", "departure_time", "created_at")

			assert.Equal(t, tt.want, params)
		})
	}
}
