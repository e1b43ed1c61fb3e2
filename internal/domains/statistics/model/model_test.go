package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skybook/internal/domains/statistics/model"
)

func TestWindowFor(t *testing.T) {
	now := time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		period   string
		wantFrom *time.Time
		wantTo   *time.Time
		wantErr  bool
	}{
		{
			name:     "today spans the calendar day",
			period:   model.PeriodToday,
			wantFrom: ptr(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)),
			wantTo:   ptr(time.Date(2026, 10, 15, 23, 59, 59, 999999000, time.UTC)),
		},
		{
			name:     "week is the trailing seven days",
			period:   model.PeriodWeek,
			wantFrom: ptr(time.Date(2026, 10, 8, 14, 30, 0, 0, time.UTC)),
			wantTo:   ptr(now),
		},
		{
			name:     "month is the trailing thirty days",
			period:   model.PeriodMonth,
			wantFrom: ptr(time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)),
			wantTo:   ptr(now),
		},
		{
			name:   "all is unbounded",
			period: model.PeriodAll,
		},
		{
			name:    "unknown period",
			period:  "year",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := model.WindowFor(tt.period, now)

			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrUnknownPeriod)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantFrom, window.From)
			assert.Equal(t, tt.wantTo, window.To)
		})
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}
