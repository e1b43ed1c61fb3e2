package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"skybook/config"
	"skybook/infras/otel/mocks"
	statsMocks "skybook/internal/domains/statistics/mocks"
	"skybook/internal/domains/statistics/model"
	"skybook/internal/domains/statistics/model/dto"
	"skybook/internal/domains/statistics/service"
	"skybook/shared"
	cacheMocks "skybook/shared/cache/mocks"
	"skybook/shared/constant"
	"skybook/shared/failure"
)

const airlineID = "0b6f5bb4-65f4-4c43-a0d4-3a7a3c1e2f01"

func TestStatisticsService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := statsMocks.NewMockStatistics(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 300

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	actor := func(role, airline string) context.Context {
		return shared.WithActor(context.Background(), shared.Actor{UserID: "staff-1", Role: role, AirlineID: airline})
	}

	flights := model.FlightStatistics{TotalFlights: 10, ActiveFlights: 6, CompletedFlights: 4}
	bookings := model.BookingStatistics{
		TotalBookings:     5,
		TotalRevenue:      1234.567,
		ConfirmedBookings: 3,
		CancelledBookings: 1,
		RefundedBookings:  1,
	}

	tests := []struct {
		name      string
		ctx       context.Context
		period    string
		setupMock func()
		want      dto.StatisticsResponse
		wantCode  int
	}{
		{
			name:   "admin sees every airline",
			ctx:    actor(constant.RoleAdmin, ""),
			period: model.PeriodWeek,
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "statistics:week:all", gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Flights(gomock.Any(), "", gomock.Any()).Return(flights, nil)
				mockRepo.EXPECT().
					Bookings(gomock.Any(), "", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, window model.Window) (model.BookingStatistics, error) {
						assert.NotNil(t, window.From)
						assert.NotNil(t, window.To)

						return bookings, nil
					})
				mockCache.EXPECT().Save(gomock.Any(), "statistics:week:all", gomock.Any(), 300).Return(nil)
			},
			want: dto.StatisticsResponse{
				Period:            model.PeriodWeek,
				TotalFlights:      10,
				ActiveFlights:     6,
				CompletedFlights:  4,
				TotalBookings:     5,
				TotalPassengers:   5,
				TotalRevenue:      1234.57,
				ConfirmedBookings: 3,
				CancelledBookings: 1,
				RefundedBookings:  1,
			},
		},
		{
			name:   "manager is scoped to own airline",
			ctx:    actor(constant.RoleManager, airlineID),
			period: "",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "statistics:all:"+airlineID, gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Flights(gomock.Any(), airlineID, gomock.Any()).Return(flights, nil)
				mockRepo.EXPECT().Bookings(gomock.Any(), airlineID, model.Window{}).Return(bookings, nil)
				mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			want: dto.StatisticsResponse{
				Period:            model.PeriodAll,
				AirlineID:         airlineID,
				TotalFlights:      10,
				ActiveFlights:     6,
				CompletedFlights:  4,
				TotalBookings:     5,
				TotalPassengers:   5,
				TotalRevenue:      1234.57,
				ConfirmedBookings: 3,
				CancelledBookings: 1,
				RefundedBookings:  1,
			},
		},
		{
			name:   "served from cache",
			ctx:    actor(constant.RoleAdmin, ""),
			period: model.PeriodToday,
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), "statistics:today:all", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						res, _ := value.(*dto.StatisticsResponse)
						res.Period = model.PeriodToday
						res.TotalFlights = 99

						return nil
					})
			},
			want: dto.StatisticsResponse{Period: model.PeriodToday, TotalFlights: 99},
		},
		{
			name:      "unknown period",
			ctx:       actor(constant.RoleAdmin, ""),
			period:    "decade",
			setupMock: func() {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "manager without airline",
			ctx:       actor(constant.RoleManager, ""),
			period:    model.PeriodAll,
			setupMock: func() {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "traveller",
			ctx:       actor(constant.RoleUser, ""),
			period:    model.PeriodAll,
			setupMock: func() {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:   "repository failure",
			ctx:    actor(constant.RoleAdmin, ""),
			period: model.PeriodMonth,
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Flights(gomock.Any(), "", gomock.Any()).Return(model.FlightStatistics{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(tt.ctx, tt.period)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}
