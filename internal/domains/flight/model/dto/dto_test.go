package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	bookingModel "skybook/internal/domains/booking/model"
	"skybook/internal/domains/flight/model"
	"skybook/internal/domains/flight/model/dto"
	"skybook/shared/timezone"
)

func TestCreateFlightRequest_ToModel(t *testing.T) {
	departure := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		seats     int
		wantSeats int
	}{
		{name: "default capacity", seats: 0, wantSeats: dto.DefaultTotalSeats},
		{name: "explicit capacity", seats: 60, wantSeats: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CreateFlightRequest{
				FlightNumber:  "GA404",
				DepartureTime: departure,
				ArrivalTime:   departure.Add(2 * time.Hour),
				TotalSeats:    tt.seats,
				EconomyPrice:  99.5,
			}

			flight := req.ToModel("airline-1", "mgr-1")

			assert.NotEmpty(t, flight.ID)
			assert.Equal(t, "airline-1", flight.AirlineID)
			assert.Equal(t, tt.wantSeats, flight.TotalSeats)
			assert.Equal(t, tt.wantSeats, flight.AvailableSeats)
			assert.Equal(t, model.StatusScheduled, flight.Status)
			assert.Equal(t, "mgr-1", flight.CreatedBy)
		})
	}
}

func TestUpdateFlightRequest(t *testing.T) {
	current := model.Flight{
		DepartureTime: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC),
	}

	empty := dto.UpdateFlightRequest{}
	assert.True(t, empty.Empty())

	seatsOnly := dto.UpdateFlightRequest{TotalSeats: 90}
	assert.False(t, seatsOnly.Empty())

	later := current.ArrivalTime.Add(time.Hour)
	req := dto.UpdateFlightRequest{ArrivalTime: later}

	departure, arrival := req.Schedule(current)
	assert.Equal(t, current.DepartureTime, departure)
	assert.Equal(t, later, arrival)
}

func TestSearchFlightsRequest(t *testing.T) {
	loc := timezone.GetLocation()
	now := time.Date(2026, 5, 1, 10, 30, 0, 0, loc)

	t.Run("query parsing", func(t *testing.T) {
		req := dto.SearchFlightsRequest{}
		req.FromRequest(httptest.NewRequest("GET", "/v1/flights/search?from=CGK&to=Bali&date=2026-05-02&passengers=x", nil))

		assert.Equal(t, "CGK", req.From)
		assert.Equal(t, "Bali", req.To)
		assert.Equal(t, "2026-05-02", req.Date)
		assert.Equal(t, 1, req.Passengers)
	})

	tests := []struct {
		name     string
		date     string
		wantFrom time.Time
		wantTo   time.Time
		wantErr  bool
	}{
		{name: "no date searches forward from now", wantFrom: now},
		{
			name:     "future day",
			date:     "2026-05-02",
			wantFrom: time.Date(2026, 5, 2, 0, 0, 0, 0, loc),
			wantTo:   time.Date(2026, 5, 2, 23, 59, 59, 999999000, loc),
		},
		{
			name:     "today starts at now",
			date:     "2026-05-01",
			wantFrom: now,
			wantTo:   time.Date(2026, 5, 1, 23, 59, 59, 999999000, loc),
		},
		{name: "bad date", date: "02/05/2026", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.SearchFlightsRequest{Date: tt.date}

			from, to, err := req.Window(now)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.True(t, tt.wantFrom.Equal(from), "from %s", from)
			assert.True(t, tt.wantTo.Equal(to), "to %s", to)
		})
	}
}

func TestFlightDetailResponse_FromModel(t *testing.T) {
	flight := model.Flight{ID: "f-1", TotalSeats: 3, AvailableSeats: 2, EconomyPrice: 100}
	classes := []bookingModel.ClassSummary{
		{SeatClass: "economy", Count: 1, Revenue: 100},
		{SeatClass: "first", Count: 0, Revenue: 0},
	}

	res := dto.FlightDetailResponse{}
	res.FromModel(flight, classes, nil)

	assert.InDelta(t, 33.33, res.OccupancyPercent, 0.001)
	assert.InDelta(t, 100.0, res.TotalRevenue, 0.001)
	assert.Len(t, res.Classes, 2)
	assert.Empty(t, res.RecentBookings)
	assert.InDelta(t, 300.0, res.FirstPrice, 0.001)
}
