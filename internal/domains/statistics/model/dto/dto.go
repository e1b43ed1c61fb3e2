package dto

import (
	"math"
	"net/http"

	"skybook/internal/domains/statistics/model"
	"skybook/shared/constant"
)

type StatisticsRequest struct {
	Period string `json:"period" validate:"omitempty,oneof=today week month all"`
}

func (r *StatisticsRequest) FromRequest(request *http.Request) {
	r.Period = request.URL.Query().Get(constant.RequestParamPeriod)
}

type StatisticsResponse struct {
	Period            string  `json:"period"`
	AirlineID         string  `json:"airline_id,omitempty"`
	TotalFlights      int     `json:"total_flights"`
	ActiveFlights     int     `json:"active_flights"`
	CompletedFlights  int     `json:"completed_flights"`
	TotalBookings     int     `json:"total_bookings"`
	TotalPassengers   int     `json:"total_passengers"`
	TotalRevenue      float64 `json:"total_revenue"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	CheckedInBookings int     `json:"checked_in_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	RefundedBookings  int     `json:"refunded_bookings"`
}

// FromModels merges both aggregates. Every booking carries exactly one passenger.
func (r *StatisticsResponse) FromModels(period, airlineID string, flights model.FlightStatistics, bookings model.BookingStatistics) {
	r.Period = period
	r.AirlineID = airlineID
	r.TotalFlights = flights.TotalFlights
	r.ActiveFlights = flights.ActiveFlights
	r.CompletedFlights = flights.CompletedFlights
	r.TotalBookings = bookings.TotalBookings
	r.TotalPassengers = bookings.TotalBookings
	r.TotalRevenue = math.Round(bookings.TotalRevenue*100) / 100
	r.ConfirmedBookings = bookings.ConfirmedBookings
	r.CheckedInBookings = bookings.CheckedInBookings
	r.CancelledBookings = bookings.CancelledBookings
	r.RefundedBookings = bookings.RefundedBookings
}
