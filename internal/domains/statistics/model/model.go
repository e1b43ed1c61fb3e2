package model

import (
	"errors"
	"time"
)

const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

var ErrUnknownPeriod = errors.New("period must be one of today, week, month, all")

// Window is the booked_at range a period covers. A nil bound is open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// WindowFor resolves a period relative to now. Today runs from local midnight to the end of the
// day, week and month are the trailing 7 and 30 days.
func WindowFor(period string, now time.Time) (Window, error) {
	switch period {
	case PeriodToday:
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		to := from.AddDate(0, 0, 1).Add(-time.Microsecond)

		return Window{From: &from, To: &to}, nil
	case PeriodWeek:
		from := now.AddDate(0, 0, -7)

		return Window{From: &from, To: &now}, nil
	case PeriodMonth:
		from := now.AddDate(0, 0, -30)

		return Window{From: &from, To: &now}, nil
	case PeriodAll, "":
		return Window{}, nil
	default:
		return Window{}, ErrUnknownPeriod
	}
}

type FlightStatistics struct {
	TotalFlights     int `db:"total_flights"`
	ActiveFlights    int `db:"active_flights"`
	CompletedFlights int `db:"completed_flights"`
}

type BookingStatistics struct {
	TotalBookings     int     `db:"total_bookings"`
	TotalRevenue      float64 `db:"total_revenue"`
	ConfirmedBookings int     `db:"confirmed_bookings"`
	CheckedInBookings int     `db:"checked_in_bookings"`
	CancelledBookings int     `db:"cancelled_bookings"`
	RefundedBookings  int     `db:"refunded_bookings"`
}
