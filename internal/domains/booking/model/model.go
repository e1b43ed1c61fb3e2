package model

import (
	"errors"
	"time"

	"skybook/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldReference          = "reference"
	FieldUserID             = "user_id"
	FieldFlightID           = "flight_id"
	FieldPassengerFirstName = "passenger_first_name"
	FieldPassengerLastName  = "passenger_last_name"
	FieldPassengerEmail     = "passenger_email"
	FieldPassengerPhone     = "passenger_phone"
	FieldSeatClass          = "seat_class"
	FieldSeatNumber         = "seat_number"
	FieldPricePaid          = "price_paid"
	FieldStatus             = "status"
	FieldBookedAt           = "booked_at"
	FieldCancelledAt        = "cancelled_at"
	FieldCancellationReason = "cancellation_reason"
	FieldBaggageCount       = "baggage_count"
	FieldMealPreference     = "meal_preference"
	FieldSpecialRequests    = "special_requests"

	// joined from flights
	AliasFlight        = "f"
	FieldAirlineID     = "airline_id"
	FieldDepartureTime = "departure_time"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCheckedIn = "checked_in"
	StatusRefunded  = "refunded"
)

const (
	CancellationTypeRefund   = "refund"
	CancellationTypeNoRefund = "no_refund"

	DefaultCancellationReason = "cancelled by user"
)

var (
	ErrFlightDeparted     = errors.New("flight has already departed")
	ErrNoSeatsAvailable   = errors.New("no seats available on this flight")
	ErrReferenceExhausted = errors.New("could not generate a unique booking reference")
	ErrOperationFailed    = errors.New("operation failed, please try again")
	ErrNotOwner           = errors.New("you can only manage your own bookings")
)

// ActiveStatuses hold a seat and count against the flight's availability.
var ActiveStatuses = []string{StatusConfirmed, StatusCheckedIn}

type Booking struct {
	ID                 string     `db:"id"`
	Reference          string     `db:"reference"`
	UserID             string     `db:"user_id"`
	FlightID           string     `db:"flight_id"`
	PassengerFirstName string     `db:"passenger_first_name"`
	PassengerLastName  string     `db:"passenger_last_name"`
	PassengerEmail     string     `db:"passenger_email"`
	PassengerPhone     *string    `db:"passenger_phone"`
	SeatClass          string     `db:"seat_class"`
	SeatNumber         *string    `db:"seat_number"`
	PricePaid          float64    `db:"price_paid"`
	Status             string     `db:"status"`
	BookedAt           time.Time  `db:"booked_at"`
	CancelledAt        *time.Time `db:"cancelled_at"`
	CancellationReason *string    `db:"cancellation_reason"`
	BaggageCount       int        `db:"baggage_count"`
	MealPreference     *string    `db:"meal_preference"`
	SpecialRequests    *string    `db:"special_requests"`

	FlightNumber  string    `column:"flight_number"  db:"flight_number"  table:"f"`
	AirlineID     string    `column:"airline_id"     db:"airline_id"     table:"f"`
	DepartureTime time.Time `column:"departure_time" db:"departure_time" table:"f"`
	ArrivalTime   time.Time `column:"arrival_time"   db:"arrival_time"   table:"f"`
	DepartureCity string    `column:"city"           db:"departure_city" table:"dep"`
	ArrivalCity   string    `column:"city"           db:"arrival_city"   table:"arr"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "JOIN flights f ON f.id = bookings.flight_id " +
		"JOIN airports dep ON dep.id = f.departure_airport_id " +
		"JOIN airports arr ON arr.id = f.arrival_airport_id"
}

func (b Booking) Seat() string {
	if b.SeatNumber == nil {
		return ""
	}

	return *b.SeatNumber
}

func (b Booking) PassengerName() string {
	return b.PassengerFirstName + " " + b.PassengerLastName
}

func (b Booking) IsActive() bool {
	return b.Status == StatusConfirmed || b.Status == StatusCheckedIn
}

func (b Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusRefunded
}

// HoursUntilDeparture is negative once the flight has left.
func (b Booking) HoursUntilDeparture(now time.Time) float64 {
	return b.DepartureTime.Sub(now).Hours()
}

// CanBeCancelled is true for every booking that has not reached a terminal status, however
// close the departure is.
func (b Booking) CanBeCancelled() bool {
	return !b.IsTerminal()
}

// CanBeRefunded is true when cancelling now would return the fare.
func (b Booking) CanBeRefunded(now time.Time, cutoff time.Duration) bool {
	return b.CanBeCancelled() && b.DepartureTime.Sub(now) > cutoff
}

func (b Booking) CancellationType(now time.Time, cutoff time.Duration) string {
	if b.CanBeRefunded(now, cutoff) {
		return CancellationTypeRefund
	}

	return CancellationTypeNoRefund
}

// Cancellation is the outcome of cancelling an active booking.
type Cancellation struct {
	Status         string
	RefundedAmount float64
	CancelledAt    time.Time
	Reason         string
}

// Cancel decides the terminal status for b. The caller must have checked that b is not
// already terminal.
func (b Booking) Cancel(now time.Time, cutoff time.Duration, reason string) Cancellation {
	if reason == "" {
		reason = DefaultCancellationReason
	}

	result := Cancellation{
		Status:      StatusCancelled,
		CancelledAt: now,
		Reason:      reason,
	}

	if b.CanBeRefunded(now, cutoff) {
		result.Status = StatusRefunded
		result.RefundedAmount = b.PricePaid
	}

	return result
}

// ClassSummary aggregates the bookings of one cabin class on a flight.
type ClassSummary struct {
	SeatClass string  `db:"seat_class"`
	Count     int     `db:"count"`
	Revenue   float64 `db:"revenue"`
}
