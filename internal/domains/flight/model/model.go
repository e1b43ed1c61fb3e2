package model

import (
	"time"

	"skybook/internal/domains/booking/seat"
	"skybook/shared/model"
)

const (
	TableName  = "flights"
	EntityName = "flight"

	FieldID                 = "id"
	FieldFlightNumber       = "flight_number"
	FieldAirlineID          = "airline_id"
	FieldDepartureAirportID = "departure_airport_id"
	FieldArrivalAirportID   = "arrival_airport_id"
	FieldDepartureTime      = "departure_time"
	FieldArrivalTime        = "arrival_time"
	FieldAircraftType       = "aircraft_type"
	FieldTotalSeats         = "total_seats"
	FieldAvailableSeats     = "available_seats"
	FieldEconomyPrice       = "economy_price"
	FieldBusinessPrice      = "business_price"
	FieldFirstPrice         = "first_price"
	FieldStatus             = "status"
	FieldCity               = "city"
)

// Table aliases used by the join query.
const (
	AliasAirline          = "al"
	AliasDepartureAirport = "dep"
	AliasArrivalAirport   = "arr"
)

const (
	StatusScheduled = "scheduled"
	StatusDelayed   = "delayed"
	StatusCancelled = "cancelled"
	StatusBoarding  = "boarding"
	StatusDeparted  = "departed"
	StatusArrived   = "arrived"
	StatusCompleted = "completed"
)

const (
	businessMultiplier = 2
	firstMultiplier    = 3
)

var nextStatus = map[string]string{
	StatusScheduled: StatusBoarding,
	StatusDelayed:   StatusBoarding,
	StatusBoarding:  StatusDeparted,
	StatusDeparted:  StatusArrived,
	StatusArrived:   StatusCompleted,
	StatusCompleted: StatusScheduled,
	StatusCancelled: StatusScheduled,
}

type Flight struct {
	ID                 string    `db:"id"`
	FlightNumber       string    `db:"flight_number"`
	AirlineID          string    `db:"airline_id"`
	DepartureAirportID string    `db:"departure_airport_id"`
	ArrivalAirportID   string    `db:"arrival_airport_id"`
	DepartureTime      time.Time `db:"departure_time"`
	ArrivalTime        time.Time `db:"arrival_time"`
	AircraftType       string    `db:"aircraft_type"`
	TotalSeats         int       `db:"total_seats"`
	AvailableSeats     int       `db:"available_seats"`
	EconomyPrice       float64   `db:"economy_price"`
	BusinessPrice      *float64  `db:"business_price"`
	FirstPrice         *float64  `db:"first_price"`
	Status             string    `db:"status"`

	AirlineName          string `column:"name" db:"airline_name"           table:"al"`
	AirlineCode          string `column:"code" db:"airline_code"           table:"al"`
	DepartureAirportCode string `column:"code" db:"departure_airport_code" table:"dep"`
	DepartureAirportName string `column:"name" db:"departure_airport_name" table:"dep"`
	DepartureCity        string `column:"city" db:"departure_city"         table:"dep"`
	ArrivalAirportCode   string `column:"code" db:"arrival_airport_code"   table:"arr"`
	ArrivalAirportName   string `column:"name" db:"arrival_airport_name"   table:"arr"`
	ArrivalCity          string `column:"city" db:"arrival_city"           table:"arr"`
	model.Metadata
}

func (Flight) GetJoinQuery() string {
	return "JOIN airlines al ON al.id = flights.airline_id " +
		"JOIN airports dep ON dep.id = flights.departure_airport_id " +
		"JOIN airports arr ON arr.id = flights.arrival_airport_id"
}

// Price resolves the fare for a cabin class. Business and first fall back to a multiple of the
// economy fare when the flight carries no explicit override.
func (f Flight) Price(class seat.Class) float64 {
	switch class {
	case seat.ClassBusiness:
		if f.BusinessPrice != nil {
			return *f.BusinessPrice
		}

		return f.EconomyPrice * businessMultiplier
	case seat.ClassFirst:
		if f.FirstPrice != nil {
			return *f.FirstPrice
		}

		return f.EconomyPrice * firstMultiplier
	default:
		return f.EconomyPrice
	}
}

// Departed reports whether the departure time is not strictly after now.
func (f Flight) Departed(now time.Time) bool {
	return !f.DepartureTime.After(now)
}

func (f Flight) NextStatus() string {
	if next, ok := nextStatus[f.Status]; ok {
		return next
	}

	return StatusScheduled
}

func (f Flight) Duration() time.Duration {
	return f.ArrivalTime.Sub(f.DepartureTime)
}

func (f Flight) OccupancyPercent() float64 {
	if f.TotalSeats <= 0 {
		return 0
	}

	booked := f.TotalSeats - f.AvailableSeats

	return float64(booked) / float64(f.TotalSeats) * 100
}

type Airport struct {
	ID      string `db:"id"`
	Code    string `db:"code"`
	Name    string `db:"name"`
	City    string `db:"city"`
	Country string `db:"country"`
}

type Airline struct {
	ID      string `db:"id"`
	Code    string `db:"code"`
	Name    string `db:"name"`
	Country string `db:"country"`
}

const (
	AirportTableName  = "airports"
	AirportEntityName = "airport"
	AirlineTableName  = "airlines"
	AirlineEntityName = "airline"
)
