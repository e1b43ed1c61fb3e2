package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"skybook/infras/otel"
	"skybook/infras/postgres"
	"skybook/internal/domains/statistics/model"
	"skybook/shared/constant"
	"skybook/shared/logger"
)

// An empty airline id disables the airline scope.
const (
	queryFlightStatistics = `SELECT
			COUNT(id) AS total_flights,
			COUNT(id) FILTER (WHERE departure_time >= $1) AS active_flights,
			COUNT(id) FILTER (WHERE departure_time < $1) AS completed_flights
		FROM flights
		WHERE ($2 = '' OR airline_id::text = $2)`

	queryBookingStatistics = `SELECT
			COUNT(b.id) AS total_bookings,
			COALESCE(SUM(b.price_paid) FILTER (WHERE b.status <> 'refunded'), 0) AS total_revenue,
			COUNT(b.id) FILTER (WHERE b.status = 'confirmed') AS confirmed_bookings,
			COUNT(b.id) FILTER (WHERE b.status = 'checked_in') AS checked_in_bookings,
			COUNT(b.id) FILTER (WHERE b.status = 'cancelled') AS cancelled_bookings,
			COUNT(b.id) FILTER (WHERE b.status = 'refunded') AS refunded_bookings
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		WHERE ($1 = '' OR f.airline_id::text = $1)
			AND ($2::timestamptz IS NULL OR b.booked_at >= $2)
			AND ($3::timestamptz IS NULL OR b.booked_at <= $3)`
)

type Statistics interface {
	Flights(ctx context.Context, airlineID string, now time.Time) (model.FlightStatistics, error)
	Bookings(ctx context.Context, airlineID string, window model.Window) (model.BookingStatistics, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Statistics {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (r *repositoryImpl) Flights(ctx context.Context, airlineID string, now time.Time) (res model.FlightStatistics, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".statistics.Flights")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryFlightStatistics)

	if err = r.db.Read.GetContext(ctx, &res, queryFlightStatistics, now, airlineID); err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get flight statistics: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) Bookings(ctx context.Context, airlineID string, window model.Window) (res model.BookingStatistics, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".statistics.Bookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryBookingStatistics)

	if err = r.db.Read.GetContext(ctx, &res, queryBookingStatistics, airlineID, window.From, window.To); err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get booking statistics: %w", err)
	}

	return res, nil
}
