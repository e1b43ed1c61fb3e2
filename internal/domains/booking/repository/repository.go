package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"skybook/infras/otel"
	"skybook/infras/postgres"
	"skybook/internal/domains/booking/model"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	"skybook/shared/logger"
	gRepo "skybook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	queryOccupiedSeats = `SELECT seat_number FROM bookings
		WHERE flight_id = $1 AND seat_number IS NOT NULL AND seat_number <> '' AND status = ANY($2)`

	queryClassSummary = `SELECT seat_class, COUNT(id) AS count, COALESCE(SUM(price_paid), 0) AS revenue
		FROM bookings WHERE flight_id = $1 AND status = ANY($2)
		GROUP BY seat_class ORDER BY seat_class`
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	CountTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	OccupiedSeatsTx(ctx context.Context, tx *sqlx.Tx, flightID string) ([]string, error)
	ClassSummary(ctx context.Context, flightID string) ([]model.ClassSummary, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// OccupiedSeatsTx lists the seat labels held by active bookings on the flight, every class
// included. It must run in the transaction holding the flight row lock.
func (r *repositoryImpl) OccupiedSeatsTx(ctx context.Context, tx *sqlx.Tx, flightID string) (seats []string, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.OccupiedSeatsTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryOccupiedSeats)

	if err = tx.SelectContext(ctx, &seats, queryOccupiedSeats, flightID, pq.Array(model.ActiveStatuses)); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get occupied seats: %w", err)
	}

	return seats, nil
}

func (r *repositoryImpl) ClassSummary(ctx context.Context, flightID string) (res []model.ClassSummary, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ClassSummary")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryClassSummary)

	if err = r.db.Read.SelectContext(ctx, &res, queryClassSummary, flightID, pq.Array(model.ActiveStatuses)); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get class summary: %w", err)
	}

	return res, nil
}
