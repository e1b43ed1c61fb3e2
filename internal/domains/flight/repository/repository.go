package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"skybook/infras/otel"
	"skybook/infras/postgres"
	"skybook/internal/domains/flight/model"
	gDto "skybook/shared/dto"
	gRepo "skybook/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Flight interface {
	Insert(ctx context.Context, model model.Flight) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Flight, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Flight, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Flight, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

// Directory holds the airport and airline reference tables.
type Directory interface {
	GetAirports(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Airport, error)
	AirportExist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	GetAirlines(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Airline, error)
	AirlineExist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	InsertAirport(ctx context.Context, airport model.Airport) error
	InsertAirline(ctx context.Context, airline model.Airline) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Flight]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Flight {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Flight](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type directoryImpl struct {
	airports gRepo.Repository[model.Airport]
	airlines gRepo.Repository[model.Airline]
}

func NewDirectory(db *postgres.Connection, otel otel.Otel) Directory {
	return &directoryImpl{
		airports: gRepo.NewRepository[model.Airport](model.AirportEntityName, model.AirportTableName, model.FieldID, db, otel),
		airlines: gRepo.NewRepository[model.Airline](model.AirlineEntityName, model.AirlineTableName, model.FieldID, db, otel),
	}
}

func (d *directoryImpl) GetAirports(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Airport, error) {
	return d.airports.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (d *directoryImpl) AirportExist(ctx context.Context, filter gDto.FilterGroup) (bool, error) {
	return d.airports.Exist(ctx, filter) //nolint:wrapcheck
}

func (d *directoryImpl) GetAirlines(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Airline, error) {
	return d.airlines.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (d *directoryImpl) AirlineExist(ctx context.Context, filter gDto.FilterGroup) (bool, error) {
	return d.airlines.Exist(ctx, filter) //nolint:wrapcheck
}

func (d *directoryImpl) InsertAirport(ctx context.Context, airport model.Airport) error {
	return d.airports.Insert(ctx, airport) //nolint:wrapcheck
}

func (d *directoryImpl) InsertAirline(ctx context.Context, airline model.Airline) error {
	return d.airlines.Insert(ctx, airline) //nolint:wrapcheck
}
