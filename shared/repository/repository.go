package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"

	"skybook/infras/otel"
	"skybook/infras/postgres"
	"skybook/shared/constant"
	"skybook/shared/dto"
	"skybook/shared/logger"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// preparer is satisfied by both *sqlx.DB and *sqlx.Tx.
type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// Repository is the table gateway embedded by every domain repository.
// Plain methods read from the replica and write to the primary; the Tx variants run on the
// given transaction.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	join          string
	InsertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := readColumns(tableName, reflect.TypeOf(zero))

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          joinClause(zero),
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

func (repo *Repository[T]) exec(ctx context.Context, op string, ex execer, query string, arg any) error {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := ex.NamedExecContext(ctx, query, arg); err != nil {
		return repo.fail(scope, op+" data", err)
	}

	return nil
}

// fetch prepares query on prep and scans into dest: a single row unless many is set.
// sql.ErrNoRows is passed through for the caller to decide.
func (repo *Repository[T]) fetch(ctx context.Context, op string, prep preparer, query string, args map[string]any, dest any, many bool) error {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := prep.PrepareNamedContext(ctx, query)
	if err != nil {
		return repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	if many {
		err = stmt.SelectContext(ctx, dest, args)
	} else {
		err = stmt.GetContext(ctx, dest, args)
	}

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return repo.fail(scope, op+" data", err)
	}

	return err
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.exec(ctx, "insert", repo.db.Write, repo.insertQuery(), model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	return repo.exec(ctx, "insert", sqltx, repo.insertQuery(), model)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	var exist bool

	err := repo.fetch(ctx, "exist", repo.db.Read, repo.existQuery(where), args, &exist, false)

	return exist, err
}

func (repo *Repository[T]) get(ctx context.Context, prep preparer, filter dto.FilterGroup, lock bool, columns ...string) (T, error) {
	var model T

	where, args := whereClause(filter)

	err := repo.fetch(ctx, "get", prep, repo.getQuery(where, lock, columns...), args, &model, false)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	return model, err
}

// Get returns the zero value of T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, filter, false, columns...)
}

// GetForUpdateTx reads the matching row and holds a row lock on it until the transaction ends.
func (repo *Repository[T]) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, filter, true, columns...)
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	var models []T

	where, args := whereClause(filter)
	query := repo.listQuery(where, args, params, columns...)

	if err := repo.fetch(ctx, "list", repo.db.Read, query, args, &models, true); err != nil {
		return nil, err
	}

	return models, nil
}

func (repo *Repository[T]) count(ctx context.Context, prep preparer, filter dto.FilterGroup) (int, error) {
	var total int

	where, args := whereClause(filter)
	err := repo.fetch(ctx, "count", prep, repo.countQuery(where), args, &total, false)

	return total, err
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	return repo.count(ctx, repo.db.Read, filter)
}

func (repo *Repository[T]) CountTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (int, error) {
	return repo.count(ctx, sqltx, filter)
}

// Delete refuses to run without a filter.
func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	return repo.exec(ctx, "delete", repo.db.Write, repo.deleteQuery(where), args)
}

func (repo *Repository[T]) update(ctx context.Context, ex execer, fields map[string]any, filter dto.FilterGroup) error {
	where, args := whereClause(filter)
	query := repo.updateQuery(fields, where)

	maps.Copy(args, fields)

	return repo.exec(ctx, "update", ex, query, args)
}

func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, repo.db.Write, fields, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, fields map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, sqltx, fields, filter)
}
