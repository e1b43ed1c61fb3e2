package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"skybook/infras/otel"
	"skybook/infras/postgres"
	"skybook/internal/domains/banner/model"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	"skybook/shared/logger"
	gRepo "skybook/shared/repository"

	"github.com/lib/pq"
)

const (
	queryIncrementViews  = `UPDATE banners SET views_count = views_count + 1 WHERE id = ANY($1)`
	queryIncrementClicks = `UPDATE banners SET clicks_count = clicks_count + 1 WHERE id = $1`
)

type Banner interface {
	Insert(ctx context.Context, model model.Banner) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Banner, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Banner, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	IncrementViews(ctx context.Context, ids []string) error
	IncrementClicks(ctx context.Context, id string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Banner]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Banner {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Banner](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// IncrementViews bumps the counter in place so concurrent displays never lose a view.
func (r *repositoryImpl) IncrementViews(ctx context.Context, ids []string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".banner.IncrementViews")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryIncrementViews)

	if _, err = r.db.Write.ExecContext(ctx, queryIncrementViews, pq.Array(ids)); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to increment banner views: %w", err)
	}

	return nil
}

func (r *repositoryImpl) IncrementClicks(ctx context.Context, id string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".banner.IncrementClicks")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryIncrementClicks)

	if _, err = r.db.Write.ExecContext(ctx, queryIncrementClicks, id); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to increment banner clicks: %w", err)
	}

	return nil
}
