package service

import (
	"context"
	"errors"
	"fmt"

	"skybook/config"
	"skybook/infras/otel"
	"skybook/internal/domains/statistics/model"
	"skybook/internal/domains/statistics/model/dto"
	"skybook/internal/domains/statistics/repository"
	"skybook/shared"
	"skybook/shared/cache"
	"skybook/shared/constant"
	"skybook/shared/failure"
	"skybook/shared/timezone"

	"github.com/rs/zerolog/log"
)

const scopeAllAirlines = "all"

type Statistics interface {
	Get(ctx context.Context, period string) (dto.StatisticsResponse, error)
}

type serviceImpl struct {
	repo  repository.Statistics
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Statistics, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Statistics {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Get reports flight and booking totals for the period. Admins see every airline, managers
// only their own.
func (s *serviceImpl) Get(ctx context.Context, period string) (res dto.StatisticsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".statistics.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if period == constant.Empty {
		period = model.PeriodAll
	}

	now := timezone.Now()

	window, err := model.WindowFor(period, now)
	if errors.Is(err, model.ErrUnknownPeriod) {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	airlineID, err := s.airlineScope(ctx)
	if err != nil {
		return res, err
	}

	cacheScope := airlineID
	if cacheScope == constant.Empty {
		cacheScope = scopeAllAirlines
	}

	cacheKey := shared.BuildCacheKey(constant.CacheKeyStatistics, period, cacheScope)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for statistics")

		return res, nil
	}

	flights, err := s.repo.Flights(ctx, airlineID, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to get flight statistics")

		return res, fmt.Errorf("failed to get flight statistics: %w", err)
	}

	bookings, err := s.repo.Bookings(ctx, airlineID, window)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking statistics")

		return res, fmt.Errorf("failed to get booking statistics: %w", err)
	}

	res.FromModels(period, airlineID, flights, bookings)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save statistics to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) airlineScope(ctx context.Context) (string, error) {
	actor := shared.ActorFromContext(ctx)

	switch {
	case actor.IsAdmin():
		return constant.Empty, nil
	case actor.IsManager() && actor.AirlineID != constant.Empty:
		return actor.AirlineID, nil
	case actor.IsManager():
		return constant.Empty, failure.Forbidden("you are not assigned to an airline") // nolint:wrapcheck
	default:
		return constant.Empty, failure.Forbidden("statistics are only available to staff") // nolint:wrapcheck
	}
}
