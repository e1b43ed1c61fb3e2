//go:build wireinject
// +build wireinject

package di

import (
	"skybook/config"
	"skybook/infras/jwt"
	"skybook/infras/kafka"
	"skybook/infras/otel"
	"skybook/infras/postgres"
	"skybook/infras/redis"
	"skybook/infras/s3"
	"skybook/permissions"
	"skybook/shared/cache"
	"skybook/transport/http"
	"skybook/transport/http/middleware"
	"skybook/transport/http/router"

	authService "skybook/internal/domains/auth/service"
	bannerRepository "skybook/internal/domains/banner/repository"
	bannerService "skybook/internal/domains/banner/service"
	bookingEvent "skybook/internal/domains/booking/event"
	bookingRepository "skybook/internal/domains/booking/repository"
	"skybook/internal/domains/booking/seat"
	bookingService "skybook/internal/domains/booking/service"
	flightRepository "skybook/internal/domains/flight/repository"
	flightService "skybook/internal/domains/flight/service"
	statisticsRepository "skybook/internal/domains/statistics/repository"
	statisticsService "skybook/internal/domains/statistics/service"
	userRepository "skybook/internal/domains/user/repository"
	userService "skybook/internal/domains/user/service"
	authHandler "skybook/internal/handlers/auth"
	bannerHandler "skybook/internal/handlers/banner"
	bookingHandler "skybook/internal/handlers/booking"
	flightHandler "skybook/internal/handlers/flight"
	statisticsHandler "skybook/internal/handlers/statistics"
	userHandler "skybook/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var userDomain = wire.NewSet(
	userService.New,
)

var flightDomain = wire.NewSet(
	flightRepository.New,
	flightRepository.NewDirectory,
	flightService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	seat.NewAllocator,
	bookingEvent.NewPublisher,
	bookingService.New,
)

var statisticsDomain = wire.NewSet(
	statisticsRepository.New,
	statisticsService.New,
)

var bannerDomain = wire.NewSet(
	bannerRepository.New,
	bannerService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	flightDomain,
	bookingDomain,
	statisticsDomain,
	bannerDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	flightHandler.New,
	bookingHandler.New,
	statisticsHandler.New,
	bannerHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeConsumer() *bookingEvent.Consumer {
	wire.Build(
		config.Get,
		otel.New,
		redis.New,
		kafka.New,
		sharedHelpers,
		bookingEvent.NewConsumer,
	)

	return &bookingEvent.Consumer{}
}
