package event

import (
	"context"

	"skybook/config"
	"skybook/infras/kafka"
	"skybook/infras/otel"
	"skybook/shared"
	"skybook/shared/cache"
	"skybook/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer drops the read caches a booking event makes stale.
type Consumer struct {
	client kafka.Client
	cache  cache.RedisCache
	cfg    *config.Config
	otel   otel.Otel
}

func NewConsumer(client kafka.Client, cache cache.RedisCache, cfg *config.Config, otel otel.Otel) *Consumer {
	return &Consumer{
		client: client,
		cache:  cache,
		cfg:    cfg,
		otel:   otel,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	topic := c.cfg.Kafka.Topics.BookingEvents

	log.Info().Str("topic", topic).Str("group", c.cfg.Kafka.ConsumerGroup).Msg("booking event consumer started")

	return c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, topic, c.Handle) //nolint:wrapcheck
}

// Handle returns an error only for undecodable payloads. Cache failures are logged.
func (c *Consumer) Handle(ctx context.Context, msg kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Handle")
	defer scope.End()
	defer scope.TraceIfError(err)

	evt, err := kafka.Decode[Event](msg)
	if err != nil {
		log.Error().Err(err).Str("key", string(msg.Key)).Msg("failed to decode booking event")

		return err //nolint:wrapcheck
	}

	scope.SetAttribute("event.type", evt.Type)

	switch evt.Type {
	case TypeBookingCreated, TypeBookingCancelled:
		if err := c.cache.Delete(ctx, shared.BuildCacheKey(constant.CacheKeyFlightGet, evt.FlightID)); err != nil {
			log.Error().Err(err).Str("flight_id", evt.FlightID).Msg("failed to delete flight from cache")
		}

		for _, prefix := range []string{
			constant.CacheKeyFlightGets,
			constant.CacheKeyFlightCount,
			constant.CacheKeyFlightSearch,
			constant.CacheKeyStatistics,
		} {
			shared.InvalidateCaches(ctx, c.cache, prefix)
		}
	case TypeSeatsAssigned:
		shared.InvalidateCaches(ctx, c.cache, constant.CacheKeyFlightGet)
	default:
		log.Warn().Str("type", evt.Type).Msg("ignoring unknown booking event")

		return nil
	}

	log.Info().Str("type", evt.Type).Str("booking_id", evt.BookingID).Msg("booking event handled")

	return nil
}
