package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"skybook/config"
	"skybook/infras/otel"
	"skybook/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const fetchRetryDelay = 2 * time.Second

// Message is an outgoing record. Value is encoded as JSON.
type Message struct {
	Key   string
	Value any
}

func (m Message) encode(topic string) (kafkaGo.Message, error) {
	raw, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{Topic: topic, Key: []byte(m.Key), Value: raw}, nil
}

// Decode unmarshals the JSON value of msg into T.
func Decode[T any](msg kafkaGo.Message) (T, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		return value, fmt.Errorf("failed to unmarshal Kafka message value from JSON: %w", err)
	}

	return value, nil
}

// Handler processes one fetched message. The offset is committed whatever it returns.
type Handler func(ctx context.Context, msg kafkaGo.Message) error

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error
}

type kafkaClientImpl struct {
	config    *config.Config
	otel      otel.Otel
	dialer    *kafkaGo.Dialer
	transport *kafkaGo.Transport
	address   net.Addr
}

func New(cfg *config.Config, otel otel.Otel) Client {
	var (
		dialer    = &kafkaGo.Dialer{DualStack: true, Timeout: 10 * time.Second}
		transport = &kafkaGo.Transport{}
	)

	if cfg.Kafka.SASL.Username != "" {
		mechanism := plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}

		dialer.SASLMechanism = mechanism
		transport.SASL = mechanism
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Bool("enabled", cfg.Kafka.Enable).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config:    cfg,
		otel:      otel,
		dialer:    dialer,
		transport: transport,
		address:   kafkaGo.TCP(cfg.Kafka.Brokers...),
	}
}

// SendMessages writes synchronously so the caller learns about broker failures. Messages sharing
// a key land on the same partition.
func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".SendMessages")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		"messaging.destination": topic,
		"messaging.batch_count": len(messages),
	})

	records := make([]kafkaGo.Message, len(messages))

	for i, message := range messages {
		if records[i], err = message.encode(topic); err != nil {
			log.Error().Err(err).Str("topic", topic).Str("key", message.Key).Msg("Failed to encode Kafka message")

			return err
		}
	}

	writer := &kafkaGo.Writer{
		Addr:                   k.address,
		Transport:              k.transport,
		Balancer:               &kafkaGo.Hash{},
		RequiredAcks:           kafkaGo.RequireOne,
		AllowAutoTopicCreation: true,
	}

	defer func() {
		if closeErr := writer.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("topic", topic).Msg("Failed to close Kafka writer")
		}
	}()

	if err = writer.WriteMessages(ctx, records...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(records)).Msg("Sent Kafka messages")

	return nil
}

// Consume fetches from topic in the consumer group and runs handler on each message in order,
// committing after each one. It returns nil once ctx is cancelled.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error {
	if topic == "" {
		return errors.New("kafka topic is required")
	}

	groupID := consumerGroup
	if groupID == "" {
		groupID = k.config.Kafka.ConsumerGroup
	}

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to close Kafka reader")
		}
	}()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", topic).Msg("Kafka consumer stopped")

				return nil
			}

			log.Error().Err(err).Str("topic", topic).Msg("Failed to fetch Kafka message")

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchRetryDelay):
			}

			continue
		}

		if err = handler(ctx, msg); err != nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("Kafka handler failed")
		}

		if err = reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("Failed to commit Kafka offset")
		}
	}
}
