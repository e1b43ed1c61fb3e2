package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"time"

	"skybook/config"
	"skybook/infras/kafka"
	"skybook/infras/otel"
	"skybook/internal/domains/booking/model"
	"skybook/shared/constant"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeSeatsAssigned    = "booking.seats_assigned"
)

type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	OccurredAt    time.Time `json:"occurred_at"`
	BookingID     string    `json:"booking_id,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	FlightID      string    `json:"flight_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	SeatClass     string    `json:"seat_class,omitempty"`
	SeatNumber    string    `json:"seat_number,omitempty"`
	Status        string    `json:"status,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	AssignedSeats int       `json:"assigned_seats,omitempty"`
}

func FromBooking(eventType string, booking model.Booking, occurredAt time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: occurredAt,
		BookingID:  booking.ID,
		Reference:  booking.Reference,
		FlightID:   booking.FlightID,
		UserID:     booking.UserID,
		SeatClass:  booking.SeatClass,
		SeatNumber: booking.Seat(),
		Status:     booking.Status,
		Amount:     booking.PricePaid,
	}
}

func SeatsAssigned(count int, occurredAt time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          TypeSeatsAssigned,
		OccurredAt:    occurredAt,
		AssignedSeats: count,
	}
}

// Publisher emits booking events after the owning transaction committed. Publishing is best
// effort: failures are logged and never undo the booking change.
type Publisher interface {
	Publish(ctx context.Context, events ...Event)
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, events ...Event) {
	if !p.cfg.Kafka.Enable || len(events) == 0 {
		return
	}

	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()

	messages := make([]kafka.Message, len(events))
	for i, evt := range events {
		messages[i] = kafka.Message{Key: evt.FlightID, Value: evt}
	}

	if err := p.client.SendMessages(ctx, p.cfg.Kafka.Topics.BookingEvents, messages...); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("type", events[0].Type).Int("count", len(events)).Msg("failed to publish booking events")
	}
}
