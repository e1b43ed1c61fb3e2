package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"skybook/config"
	"skybook/infras/otel"
	"skybook/infras/postgres"
	"skybook/internal/domains/booking/event"
	"skybook/internal/domains/booking/model"
	"skybook/internal/domains/booking/model/dto"
	"skybook/internal/domains/booking/repository"
	"skybook/internal/domains/booking/seat"
	flightModel "skybook/internal/domains/flight/model"
	flightRepo "skybook/internal/domains/flight/repository"
	"skybook/shared"
	"skybook/shared/cache"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	"skybook/shared/failure"
	"skybook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

var sortableFields = []string{model.FieldBookedAt, model.FieldDepartureTime, model.FieldStatus, constant.FieldCreatedAt}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (dto.CancelBookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingDetailResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	Manifest(ctx context.Context, params gDto.QueryParams, flightID string) (dto.GetBookingsResponse, error)
	AssignSeats(ctx context.Context) (dto.AssignSeatsResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	flightRepo flightRepo.Flight
	transactor postgres.Transactor
	allocator  *seat.Allocator
	publisher  event.Publisher
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	flightRepo flightRepo.Flight,
	transactor postgres.Transactor,
	allocator *seat.Allocator,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		flightRepo: flightRepo,
		transactor: transactor,
		allocator:  allocator,
		publisher:  publisher,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.ActorFromContext(ctx)
	booking := req.ToModel(actor.Username(), timezone.Now())

	for attempt := 1; ; attempt++ {
		booking.Reference, err = s.newReference(ctx)
		if err != nil {
			return res, err
		}

		err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
			return s.book(ctx, tx, &booking, req.Class())
		})
		if err == nil {
			break
		}

		if !isUniqueViolation(err) || attempt >= s.cfg.Booking.AllocationAttempts {
			return res, s.bookingFailure("failed to create booking", err)
		}

		log.Warn().Err(err).Int("attempt", attempt).Str("flight_id", booking.FlightID).Msg("seat or reference taken concurrently, retrying")
	}

	log.Info().Str("reference", booking.Reference).Str("seat", booking.Seat()).Str("flight_id", booking.FlightID).Msg("booking created")

	s.publisher.Publish(ctx, event.FromBooking(event.TypeBookingCreated, booking, booking.BookedAt))
	s.invalidateFlight(ctx, booking.FlightID)

	res.FromModel(booking)

	return res, nil
}

// book runs inside the transaction. The flight row lock serialises every booking write on the
// flight, so the occupied set read here stays valid until commit.
func (s *serviceImpl) book(ctx context.Context, tx *sqlx.Tx, booking *model.Booking, class seat.Class) error {
	flight, err := s.lockFlight(ctx, tx, booking.FlightID)
	if err != nil {
		return err
	}

	if flight.Departed(timezone.Now()) {
		return model.ErrFlightDeparted
	}

	if flight.AvailableSeats <= 0 {
		return model.ErrNoSeatsAvailable
	}

	label, err := s.allocate(ctx, tx, flight, class)
	if err != nil {
		return err
	}

	booking.SeatNumber = &label
	booking.PricePaid = flight.Price(class)

	if err = s.repo.InsertTx(ctx, tx, *booking); err != nil {
		log.Error().Err(err).Msg("failed to insert booking")

		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return s.setAvailableSeats(ctx, tx, flight, flight.AvailableSeats-1, booking.UserID)
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (res dto.CancelBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.ActorFromContext(ctx)

	booking, err := s.getOwned(ctx, id, actor)
	if err != nil {
		return res, err
	}

	if booking.IsTerminal() {
		return dto.AlreadyCancelled(booking.Status), nil
	}

	var (
		result  model.Cancellation
		already bool
	)

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		flight, err := s.lockFlight(ctx, tx, booking.FlightID)
		if err != nil {
			return err
		}

		locked, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to lock booking")

			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if locked.IsTerminal() {
			booking = locked
			already = true

			return nil
		}

		result = locked.Cancel(timezone.Now(), s.refundCutoff(), req.Reason)

		if err = s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:             result.Status,
			model.FieldCancelledAt:        result.CancelledAt,
			model.FieldCancellationReason: result.Reason,
			constant.FieldModifiedAt:      result.CancelledAt,
			constant.FieldModifiedBy:      actor.Username(),
		}, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update booking status")

			return fmt.Errorf("failed to update booking status: %w", err)
		}

		booking = locked
		booking.Status = result.Status
		booking.CancelledAt = &result.CancelledAt
		booking.CancellationReason = &result.Reason

		return s.setAvailableSeats(ctx, tx, flight, min(flight.AvailableSeats+1, flight.TotalSeats), actor.Username())
	})
	if err != nil {
		return res, s.bookingFailure("failed to cancel booking", err)
	}

	if already {
		return dto.AlreadyCancelled(booking.Status), nil
	}

	log.Info().Str("reference", booking.Reference).Str("status", result.Status).Float64("refund", result.RefundedAmount).Msg("booking cancelled")

	s.publisher.Publish(ctx, event.FromBooking(event.TypeBookingCancelled, booking, result.CancelledAt))
	s.invalidateFlight(ctx, booking.FlightID)

	res.FromCancellation(result)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getOwned(ctx, id, shared.ActorFromContext(ctx))
	if err != nil {
		return res, err
	}

	res.FromModel(booking, timezone.Now(), s.refundCutoff())

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.ActorFromContext(ctx)
	filter := shared.FilterByID(actor.UserID, model.FieldUserID, model.TableName)

	params.RestrictSort(model.FieldBookedAt, sortableFields...)

	return s.list(ctx, params, filter)
}

// Manifest lists the passengers of the caller's airline. Admins see every airline.
func (s *serviceImpl) Manifest(ctx context.Context, params gDto.QueryParams, flightID string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Manifest")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.ActorFromContext(ctx)
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	switch {
	case actor.IsAdmin():
	case actor.IsManager() && actor.AirlineID != constant.Empty:
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldAirlineID,
			Value:    actor.AirlineID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.AliasFlight,
		})
	default:
		return res, failure.Forbidden("you are not assigned to an airline") // nolint:wrapcheck
	}

	if flightID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldFlightID,
			Value:    flightID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	params.RestrictSort(model.FieldBookedAt, sortableFields...)

	return s.list(ctx, params, filter)
}

// AssignSeats gives a seat to every active booking that has none. A booking that cannot be
// seated is skipped and counted as failed.
func (s *serviceImpl) AssignSeats(ctx context.Context) (res dto.AssignSeatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.AssignSeats")
	defer scope.End()
	defer scope.TraceIfError(err)

	pending, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldBookedAt, SortDir: gDto.SortDirAsc}, missingSeatFilter())
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings without seat")

		return res, fmt.Errorf("failed to get bookings without seat: %w", err)
	}

	res.Pending = len(pending)
	username := shared.ActorFromContext(ctx).Username()
	flights := map[string]struct{}{}

	for _, booking := range pending {
		err := s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
			return s.assignSeat(ctx, tx, booking, username)
		})
		if err != nil {
			log.Warn().Err(err).Str("reference", booking.Reference).Msg("failed to assign seat, skipping")

			res.Failed++

			continue
		}

		res.Assigned++
		flights[booking.FlightID] = struct{}{}
	}

	log.Info().Int("pending", res.Pending).Int("assigned", res.Assigned).Int("failed", res.Failed).Msg("seat assignment finished")

	if res.Assigned > 0 {
		s.publisher.Publish(ctx, event.SeatsAssigned(res.Assigned, timezone.Now()))

		for flightID := range flights {
			s.invalidateFlight(ctx, flightID)
		}
	}

	return res, nil
}

func (s *serviceImpl) assignSeat(ctx context.Context, tx *sqlx.Tx, booking model.Booking, username string) error {
	flight, err := s.lockFlight(ctx, tx, booking.FlightID)
	if err != nil {
		return err
	}

	label, err := s.allocate(ctx, tx, flight, seat.Class(booking.SeatClass))
	if err != nil {
		return err
	}

	filter := missingSeatFilter()
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldID,
		Value:    booking.ID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	if err = s.repo.UpdateTx(ctx, tx, map[string]any{
		model.FieldSeatNumber:    label,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: username,
	}, filter); err != nil {
		return fmt.Errorf("failed to update seat number: %w", err)
	}

	return nil
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

// getOwned loads a booking the actor may act on: its owner or an admin.
func (s *serviceImpl) getOwned(ctx context.Context, id string, actor shared.Actor) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.UserID != actor.UserID && !actor.IsAdmin() {
		return booking, failure.Wrap(http.StatusForbidden, model.ErrNotOwner) // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) lockFlight(ctx context.Context, tx *sqlx.Tx, id string) (flightModel.Flight, error) {
	flight, err := s.flightRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, flightModel.FieldID, flightModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to lock flight")

		return flight, fmt.Errorf("failed to lock flight: %w", err)
	}

	if flight.ID == constant.Empty {
		return flight, failure.NotFound("flight not found") // nolint:wrapcheck
	}

	return flight, nil
}

func (s *serviceImpl) allocate(ctx context.Context, tx *sqlx.Tx, flight flightModel.Flight, class seat.Class) (string, error) {
	labels, err := s.repo.OccupiedSeatsTx(ctx, tx, flight.ID)
	if err != nil {
		return "", fmt.Errorf("failed to read occupied seats: %w", err)
	}

	label, err := s.allocator.Allocate(flight.TotalSeats, class, seat.NewOccupied(labels...))
	if err != nil {
		log.Error().Err(err).Str("flight_id", flight.ID).Str("class", string(class)).Msg("seat allocation exhausted")

		return "", fmt.Errorf("failed to allocate seat: %w", err)
	}

	return label, nil
}

func (s *serviceImpl) setAvailableSeats(ctx context.Context, tx *sqlx.Tx, flight flightModel.Flight, available int, username string) error {
	if err := s.flightRepo.UpdateTx(ctx, tx, map[string]any{
		flightModel.FieldAvailableSeats: available,
		constant.FieldModifiedAt:        timezone.Now(),
		constant.FieldModifiedBy:        username,
	}, shared.FilterByID(flight.ID, flightModel.FieldID, flightModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update available seats")

		return fmt.Errorf("failed to update available seats: %w", err)
	}

	return nil
}

// newReference draws booking references until one is not in use.
func (s *serviceImpl) newReference(ctx context.Context) (string, error) {
	for range s.cfg.Booking.ReferenceAttempts {
		reference := model.NewReference()

		exist, err := s.repo.Exist(ctx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldReference,
					Value:    reference,
					Operator: gDto.FilterOperatorEq,
					Table:    model.TableName,
				},
			},
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to check booking reference")

			return "", fmt.Errorf("failed to check booking reference: %w", err)
		}

		if !exist {
			return reference, nil
		}
	}

	log.Error().Int("attempts", s.cfg.Booking.ReferenceAttempts).Msg("booking reference attempts exhausted")

	return "", failure.WrapWithMessage(http.StatusInternalServerError, model.ErrOperationFailed.Error(), model.ErrReferenceExhausted) // nolint:wrapcheck
}

// bookingFailure maps an error out of a booking transaction onto the client facing failure.
func (s *serviceImpl) bookingFailure(msg string, err error) error {
	switch {
	case errors.Is(err, model.ErrFlightDeparted), errors.Is(err, model.ErrNoSeatsAvailable):
		return failure.Wrap(http.StatusConflict, err) // nolint:wrapcheck
	case failure.GetCode(err) != http.StatusInternalServerError:
		return err
	default:
		log.Error().Err(err).Msg(msg)

		return failure.WrapWithMessage(http.StatusInternalServerError, model.ErrOperationFailed.Error(), fmt.Errorf("%s: %w", msg, err)) // nolint:wrapcheck
	}
}

func (s *serviceImpl) refundCutoff() time.Duration {
	return time.Duration(s.cfg.Booking.RefundCutoffHours) * time.Hour
}

func (s *serviceImpl) invalidateFlight(ctx context.Context, flightID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheKeyFlightGet, flightID)); err != nil {
			log.Error().Err(err).Msg("failed to delete flight from cache")
		}

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyFlightGets)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyFlightSearch)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyStatistics)
	}()
}

func missingSeatFilter() gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.ActiveStatuses,
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
				ArgName:  "active_status",
			},
			gDto.Filter{
				Operator: gDto.FilterPlainQuery,
				Value:    "bookings.seat_number IS NULL OR bookings.seat_number = ''",
			},
		},
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
}
