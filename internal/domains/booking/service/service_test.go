package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"skybook/config"
	"skybook/infras/otel/mocks"
	"skybook/infras/postgres"
	pgMocks "skybook/infras/postgres/mocks"
	bookingMocks "skybook/internal/domains/booking/mocks"
	"skybook/internal/domains/booking/model"
	"skybook/internal/domains/booking/model/dto"
	"skybook/internal/domains/booking/seat"
	"skybook/internal/domains/booking/service"
	flightMocks "skybook/internal/domains/flight/mocks"
	flightModel "skybook/internal/domains/flight/model"
	"skybook/shared"
	cacheMocks "skybook/shared/cache/mocks"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	"skybook/shared/failure"
	"skybook/shared/timezone"
)

const (
	ownerID = "user-1"
	otherID = "user-2"
)

type fixture struct {
	repo       *bookingMocks.MockBooking
	flights    *flightMocks.MockFlight
	transactor *pgMocks.MockTransactor
	publisher  *bookingMocks.MockPublisher
	cache      *cacheMocks.MockRedisCache
	svc        service.Booking
}

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.TTL = 300
	cfg.Booking.RefundCutoffHours = 24
	cfg.Booking.MaxSeatCap = 200
	cfg.Booking.BandScanRows = 50
	cfg.Booking.ReferenceAttempts = 5
	cfg.Booking.FallbackAttempts = 20
	cfg.Booking.AllocationAttempts = 3

	return cfg
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	cfg := newConfig()

	f := fixture{
		repo:       bookingMocks.NewMockBooking(ctrl),
		flights:    flightMocks.NewMockFlight(ctrl),
		transactor: pgMocks.NewMockTransactor(ctrl),
		publisher:  bookingMocks.NewMockPublisher(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	f.svc = service.New(f.repo, f.flights, f.transactor, seat.NewAllocator(cfg), f.publisher, cfg, f.cache, mocks.NewOtel())

	f.transactor.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn postgres.TxFunc) error {
			return fn(ctx, nil)
		}).
		AnyTimes()

	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func actorContext(userID, role, airlineID string) context.Context {
	return shared.WithActor(context.Background(), shared.Actor{UserID: userID, Role: role, AirlineID: airlineID})
}

func waitForCache() {
	time.Sleep(10 * time.Millisecond)
}

// store keeps one flight and its bookings in memory behind the repository mocks.
type store struct {
	flight   flightModel.Flight
	bookings map[string]model.Booking
	order    []string
}

func newStore(flight flightModel.Flight) *store {
	return &store{flight: flight, bookings: map[string]model.Booking{}}
}

func (s *store) add(booking model.Booking) {
	s.bookings[booking.ID] = booking
	s.order = append(s.order, booking.ID)
}

func (s *store) active() int {
	count := 0

	for _, b := range s.bookings {
		if b.IsActive() {
			count++
		}
	}

	return count
}

func (s *store) seats() []string {
	var labels []string

	for _, id := range s.order {
		if b := s.bookings[id]; b.IsActive() && b.Seat() != "" {
			labels = append(labels, b.Seat())
		}
	}

	return labels
}

func (s *store) withFlight(b model.Booking) model.Booking {
	b.DepartureTime = s.flight.DepartureTime
	b.FlightNumber = s.flight.FlightNumber

	return b
}

func (s *store) expect(f fixture) {
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()

	f.flights.EXPECT().
		GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ gDto.FilterGroup, _ ...string) (flightModel.Flight, error) {
			return s.flight, nil
		}).
		AnyTimes()

	f.flights.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
			s.flight.AvailableSeats, _ = req[flightModel.FieldAvailableSeats].(int)

			return nil
		}).
		AnyTimes()

	f.repo.EXPECT().
		OccupiedSeatsTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ string) ([]string, error) {
			return s.seats(), nil
		}).
		AnyTimes()

	f.repo.EXPECT().
		InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
			s.add(s.withFlight(b))

			return nil
		}).
		AnyTimes()

	f.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
			return s.bookings[filterID(filter)], nil
		}).
		AnyTimes()

	f.repo.EXPECT().
		GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
			return s.bookings[filterID(filter)], nil
		}).
		AnyTimes()

	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error {
			id := filterID(filter)
			b := s.bookings[id]

			if status, ok := req[model.FieldStatus].(string); ok {
				b.Status = status
			}

			if at, ok := req[model.FieldCancelledAt].(time.Time); ok {
				b.CancelledAt = &at
			}

			if label, ok := req[model.FieldSeatNumber].(string); ok {
				b.SeatNumber = &label
			}

			s.bookings[id] = b

			return nil
		}).
		AnyTimes()
}

func filterID(filter gDto.FilterGroup) string {
	for _, f := range filter.Filters {
		if fl, ok := f.(gDto.Filter); ok && fl.Field == model.FieldID {
			id, _ := fl.Value.(string)

			return id
		}
	}

	return ""
}

func newFlight(totalSeats, available int, departsIn time.Duration) flightModel.Flight {
	return flightModel.Flight{
		ID:             "flight-1",
		FlightNumber:   "SB101",
		TotalSeats:     totalSeats,
		AvailableSeats: available,
		EconomyPrice:   8500,
		DepartureTime:  timezone.Now().Add(departsIn),
		ArrivalTime:    timezone.Now().Add(departsIn + 2*time.Hour),
		Status:         flightModel.StatusScheduled,
	}
}

func bookingRequest(class string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		FlightID: "flight-1",
		Passenger: dto.Passenger{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		},
		SeatClass: class,
	}
}

func TestBookingService_Create_LastSeat(t *testing.T) {
	f := newFixture(t)
	st := newStore(newFlight(180, 1, 72*time.Hour))
	st.expect(f)

	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1)

	ctx := actorContext(ownerID, constant.RoleUser, "")

	res, err := f.svc.Create(ctx, bookingRequest(string(seat.ClassEconomy)))
	assert.NoError(t, err)

	row, _, ok := seat.Parse(res.SeatNumber)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, row, 1)
	assert.LessOrEqual(t, row, 144)
	assert.Equal(t, 8500.0, res.PricePaid)
	assert.Equal(t, model.StatusConfirmed, res.Status)
	assert.Len(t, res.Reference, model.ReferenceLength)
	assert.Equal(t, 0, st.flight.AvailableSeats)

	_, err = f.svc.Create(ctx, bookingRequest(string(seat.ClassEconomy)))
	assert.ErrorIs(t, err, model.ErrNoSeatsAvailable)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	assert.Len(t, st.bookings, 1)

	waitForCache()
}

func TestBookingService_Create_DistinctSeats(t *testing.T) {
	f := newFixture(t)
	st := newStore(newFlight(180, 180, 72*time.Hour))
	st.expect(f)

	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

	ctx := actorContext(ownerID, constant.RoleUser, "")
	classes := []string{"economy", "business", "first", "economy", "first", "business"}
	seen := map[string]bool{}

	for i := range 60 {
		res, err := f.svc.Create(ctx, bookingRequest(classes[i%len(classes)]))
		assert.NoError(t, err)
		assert.False(t, seen[res.SeatNumber], "seat %s handed out twice", res.SeatNumber)

		seen[res.SeatNumber] = true

		assert.Equal(t, 180, st.flight.AvailableSeats+st.active())
	}

	waitForCache()
}

func TestBookingService_Create_SmallAircraftFallback(t *testing.T) {
	f := newFixture(t)
	st := newStore(newFlight(10, 10, 72*time.Hour))
	st.expect(f)

	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

	ctx := actorContext(ownerID, constant.RoleUser, "")

	var labels []string

	for range 5 {
		res, err := f.svc.Create(ctx, bookingRequest(string(seat.ClassBusiness)))
		assert.NoError(t, err)

		labels = append(labels, res.SeatNumber)
	}

	assert.Equal(t, []string{"9A", "9B", "9C", "9D", "1A"}, labels)

	waitForCache()
}

func TestBookingService_Create(t *testing.T) {
	uniqueViolation := &pq.Error{Code: constant.PqErrorCodeUniqueViolation}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   error
		wantCode  int
	}{
		{
			name: "flight departed",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.flights.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(newFlight(180, 50, -time.Hour), nil)
			},
			wantErr:  model.ErrFlightDeparted,
			wantCode: http.StatusConflict,
		},
		{
			name: "flight not found",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.flights.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(flightModel.Flight{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "reference attempts exhausted",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil).Times(5)
			},
			wantErr:  model.ErrReferenceExhausted,
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "insert fails and nothing is decremented",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.flights.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(newFlight(180, 50, 48*time.Hour), nil)
				f.repo.EXPECT().OccupiedSeatsTx(gomock.Any(), gomock.Any(), "flight-1").Return(nil, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantErr:  model.ErrOperationFailed,
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "seat taken concurrently is retried",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
				f.flights.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(newFlight(180, 50, 48*time.Hour), nil).
					Times(2)
				f.repo.EXPECT().OccupiedSeatsTx(gomock.Any(), gomock.Any(), "flight-1").Return(nil, nil)
				f.repo.EXPECT().OccupiedSeatsTx(gomock.Any(), gomock.Any(), "flight-1").Return([]string{"1A"}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(uniqueViolation)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
						assert.Equal(t, "1B", b.Seat())

						return nil
					})
				f.flights.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, 49, req[flightModel.FieldAvailableSeats])

						return nil
					})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "unique violations exhaust the retries",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(3)
				f.flights.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(newFlight(180, 50, 48*time.Hour), nil).
					Times(3)
				f.repo.EXPECT().OccupiedSeatsTx(gomock.Any(), gomock.Any(), "flight-1").Return(nil, nil).Times(3)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(uniqueViolation).Times(3)
			},
			wantErr:  model.ErrOperationFailed,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Create(actorContext(ownerID, constant.RoleUser, ""), bookingRequest(string(seat.ClassEconomy)))

			waitForCache()

			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))

			if tt.wantErr != nil {
				if tt.wantErr == model.ErrOperationFailed {
					assert.Equal(t, model.ErrOperationFailed.Error(), err.Error())
				} else {
					assert.ErrorIs(t, err, tt.wantErr)
				}
			}
		})
	}
}

func TestBookingService_Cancel_Refund(t *testing.T) {
	f := newFixture(t)
	st := newStore(newFlight(180, 180, 10*24*time.Hour))
	st.expect(f)

	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(2)

	ctx := actorContext(ownerID, constant.RoleUser, "")

	created, err := f.svc.Create(ctx, bookingRequest(string(seat.ClassBusiness)))
	assert.NoError(t, err)
	assert.Equal(t, 179, st.flight.AvailableSeats)

	res, err := f.svc.Cancel(ctx, created.ID, dto.CancelBookingRequest{})
	assert.NoError(t, err)
	assert.Equal(t, model.StatusRefunded, res.Status)
	assert.False(t, res.AlreadyCancelled)

	if assert.NotNil(t, res.RefundedAmount) {
		assert.Equal(t, 17000.0, *res.RefundedAmount)
	}

	stored := st.bookings[created.ID]
	assert.Equal(t, model.StatusRefunded, stored.Status)
	assert.NotNil(t, stored.CancelledAt)
	assert.Equal(t, 180, st.flight.AvailableSeats)

	waitForCache()
}

func TestBookingService_Cancel_NoRefund(t *testing.T) {
	f := newFixture(t)
	st := newStore(newFlight(180, 180, 3*time.Hour))
	st.expect(f)

	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(2)

	ctx := actorContext(ownerID, constant.RoleUser, "")

	created, err := f.svc.Create(ctx, bookingRequest(string(seat.ClassEconomy)))
	assert.NoError(t, err)

	res, err := f.svc.Cancel(ctx, created.ID, dto.CancelBookingRequest{Reason: "change of plans"})
	assert.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, res.Status)
	assert.Nil(t, res.RefundedAmount)
	assert.Equal(t, 180, st.flight.AvailableSeats)

	// cancel again: informational, no mutation
	again, err := f.svc.Cancel(ctx, created.ID, dto.CancelBookingRequest{})
	assert.NoError(t, err)
	assert.True(t, again.AlreadyCancelled)
	assert.Equal(t, model.StatusCancelled, again.Status)
	assert.Equal(t, 180, st.flight.AvailableSeats)

	waitForCache()
}

func TestBookingService_Cancel_SeatIsReleased(t *testing.T) {
	f := newFixture(t)
	st := newStore(newFlight(180, 180, 48*time.Hour))
	st.expect(f)

	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

	ctx := actorContext(ownerID, constant.RoleUser, "")

	first, err := f.svc.Create(ctx, bookingRequest(string(seat.ClassFirst)))
	assert.NoError(t, err)

	_, err = f.svc.Cancel(ctx, first.ID, dto.CancelBookingRequest{})
	assert.NoError(t, err)

	second, err := f.svc.Create(ctx, bookingRequest(string(seat.ClassFirst)))
	assert.NoError(t, err)
	assert.Equal(t, first.SeatNumber, second.SeatNumber)

	waitForCache()
}

func TestBookingService_Cancel(t *testing.T) {
	departure := timezone.Now().Add(48 * time.Hour)
	seatLabel := "3C"

	confirmed := model.Booking{
		ID:            "booking-1",
		Reference:     "ABC123",
		UserID:        ownerID,
		FlightID:      "flight-1",
		SeatNumber:    &seatLabel,
		PricePaid:     100,
		Status:        model.StatusConfirmed,
		DepartureTime: departure,
	}

	refunded := confirmed
	refunded.Status = model.StatusRefunded

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f fixture)
		want      dto.CancelBookingResponse
		wantCode  int
	}{
		{
			name: "booking not found",
			ctx:  actorContext(ownerID, constant.RoleUser, ""),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "someone else's booking",
			ctx:  actorContext(otherID, constant.RoleUser, ""),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "already refunded",
			ctx:  actorContext(ownerID, constant.RoleUser, ""),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(refunded, nil)
			},
			want: dto.AlreadyCancelled(model.StatusRefunded),
		},
		{
			name: "cancelled concurrently while waiting for the lock",
			ctx:  actorContext(ownerID, constant.RoleUser, ""),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
				f.flights.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(newFlight(180, 100, 48*time.Hour), nil)
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(refunded, nil)
			},
			want: dto.AlreadyCancelled(model.StatusRefunded),
		},
		{
			name: "admin cancels any booking",
			ctx:  actorContext("admin-1", constant.RoleAdmin, ""),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
				f.flights.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(newFlight(180, 180, 48*time.Hour), nil)
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(confirmed, nil)
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusRefunded, req[model.FieldStatus])
						assert.Equal(t, model.DefaultCancellationReason, req[model.FieldCancellationReason])
						assert.Equal(t, "admin-1", req[constant.FieldModifiedBy])

						return nil
					})
				f.flights.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, 180, req[flightModel.FieldAvailableSeats])

						return nil
					})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
			want: func() dto.CancelBookingResponse {
				var res dto.CancelBookingResponse
				res.FromCancellation(model.Cancellation{Status: model.StatusRefunded, RefundedAmount: 100})

				return res
			}(),
		},
		{
			name: "update fails and the transaction is rolled back",
			ctx:  actorContext(ownerID, constant.RoleUser, ""),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
				f.flights.EXPECT().
					GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(newFlight(180, 100, 48*time.Hour), nil)
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(confirmed, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("deadlock detected"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Cancel(tt.ctx, confirmed.ID, dto.CancelBookingRequest{})

			waitForCache()

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	booking := model.Booking{
		ID:            "booking-1",
		UserID:        ownerID,
		Status:        model.StatusConfirmed,
		DepartureTime: timezone.Now().Add(12 * time.Hour),
	}

	tests := []struct {
		name     string
		ctx      context.Context
		stored   model.Booking
		wantCode int
		check    func(t *testing.T, res dto.BookingDetailResponse)
	}{
		{
			name:   "owner inside the refund cutoff",
			ctx:    actorContext(ownerID, constant.RoleUser, ""),
			stored: booking,
			check: func(t *testing.T, res dto.BookingDetailResponse) {
				assert.True(t, res.CanBeCancelled)
				assert.False(t, res.CanBeRefunded)
				assert.Equal(t, model.CancellationTypeNoRefund, res.CancellationType)
				assert.InDelta(t, 12, res.TimeUntilDepartureHours, 0.1)
			},
		},
		{
			name:   "admin reads any booking",
			ctx:    actorContext("admin-1", constant.RoleAdmin, ""),
			stored: booking,
			check: func(t *testing.T, res dto.BookingDetailResponse) {
				assert.Equal(t, "booking-1", res.ID)
			},
		},
		{
			name:     "other user",
			ctx:      actorContext(otherID, constant.RoleUser, ""),
			stored:   booking,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "missing",
			ctx:      actorContext(ownerID, constant.RoleUser, ""),
			stored:   model.Booking{},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.stored, nil)

			res, err := f.svc.Get(tt.ctx, "booking-1")
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestBookingService_GetMine(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		Count(gomock.Any(), shared.FilterByID(ownerID, model.FieldUserID, model.TableName)).
		Return(12, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			assert.Equal(t, model.FieldBookedAt, params.SortBy)

			return []model.Booking{{ID: "b1", UserID: ownerID}, {ID: "b2", UserID: ownerID}}, nil
		})

	res, err := f.svc.GetMine(actorContext(ownerID, constant.RoleUser, ""), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "password"})
	assert.NoError(t, err)
	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Bookings, 2)
}

func TestBookingService_Manifest(t *testing.T) {
	tests := []struct {
		name        string
		ctx         context.Context
		flightID    string
		wantFilters int
		wantCode    int
	}{
		{name: "admin sees every airline", ctx: actorContext("admin-1", constant.RoleAdmin, ""), wantFilters: 0},
		{name: "manager scoped to airline", ctx: actorContext("mgr-1", constant.RoleManager, "airline-1"), wantFilters: 1},
		{name: "manager with flight filter", ctx: actorContext("mgr-1", constant.RoleManager, "airline-1"), flightID: "flight-1", wantFilters: 2},
		{name: "manager without airline", ctx: actorContext("mgr-1", constant.RoleManager, ""), wantCode: http.StatusForbidden},
		{name: "traveller", ctx: actorContext(ownerID, constant.RoleUser, ""), wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.wantCode == 0 {
				f.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
						assert.Len(t, filter.Filters, tt.wantFilters)

						return 1, nil
					})
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{{ID: "b1"}}, nil)
			}

			res, err := f.svc.Manifest(tt.ctx, gDto.QueryParams{Page: 1, Limit: 10}, tt.flightID)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Len(t, res.Bookings, 1)
		})
	}
}

func TestBookingService_AssignSeats(t *testing.T) {
	f := newFixture(t)
	st := newStore(newFlight(180, 177, 48*time.Hour))

	taken := "1A"
	st.add(model.Booking{ID: "seated", FlightID: "flight-1", SeatClass: "economy", SeatNumber: &taken, Status: model.StatusConfirmed})
	st.add(model.Booking{ID: "missing-1", FlightID: "flight-1", SeatClass: "economy", Status: model.StatusConfirmed})
	st.add(model.Booking{ID: "missing-2", FlightID: "flight-1", SeatClass: "first", Status: model.StatusCheckedIn})
	st.expect(f)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{st.bookings["missing-1"], st.bookings["missing-2"]}, nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1)

	res, err := f.svc.AssignSeats(actorContext("admin-1", constant.RoleAdmin, ""))
	assert.NoError(t, err)
	assert.Equal(t, dto.AssignSeatsResponse{Pending: 2, Assigned: 2}, res)
	assert.Equal(t, "1B", st.bookings["missing-1"].Seat())
	assert.Equal(t, "172A", st.bookings["missing-2"].Seat())
	assert.Equal(t, 177, st.flight.AvailableSeats)

	waitForCache()
}

func TestBookingService_AssignSeats_SkipsFailures(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{{ID: "b1", FlightID: "gone"}, {ID: "b2", FlightID: "flight-1", SeatClass: "economy"}}, nil)
	f.flights.EXPECT().
		GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(flightModel.Flight{}, nil)
	f.flights.EXPECT().
		GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(newFlight(180, 100, 48*time.Hour), nil)
	f.repo.EXPECT().OccupiedSeatsTx(gomock.Any(), gomock.Any(), "flight-1").Return([]string{"1A"}, nil)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	res, err := f.svc.AssignSeats(actorContext("admin-1", constant.RoleAdmin, ""))
	assert.NoError(t, err)
	assert.Equal(t, dto.AssignSeatsResponse{Pending: 2, Assigned: 1, Failed: 1}, res)

	waitForCache()
}
