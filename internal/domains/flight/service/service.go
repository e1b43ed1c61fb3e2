package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"skybook/config"
	"skybook/infras/otel"
	"skybook/infras/postgres"
	bookingModel "skybook/internal/domains/booking/model"
	bookingRepo "skybook/internal/domains/booking/repository"
	"skybook/internal/domains/flight/model"
	"skybook/internal/domains/flight/model/dto"
	"skybook/internal/domains/flight/repository"
	"skybook/shared"
	"skybook/shared/cache"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	"skybook/shared/failure"
	"skybook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const recentBookingsLimit = 10

var (
	SortableFields = []string{
		model.FieldDepartureTime, model.FieldArrivalTime, model.FieldFlightNumber,
		model.FieldAvailableSeats, model.FieldEconomyPrice, constant.FieldCreatedAt,
	}
)

type Flight interface {
	Create(ctx context.Context, req dto.CreateFlightRequest) (string, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetFlightsResponse, error)
	Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.FlightResponse, error)
	GetDetail(ctx context.Context, id string) (dto.FlightDetailResponse, error)
	Search(ctx context.Context, req dto.SearchFlightsRequest, params gDto.QueryParams) (dto.GetFlightsResponse, error)
	Update(ctx context.Context, req dto.UpdateFlightRequest, id string) error
	Delete(ctx context.Context, id string) error
	AdvanceStatus(ctx context.Context, id string) (dto.AdvanceStatusResponse, error)
	Reconcile(ctx context.Context, id string) (dto.ReconcileResponse, error)
	GetAirports(ctx context.Context, params gDto.QueryParams) ([]dto.AirportResponse, error)
	CreateAirport(ctx context.Context, req dto.CreateAirportRequest) error
	GetAirlines(ctx context.Context, params gDto.QueryParams) ([]dto.AirlineResponse, error)
	CreateAirline(ctx context.Context, req dto.CreateAirlineRequest) error
}

type serviceImpl struct {
	repo        repository.Flight
	directory   repository.Directory
	bookingRepo bookingRepo.Booking
	transactor  postgres.Transactor
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Flight,
	directory repository.Directory,
	bookingRepo bookingRepo.Booking,
	transactor postgres.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Flight {
	return &serviceImpl{
		repo:        repo,
		directory:   directory,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Create adds a flight. Managers always create flights for their own airline.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateFlightRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.ActorFromContext(ctx)

	airlineID := req.AirlineID
	if actor.IsManager() {
		if actor.AirlineID == constant.Empty {
			return id, failure.Forbidden("you are not assigned to an airline") // nolint:wrapcheck
		}

		airlineID = actor.AirlineID
	}

	if airlineID == constant.Empty {
		return id, failure.BadRequestFromString("airline_id is required") // nolint:wrapcheck
	}

	if err = s.checkReferences(ctx, airlineID, req.DepartureAirportID, req.ArrivalAirportID); err != nil {
		return id, err
	}

	flight := req.ToModel(airlineID, actor.Username())

	if err = s.repo.Insert(ctx, flight); err != nil {
		log.Error().Err(err).Msg("failed to create flight")

		return id, fmt.Errorf("failed to create flight: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	return flight.ID, nil
}

func (s *serviceImpl) checkReferences(ctx context.Context, airlineID, departureID, arrivalID string) error {
	exist, err := s.directory.AirlineExist(ctx, shared.FilterByID(airlineID, model.FieldID, model.AirlineTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if airline exists")

		return fmt.Errorf("failed to check if airline exists: %w", err)
	}

	if !exist {
		return failure.BadRequestFromString("airline does not exist") // nolint:wrapcheck
	}

	for _, airportID := range []string{departureID, arrivalID} {
		exist, err = s.directory.AirportExist(ctx, shared.FilterByID(airportID, model.FieldID, model.AirportTableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if airport exists")

			return fmt.Errorf("failed to check if airport exists: %w", err)
		}

		if !exist {
			return failure.BadRequestFromString("airport does not exist") // nolint:wrapcheck
		}
	}

	return nil
}

// GetAll lists flights. A manager only ever sees flights of their own airline.
func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetFlightsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err = s.scopeToAirline(ctx, filter)
	if err != nil {
		return res, err
	}

	params.RestrictSort(model.FieldDepartureTime, SortableFields...)

	return s.list(ctx, constant.CacheKeyFlightGets, params, filter)
}

func (s *serviceImpl) Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheKeyFlightCount, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for flight count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count flights")

		return res, fmt.Errorf("failed to count flights: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save flight count to cache")
		}
	}()

	return res, nil
}

// Search finds future flights with enough free seats. Cities match on a case-insensitive
// substring.
func (s *serviceImpl) Search(ctx context.Context, req dto.SearchFlightsRequest, params gDto.QueryParams) (res dto.GetFlightsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.Search")
	defer scope.End()
	defer scope.TraceIfError(err)

	from, to, err := req.Window(timezone.Now())
	if err != nil {
		return res, failure.BadRequestFromString("date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldDepartureTime,
				Value:    from,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
				ArgName:  "departure_from",
			},
			gDto.Filter{
				Field:    model.FieldAvailableSeats,
				Value:    max(req.Passengers, 1),
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.StatusCancelled,
				Operator: gDto.FilterOperatorNotEq,
				Table:    model.TableName,
			},
		},
	}

	if !to.IsZero() {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldDepartureTime,
			Value:    to,
			Operator: gDto.FilterOperatorLessEq,
			Table:    model.TableName,
			ArgName:  "departure_to",
		})
	}

	if city := strings.TrimSpace(req.From); city != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldCity,
			Value:    city,
			Operator: gDto.FilterOperatorLike,
			Table:    model.AliasDepartureAirport,
			ArgName:  "from_city",
		})
	}

	if city := strings.TrimSpace(req.To); city != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldCity,
			Value:    city,
			Operator: gDto.FilterOperatorLike,
			Table:    model.AliasArrivalAirport,
			ArgName:  "to_city",
		})
	}

	params.RestrictSort(model.FieldDepartureTime, SortableFields...)
	if params.SortBy == model.FieldDepartureTime {
		params.SortDir = gDto.SortDirAsc
	}

	return s.list(ctx, constant.CacheKeyFlightSearch, params, filter)
}

func (s *serviceImpl) list(ctx context.Context, prefix string, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetFlightsResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(prefix, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for flights")

		return res, nil
	}

	total, err := s.Count(ctx, params, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get flights")

		return res, fmt.Errorf("failed to get flights: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save flights to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.FlightResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(constant.CacheKeyFlightGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for flight")

		return res, nil
	}

	flight, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(flight)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save flight to cache")
		}
	}()

	return res, nil
}

// GetDetail is the staff view: occupancy, revenue per cabin class and the latest bookings.
func (s *serviceImpl) GetDetail(ctx context.Context, id string) (res dto.FlightDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.GetDetail")
	defer scope.End()
	defer scope.TraceIfError(err)

	flight, err := s.getManaged(ctx, id)
	if err != nil {
		return res, err
	}

	classes, err := s.bookingRepo.ClassSummary(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get class summary")

		return res, fmt.Errorf("failed to get class summary: %w", err)
	}

	recent, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{
		Page:    1,
		Limit:   recentBookingsLimit,
		SortBy:  bookingModel.FieldBookedAt,
		SortDir: gDto.SortDirDesc,
	}, shared.FilterByID(id, bookingModel.FieldFlightID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get recent bookings")

		return res, fmt.Errorf("failed to get recent bookings: %w", err)
	}

	res.FromModel(flight, classes, recent)

	return res, nil
}

// Update changes a flight. Changing the seat count recounts availability under the flight lock.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateFlightRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Empty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	flight, err := s.getManaged(ctx, id)
	if err != nil {
		return err
	}

	departure, arrival := req.Schedule(flight)
	if !arrival.After(departure) {
		return failure.BadRequestFromString("arrival_time must be after departure_time") // nolint:wrapcheck
	}

	username := shared.ActorFromContext(ctx).Username()
	fields := shared.TransformFields(req, username)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if req.TotalSeats == 0 {
		if err = s.repo.Update(ctx, fields, filter); err != nil {
			log.Error().Err(err).Msg("failed to update flight")

			return fmt.Errorf("failed to update flight: %w", err)
		}

		s.invalidate(ctx, id)

		return nil
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := s.repo.GetForUpdateTx(ctx, tx, filter); err != nil {
			return fmt.Errorf("failed to lock flight: %w", err)
		}

		active, err := s.countActiveTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.TotalSeats < active {
			return failure.Conflict(fmt.Sprintf("flight already has %d active bookings", active)) // nolint:wrapcheck
		}

		fields[model.FieldTotalSeats] = req.TotalSeats
		fields[model.FieldAvailableSeats] = req.TotalSeats - active

		return s.repo.UpdateTx(ctx, tx, fields, filter) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update flight")

		if failure.GetCode(err) != http.StatusInternalServerError {
			return err
		}

		return fmt.Errorf("failed to update flight: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete removes a flight that never had a booking. Bookings are kept forever, so a booked
// flight can only be cancelled.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.getManaged(ctx, id); err != nil {
		return err
	}

	bookings, err := s.bookingRepo.Count(ctx, shared.FilterByID(id, bookingModel.FieldFlightID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to count flight bookings")

		return fmt.Errorf("failed to count flight bookings: %w", err)
	}

	if bookings > 0 {
		return failure.Conflict(fmt.Sprintf("flight has %d bookings and cannot be deleted", bookings)) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete flight")

		return fmt.Errorf("failed to delete flight: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) AdvanceStatus(ctx context.Context, id string) (res dto.AdvanceStatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.AdvanceStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	flight, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.Previous = flight.Status
	res.Status = flight.NextStatus()

	if err = s.repo.Update(ctx, map[string]any{
		model.FieldStatus:        res.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.ActorFromContext(ctx).Username(),
	}, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to advance flight status")

		return res, fmt.Errorf("failed to advance flight status: %w", err)
	}

	log.Info().Str("flight_id", id).Str("from", res.Previous).Str("to", res.Status).Msg("flight status advanced")

	s.invalidate(ctx, id)

	return res, nil
}

// Reconcile resets available_seats to total_seats minus the active bookings.
func (s *serviceImpl) Reconcile(ctx context.Context, id string) (res dto.ReconcileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.Reconcile")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		filter := shared.FilterByID(id, model.FieldID, model.TableName)

		flight, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to lock flight: %w", err)
		}

		if flight.ID == constant.Empty {
			return failure.NotFound("flight not found") // nolint:wrapcheck
		}

		active, err := s.countActiveTx(ctx, tx, id)
		if err != nil {
			return err
		}

		res = dto.ReconcileResponse{
			FlightID:       id,
			TotalSeats:     flight.TotalSeats,
			ActiveBookings: active,
			Before:         flight.AvailableSeats,
			After:          max(flight.TotalSeats-active, 0),
		}

		if res.After == res.Before {
			return nil
		}

		return s.repo.UpdateTx(ctx, tx, map[string]any{ //nolint:wrapcheck
			model.FieldAvailableSeats: res.After,
			constant.FieldModifiedAt:  timezone.Now(),
			constant.FieldModifiedBy:  shared.ActorFromContext(ctx).Username(),
		}, filter)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to reconcile flight availability")

		if failure.GetCode(err) != http.StatusInternalServerError {
			return res, err
		}

		return res, fmt.Errorf("failed to reconcile flight availability: %w", err)
	}

	if res.After != res.Before {
		log.Warn().Str("flight_id", id).Int("before", res.Before).Int("after", res.After).Msg("available seats drifted and were reconciled")

		s.invalidate(ctx, id)
	}

	return res, nil
}

func (s *serviceImpl) GetAirports(ctx context.Context, params gDto.QueryParams) (res []dto.AirportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.GetAirports")
	defer scope.End()
	defer scope.TraceIfError(err)

	params.RestrictSort("code", "code", "city", "name")
	params.SortDir = gDto.SortDirAsc

	airports, err := s.directory.GetAirports(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get airports")

		return res, fmt.Errorf("failed to get airports: %w", err)
	}

	res = make([]dto.AirportResponse, len(airports))
	for i, airport := range airports {
		res[i].FromModel(airport)
	}

	return res, nil
}

func (s *serviceImpl) CreateAirport(ctx context.Context, req dto.CreateAirportRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.CreateAirport")
	defer scope.End()
	defer scope.TraceIfError(err)

	req.Code = strings.ToUpper(req.Code)

	exist, err := s.directory.AirportExist(ctx, shared.FilterByID(req.Code, "code", model.AirportTableName))
	if err != nil {
		return fmt.Errorf("failed to check airport code: %w", err)
	}

	if exist {
		return failure.Conflict("airport code already exists") // nolint:wrapcheck
	}

	if err = s.directory.InsertAirport(ctx, req.ToModel()); err != nil {
		log.Error().Err(err).Msg("failed to create airport")

		return fmt.Errorf("failed to create airport: %w", err)
	}

	return nil
}

func (s *serviceImpl) GetAirlines(ctx context.Context, params gDto.QueryParams) (res []dto.AirlineResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.GetAirlines")
	defer scope.End()
	defer scope.TraceIfError(err)

	params.RestrictSort("name", "code", "name")
	params.SortDir = gDto.SortDirAsc

	airlines, err := s.directory.GetAirlines(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get airlines")

		return res, fmt.Errorf("failed to get airlines: %w", err)
	}

	res = make([]dto.AirlineResponse, len(airlines))
	for i, airline := range airlines {
		res[i].FromModel(airline)
	}

	return res, nil
}

func (s *serviceImpl) CreateAirline(ctx context.Context, req dto.CreateAirlineRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".flight.CreateAirline")
	defer scope.End()
	defer scope.TraceIfError(err)

	req.Code = strings.ToUpper(req.Code)

	exist, err := s.directory.AirlineExist(ctx, shared.FilterByID(req.Code, "code", model.AirlineTableName))
	if err != nil {
		return fmt.Errorf("failed to check airline code: %w", err)
	}

	if exist {
		return failure.Conflict("airline code already exists") // nolint:wrapcheck
	}

	if err = s.directory.InsertAirline(ctx, req.ToModel()); err != nil {
		log.Error().Err(err).Msg("failed to create airline")

		return fmt.Errorf("failed to create airline: %w", err)
	}

	return nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Flight, error) {
	flight, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get flight")

		return flight, fmt.Errorf("failed to get flight: %w", err)
	}

	if flight.ID == constant.Empty {
		return flight, failure.NotFound("flight not found") // nolint:wrapcheck
	}

	return flight, nil
}

// getManaged loads a flight the actor may administer: any flight for an admin, own airline
// flights for a manager.
func (s *serviceImpl) getManaged(ctx context.Context, id string) (model.Flight, error) {
	flight, err := s.get(ctx, id)
	if err != nil {
		return flight, err
	}

	actor := shared.ActorFromContext(ctx)
	if actor.IsManager() && flight.AirlineID != actor.AirlineID {
		return flight, failure.Forbidden("flight belongs to another airline") // nolint:wrapcheck
	}

	return flight, nil
}

func (s *serviceImpl) scopeToAirline(ctx context.Context, filter gDto.FilterGroup) (gDto.FilterGroup, error) {
	actor := shared.ActorFromContext(ctx)
	if !actor.IsManager() {
		return filter, nil
	}

	if actor.AirlineID == constant.Empty {
		return filter, failure.Forbidden("you are not assigned to an airline") // nolint:wrapcheck
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			filter,
			gDto.Filter{
				Field:    model.FieldAirlineID,
				Value:    actor.AirlineID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
				ArgName:  "scope_airline_id",
			},
		},
	}, nil
}

func (s *serviceImpl) countActiveTx(ctx context.Context, tx *sqlx.Tx, flightID string) (int, error) {
	active, err := s.bookingRepo.CountTx(ctx, tx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldFlightID,
				Value:    flightID,
				Operator: gDto.FilterOperatorEq,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Value:    bookingModel.ActiveStatuses,
				Operator: gDto.FilterOperatorIn,
				Table:    bookingModel.TableName,
				ArgName:  "active_status",
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to count active bookings")

		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}

	return active, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheKeyFlightGet, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete flight from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyFlightGets)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyFlightCount)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyFlightSearch)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyStatistics)
	}()
}
