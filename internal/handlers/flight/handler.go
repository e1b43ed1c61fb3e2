package flight

import (
	"net/http"

	"skybook/infras/otel"
	"skybook/internal/domains/flight/model"
	"skybook/internal/domains/flight/model/dto"
	"skybook/internal/domains/flight/service"
	"skybook/shared"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	"skybook/shared/timezone"
	"skybook/shared/validator"
	"skybook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Flight
	otel    otel.Otel
}

func New(service service.Flight, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/flights", func(routerGroup chi.Router) {
		routerGroup.Get("/search", handler.SearchFlights)
		routerGroup.Get("/{id}", handler.GetFlightByID)
	})

	router.Get("/airports", handler.GetAirports)
	router.Get("/airlines", handler.GetAirlines)

	router.Route("/manager/flights", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateFlight)
		routerGroup.Get("/", handler.GetFlights)
		routerGroup.Get("/{id}", handler.GetFlightDetail)
		routerGroup.Patch("/{id}", handler.UpdateFlight)
		routerGroup.Delete("/{id}", handler.DeleteFlight)
	})

	router.Post("/admin/flights/{id}/advance-status", handler.AdvanceStatus)
	router.Post("/admin/flights/{id}/reconcile", handler.Reconcile)
	router.Post("/admin/airports", handler.CreateAirport)
	router.Post("/admin/airlines", handler.CreateAirline)
}

// SearchFlights finds bookable flights.
// @Summary Search flights
// @Description Future flights with enough free seats. Cities match on a substring, date is YYYY-MM-DD.
// @Tags Flight
// @Produce json
// @Param from query string false "Departure city"
// @Param to query string false "Arrival city"
// @Param date query string false "Departure date"
// @Param passengers query integer false "Number of passengers"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetFlightsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/flights/search [get]
func (handler *Handler) SearchFlights(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchFlights")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	req := dto.SearchFlightsRequest{}
	req.FromRequest(request)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate search request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Search(ctx, req, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search flights")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetFlightByID returns the public view of a flight.
// @Summary Get a flight
// @Tags Flight
// @Produce json
// @Param id path string true "Flight ID"
// @Success 200 {object} response.Data[dto.FlightResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/flights/{id} [get]
func (handler *Handler) GetFlightByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFlightByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get flight by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// CreateFlight schedules a new flight.
// @Summary Create a flight
// @Description Managers always create flights for their own airline, admins must pass airline_id.
// @Tags Flight
// @Accept json
// @Produce json
// @Param request body dto.CreateFlightRequest true "Create Flight Request"
// @Success 201 {object} response.Data[string] "Flight ID"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/manager/flights [post]
// @Security BearerAuth
func (handler *Handler) CreateFlight(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateFlight")
	defer scope.End()

	req := dto.CreateFlightRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create flight")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Flight created by user " + shared.ActorFromContext(ctx).Username())

	response.WithJSON(writer, http.StatusCreated, id)
}

// GetFlights lists flights for staff.
// @Summary List flights
// @Description Managers only see flights of their own airline.
// @Tags Flight
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param flight_number query string false "Filter by flight number"
// @Param status query string false "Filter by status"
// @Param departure_airport_id query string false "Filter by departure airport"
// @Param arrival_airport_id query string false "Filter by arrival airport"
// @Param airline_id query string false "Filter by airline"
// @Param date query string false "Departure date, YYYY-MM-DD"
// @Param min_seats query integer false "Minimum available seats"
// @Success 200 {object} response.Data[dto.GetFlightsResponse]
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/manager/flights [get]
// @Security BearerAuth
func (handler *Handler) GetFlights(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFlights")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	query := request.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldFlightNumber,
				Operator: gDto.FilterOperatorLike,
				Value:    query.Get(model.FieldFlightNumber),
				Table:    model.TableName,
			},
		},
	}

	for _, field := range []string{model.FieldStatus, model.FieldDepartureAirportID, model.FieldArrivalAirportID, model.FieldAirlineID} {
		if value := query.Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	if date := query.Get("date"); date != "" {
		if day, err := timezone.Parse(dto.DateLayout, date); err == nil {
			filterGroup.Filters = append(filterGroup.Filters,
				gDto.Filter{
					Field:    model.FieldDepartureTime,
					Operator: gDto.FilterOperatorGreaterEq,
					Value:    day,
					Table:    model.TableName,
					ArgName:  "day_start",
				},
				gDto.Filter{
					Field:    model.FieldDepartureTime,
					Operator: gDto.FilterOperatorLessEq,
					Value:    day.AddDate(0, 0, 1).Add(-1),
					Table:    model.TableName,
					ArgName:  "day_end",
				},
			)
		}
	}

	if seats, err := shared.ConvertStringToInt(query.Get("min_seats")); err == nil && seats > 0 {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldAvailableSeats,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    seats,
			Table:    model.TableName,
		})
	}

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get flights")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetFlightDetail returns the staff view of a flight.
// @Summary Flight detail
// @Description Occupancy, class breakdown with revenue and the latest bookings.
// @Tags Flight
// @Produce json
// @Param id path string true "Flight ID"
// @Success 200 {object} response.Data[dto.FlightDetailResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/manager/flights/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetFlightDetail(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFlightDetail")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.GetDetail(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get flight detail")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateFlight changes a flight.
// @Summary Update a flight
// @Description A new total_seats is rejected when it is below the active bookings.
// @Tags Flight
// @Accept json
// @Produce json
// @Param id path string true "Flight ID"
// @Param request body dto.UpdateFlightRequest true "Update Flight Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/manager/flights/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateFlight(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateFlight")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	req := dto.UpdateFlightRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update flight")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Flight updated by user " + shared.ActorFromContext(ctx).Username())

	response.WithMessage(writer, http.StatusOK, "Flight updated successfully")
}

// DeleteFlight removes a flight that has never been booked.
// @Summary Delete a flight
// @Tags Flight
// @Produce json
// @Param id path string true "Flight ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Flight has bookings"
// @Failure 500 {object} response.Error
// @Router /v1/manager/flights/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteFlight(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteFlight")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete flight")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Flight deleted by user " + shared.ActorFromContext(ctx).Username())

	response.WithMessage(writer, http.StatusOK, "Flight deleted successfully")
}

// AdvanceStatus moves the flight to its next status.
// @Summary Advance flight status
// @Tags Admin
// @Produce json
// @Param id path string true "Flight ID"
// @Success 200 {object} response.Data[dto.AdvanceStatusResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/flights/{id}/advance-status [post]
// @Security BearerAuth
func (handler *Handler) AdvanceStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AdvanceStatus")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.AdvanceStatus(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to advance flight status")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// Reconcile recomputes the available seat counter from the active bookings.
// @Summary Reconcile available seats
// @Tags Admin
// @Produce json
// @Param id path string true "Flight ID"
// @Success 200 {object} response.Data[dto.ReconcileResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/flights/{id}/reconcile [post]
// @Security BearerAuth
func (handler *Handler) Reconcile(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Reconcile")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.Reconcile(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reconcile flight")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetAirports lists airports.
// @Summary List airports
// @Tags Directory
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[[]dto.AirportResponse]
// @Failure 500 {object} response.Error
// @Router /v1/airports [get]
func (handler *Handler) GetAirports(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAirports")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	res, err := handler.service.GetAirports(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get airports")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// CreateAirport adds an airport.
// @Summary Create an airport
// @Tags Directory
// @Accept json
// @Produce json
// @Param request body dto.CreateAirportRequest true "Create Airport Request"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/airports [post]
// @Security BearerAuth
func (handler *Handler) CreateAirport(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAirport")
	defer scope.End()

	req := dto.CreateAirportRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.CreateAirport(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create airport")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusCreated, "Airport created successfully")
}

// GetAirlines lists airlines.
// @Summary List airlines
// @Tags Directory
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[[]dto.AirlineResponse]
// @Failure 500 {object} response.Error
// @Router /v1/airlines [get]
func (handler *Handler) GetAirlines(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAirlines")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	res, err := handler.service.GetAirlines(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get airlines")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// CreateAirline adds an airline.
// @Summary Create an airline
// @Tags Directory
// @Accept json
// @Produce json
// @Param request body dto.CreateAirlineRequest true "Create Airline Request"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/airlines [post]
// @Security BearerAuth
func (handler *Handler) CreateAirline(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAirline")
	defer scope.End()

	req := dto.CreateAirlineRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.CreateAirline(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create airline")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusCreated, "Airline created successfully")
}
