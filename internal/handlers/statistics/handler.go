package statistics

import (
	"net/http"

	"skybook/infras/otel"
	"skybook/internal/domains/statistics/model/dto"
	"skybook/internal/domains/statistics/service"
	"skybook/shared/constant"
	"skybook/shared/validator"
	"skybook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Statistics
	otel    otel.Otel
}

func New(service service.Statistics, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/manager/statistics", handler.GetStatistics)
}

// GetStatistics reports flight and booking totals.
// @Summary Dashboard statistics
// @Description Admins see every airline, managers their own. Bookings are counted by booking date within the period.
// @Tags Statistics
// @Produce json
// @Param period query string false "today, week, month or all" Enums(today, week, month, all)
// @Success 200 {object} response.Data[dto.StatisticsResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/manager/statistics [get]
// @Security BearerAuth
func (handler *Handler) GetStatistics(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStatistics")
	defer scope.End()

	req := dto.StatisticsRequest{}
	req.FromRequest(request)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate statistics request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Get(ctx, req.Period)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get statistics")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
