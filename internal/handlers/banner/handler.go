package banner

import (
	"net/http"

	"skybook/infras/otel"
	"skybook/internal/domains/banner/model"
	"skybook/internal/domains/banner/model/dto"
	"skybook/internal/domains/banner/service"
	"skybook/shared"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	"skybook/shared/failure"
	"skybook/shared/validator"
	"skybook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const formFieldImage = "image"

type Handler struct {
	service service.Banner
	otel    otel.Otel
}

func New(service service.Banner, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/banners", func(routerGroup chi.Router) {
		routerGroup.Get("/active", handler.GetActiveBanners)
		routerGroup.Post("/{id}/click", handler.ClickBanner)
	})

	router.Route("/admin/banners", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBanner)
		routerGroup.Get("/", handler.GetBanners)
		routerGroup.Get("/{id}", handler.GetBannerByID)
		routerGroup.Patch("/{id}", handler.UpdateBanner)
		routerGroup.Delete("/{id}", handler.DeleteBanner)
		routerGroup.Post("/{id}/toggle", handler.ToggleBanner)
	})
}

// bannerForm holds the multipart fields shared by create and update.
type bannerForm struct {
	title, imageURL, position string
	description, linkURL      *string
	isActive                  *bool
	priority                  *int
}

func readBannerForm(request *http.Request) (form bannerForm, err error) {
	if err = request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return form, failure.BadRequest(err) // nolint:wrapcheck
	}

	form.title = request.FormValue(model.FieldTitle)
	form.imageURL = request.FormValue(model.FieldImageURL)
	form.position = request.FormValue(model.FieldPosition)

	if value := request.FormValue("description"); value != constant.Empty {
		form.description = &value
	}

	if value := request.FormValue("link_url"); value != constant.Empty {
		form.linkURL = &value
	}

	if value := request.FormValue(model.FieldIsActive); value != constant.Empty {
		form.isActive = shared.ConvertStringToBool(value)
	}

	if value := request.FormValue(model.FieldPriority); value != constant.Empty {
		priority, err := shared.ConvertStringToInt(value)
		if err != nil {
			return form, failure.BadRequestFromString("priority must be a number") // nolint:wrapcheck
		}

		form.priority = &priority
	}

	return form, nil
}

// CreateBanner handles the creation of a new banner.
// @Summary Create a banner
// @Description Create a banner from a multipart form. Either an image file or image_url is required.
// @Tags Banner
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param image formData file false "Image file"
// @Param image_url formData string false "Image URL"
// @Param link_url formData string false "Link URL"
// @Param is_active formData boolean false "Active switch"
// @Param start_date formData string false "Display start"
// @Param end_date formData string false "Display end"
// @Param position formData string false "main, sidebar, header or footer"
// @Param priority formData integer false "Priority"
// @Success 201 {object} response.Data[string]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/banners [post]
// @Security BearerAuth
func (handler *Handler) CreateBanner(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBanner")
	defer scope.End()

	form, err := readBannerForm(request)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.CreateBannerRequest{
		Title:       form.title,
		Description: form.description,
		ImageURL:    form.imageURL,
		LinkURL:     form.linkURL,
		IsActive:    form.isActive,
		Position:    form.position,
	}

	if form.priority != nil {
		req.Priority = *form.priority
	}

	if req.StartDate, err = dto.ParseFormDate(request.FormValue(model.FieldStartDate)); err == nil {
		req.EndDate, err = dto.ParseFormDate(request.FormValue(model.FieldEndDate))
	}

	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := request.FormFile(formFieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create banner")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Banner created by user " + shared.ActorFromContext(ctx).Username())

	response.WithJSON(writer, http.StatusCreated, id)
}

// GetBanners lists every banner for administration.
// @Summary Get banners
// @Tags Banner
// @Produce json
// @Param title query string false "Filter by title"
// @Param position query string false "Filter by position"
// @Param is_active query boolean false "Filter by active switch"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBannersResponse]
// @Failure 500 {object} response.Error
// @Router /v1/admin/banners [get]
// @Security BearerAuth
func (handler *Handler) GetBanners(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBanners")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	query := request.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if title := query.Get(model.FieldTitle); title != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    title,
			Table:    model.TableName,
		})
	}

	if position := query.Get(model.FieldPosition); position != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldPosition,
			Operator: gDto.FilterOperatorEq,
			Value:    position,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(query.Get(model.FieldIsActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	banners, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get banners")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, banners)
}

// GetBannerByID retrieves a banner by its ID.
// @Summary Get a banner
// @Tags Banner
// @Produce json
// @Param id path string true "Banner ID"
// @Success 200 {object} response.Data[dto.BannerResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/banners/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBannerByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBannerByID")
	defer scope.End()

	banner, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get banner")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, banner)
}

// UpdateBanner updates a banner from a multipart form. Omitted fields keep their value.
// @Summary Update a banner
// @Tags Banner
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Banner ID"
// @Param title formData string false "Title"
// @Param image formData file false "Replacement image"
// @Param image_url formData string false "Image URL"
// @Param is_active formData boolean false "Active switch"
// @Param start_date formData string false "Display start"
// @Param end_date formData string false "Display end"
// @Param position formData string false "Position"
// @Param priority formData integer false "Priority"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/banners/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBanner(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBanner")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	form, err := readBannerForm(request)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")
		response.WithError(writer, err)

		return
	}

	req := dto.UpdateBannerRequest{
		Title:       form.title,
		Description: form.description,
		ImageURL:    form.imageURL,
		LinkURL:     form.linkURL,
		IsActive:    form.isActive,
		Position:    form.position,
		Priority:    form.priority,
	}

	if req.StartDate, err = dto.ParseFormDate(request.FormValue(model.FieldStartDate)); err == nil {
		req.EndDate, err = dto.ParseFormDate(request.FormValue(model.FieldEndDate))
	}

	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := request.FormFile(formFieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update banner")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Banner updated successfully")
}

// DeleteBanner removes a banner and its stored image.
// @Summary Delete a banner
// @Tags Banner
// @Produce json
// @Param id path string true "Banner ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/banners/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBanner(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBanner")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete banner")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Banner deleted successfully")
}

// ToggleBanner flips the active switch.
// @Summary Toggle a banner
// @Tags Banner
// @Produce json
// @Param id path string true "Banner ID"
// @Success 200 {object} response.Data[bool]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/banners/{id}/toggle [post]
// @Security BearerAuth
func (handler *Handler) ToggleBanner(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleBanner")
	defer scope.End()

	active, err := handler.service.Toggle(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle banner")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, active)
}

// GetActiveBanners returns the banners on display at a position.
// @Summary Active banners
// @Tags Banner
// @Produce json
// @Param position query string false "main (default), sidebar, header or footer"
// @Success 200 {object} response.Data[[]dto.BannerResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/banners/active [get]
func (handler *Handler) GetActiveBanners(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActiveBanners")
	defer scope.End()

	banners, err := handler.service.Active(ctx, request.URL.Query().Get(model.FieldPosition))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get active banners")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, banners)
}

// ClickBanner records a click and returns where to send the visitor.
// @Summary Click a banner
// @Tags Banner
// @Produce json
// @Param id path string true "Banner ID"
// @Success 200 {object} response.Data[dto.ClickResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/banners/{id}/click [post]
func (handler *Handler) ClickBanner(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ClickBanner")
	defer scope.End()

	res, err := handler.service.Click(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to record banner click")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
