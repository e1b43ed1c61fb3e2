package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"skybook/config"
	"skybook/infras/otel"
	"skybook/infras/s3"
	"skybook/internal/domains/banner/model"
	"skybook/internal/domains/banner/model/dto"
	"skybook/internal/domains/banner/repository"
	"skybook/shared"
	"skybook/shared/cache"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	"skybook/shared/failure"
	"skybook/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	Positions      = []string{model.PositionMain, model.PositionSidebar, model.PositionHeader, model.PositionFooter}
	SortableFields = []string{model.FieldPriority, model.FieldTitle, model.FieldViewsCount, model.FieldClicksCount, constant.FieldCreatedAt}
)

type Banner interface {
	Create(ctx context.Context, req dto.CreateBannerRequest) (string, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBannersResponse, error)
	Get(ctx context.Context, id string) (dto.BannerResponse, error)
	Update(ctx context.Context, req dto.UpdateBannerRequest, id string) error
	Toggle(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	Active(ctx context.Context, position string) ([]dto.BannerResponse, error)
	Click(ctx context.Context, id string) (dto.ClickResponse, error)
}

type serviceImpl struct {
	repo  repository.Banner
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Banner, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Banner {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBannerRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".banner.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !req.ValidWindow() {
		return id, failure.BadRequestFromString("start_date must be before end_date") // nolint:wrapcheck
	}

	if req.ImageFile != nil && req.Image != nil {
		req.ImageURL, err = s.upload(ctx, req.ImageFile, req.Image)
		if err != nil {
			return id, err
		}
	}

	if req.ImageURL == constant.Empty {
		return id, failure.BadRequestFromString("either image or image_url is required") // nolint:wrapcheck
	}

	banner := req.ToModel(shared.ActorFromContext(ctx).Username())

	if err = s.repo.Insert(ctx, banner); err != nil {
		log.Error().Err(err).Msg("failed to create banner")

		return id, fmt.Errorf("failed to create banner: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	return banner.ID, nil
}

// GetAll is the admin listing. Counters move on every display, so it is never cached.
func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBannersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".banner.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	params.RestrictSort(model.FieldPriority, SortableFields...)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count banners")

		return res, fmt.Errorf("failed to count banners: %w", err)
	}

	banners, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get banners")

		return res, fmt.Errorf("failed to get banners: %w", err)
	}

	res.FromModels(banners, total, params.Limit, timezone.Now())

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BannerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".banner.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(constant.CacheKeyBannerGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for banner")

		return res, nil
	}

	banner, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(banner, timezone.Now())

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save banner to cache")
		}
	}()

	return res, nil
}

// Update replaces the image when a new file is uploaded and removes the old object afterwards.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBannerRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".banner.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	start, end := req.Window(current)
	if start != nil && end != nil && !start.Before(*end) {
		return failure.BadRequestFromString("start_date must be before end_date") // nolint:wrapcheck
	}

	if req.ImageFile != nil && req.Image != nil {
		req.ImageURL, err = s.upload(ctx, req.ImageFile, req.Image)
		if err != nil {
			return err
		}
	}

	fields := shared.TransformFields(req, shared.ActorFromContext(ctx).Username())

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update banner")

		return fmt.Errorf("failed to update banner: %w", err)
	}

	if req.ImageURL != constant.Empty && req.ImageURL != current.ImageURL {
		s.removeImage(ctx, current.ImageURL)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Toggle(ctx context.Context, id string) (active bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".banner.Toggle")
	defer scope.End()
	defer scope.TraceIfError(err)

	banner, err := s.get(ctx, id)
	if err != nil {
		return active, err
	}

	active = !banner.IsActive

	if err = s.repo.Update(ctx, map[string]any{
		model.FieldIsActive:      active,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.ActorFromContext(ctx).Username(),
	}, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to toggle banner")

		return banner.IsActive, fmt.Errorf("failed to toggle banner: %w", err)
	}

	s.invalidate(ctx, id)

	return active, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".banner.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	banner, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete banner")

		return fmt.Errorf("failed to delete banner: %w", err)
	}

	s.removeImage(ctx, banner.ImageURL)
	s.invalidate(ctx, id)

	return nil
}

// Active returns the banners on display at a position, highest priority first, and counts a
// view for each of them.
func (s *serviceImpl) Active(ctx context.Context, position string) (res []dto.BannerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".banner.Active")
	defer scope.End()
	defer scope.TraceIfError(err)

	if position == constant.Empty {
		position = model.PositionMain
	}

	if !slices.Contains(Positions, position) {
		return res, failure.BadRequestFromString("position must be one of " + strings.Join(Positions, ", ")) // nolint:wrapcheck
	}

	now := timezone.Now()
	cacheKey := shared.BuildCacheKey(constant.CacheKeyBannerActive, position)

	var banners []model.Banner

	if err = s.cache.Get(ctx, cacheKey, &banners); err != nil {
		banners, err = s.repo.GetAll(ctx, gDto.QueryParams{
			Page:    1,
			Limit:   model.LimitFor(position),
			SortBy:  model.FieldPriority,
			SortDir: gDto.SortDirDesc,
		}, activeFilter(position, now))
		if err != nil {
			log.Error().Err(err).Msg("failed to get active banners")

			return res, fmt.Errorf("failed to get active banners: %w", err)
		}

		go func(banners []model.Banner) {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, banners, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save active banners to cache")
			}
		}(banners)
	}

	ids := make([]string, 0, len(banners))
	res = make([]dto.BannerResponse, 0, len(banners))

	for _, banner := range banners {
		if !banner.IsCurrentlyActive(now) {
			continue
		}

		var item dto.BannerResponse
		item.FromModel(banner, now)

		res = append(res, item)
		ids = append(ids, banner.ID)
	}

	if len(ids) > 0 {
		if err := s.repo.IncrementViews(ctx, ids); err != nil {
			log.Warn().Err(err).Strs("banners", ids).Msg("failed to count banner views")
		}
	}

	return res, nil
}

func (s *serviceImpl) Click(ctx context.Context, id string) (res dto.ClickResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".banner.Click")
	defer scope.End()
	defer scope.TraceIfError(err)

	banner, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.repo.IncrementClicks(ctx, id); err != nil {
		log.Error().Err(err).Msg("failed to count banner click")

		return res, fmt.Errorf("failed to count banner click: %w", err)
	}

	res.LinkURL = banner.LinkURL

	return res, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Banner, error) {
	banner, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get banner")

		return banner, fmt.Errorf("failed to get banner: %w", err)
	}

	if banner.ID == constant.Empty {
		return banner, failure.NotFound("banner not found") // nolint:wrapcheck
	}

	return banner, nil
}

// upload stores the image under a fresh name and returns its public URL.
func (s *serviceImpl) upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	fileName := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))

	url, err := s.s3.UploadFile(ctx, model.EntityName, file, header, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload banner image")

		return constant.Empty, fmt.Errorf("failed to upload banner image: %w", err)
	}

	return url, nil
}

func (s *serviceImpl) removeImage(ctx context.Context, url string) {
	objectKey := s.s3.ObjectKeyFromURL(url)
	if objectKey == constant.Empty {
		return
	}

	go func() {
		if err := s.s3.DeleteObject(context.WithoutCancel(ctx), objectKey); err != nil {
			log.Error().Err(err).Str("objectKey", objectKey).Msg("failed to delete banner image")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheKeyBannerGet, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete banner from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyBannerActive)
	}()
}

// activeFilter selects switched-on banners at the position whose display window contains now.
func activeFilter(position string, now time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldIsActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldPosition, Value: position, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{Field: model.FieldStartDate, Operator: gDto.FilterIsNull, Table: model.TableName},
					gDto.Filter{Field: model.FieldStartDate, Value: now, Operator: gDto.FilterOperatorLessEq, Table: model.TableName, ArgName: "window_start"},
				},
			},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{Field: model.FieldEndDate, Operator: gDto.FilterIsNull, Table: model.TableName},
					gDto.Filter{Field: model.FieldEndDate, Value: now, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName, ArgName: "window_end"},
				},
			},
		},
	}
}
