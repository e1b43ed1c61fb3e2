package service

import (
	"context"
	"fmt"

	"skybook/config"
	"skybook/infras/otel"
	flightModel "skybook/internal/domains/flight/model"
	flightRepo "skybook/internal/domains/flight/repository"
	"skybook/internal/domains/user/model"
	"skybook/internal/domains/user/model/dto"
	"skybook/internal/domains/user/repository"
	"skybook/shared"
	"skybook/shared/cache"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	"skybook/shared/failure"
	"skybook/shared/password"
	"skybook/shared/timezone"

	"github.com/rs/zerolog/log"
)

var SortableFields = []string{model.FieldEmail, model.FieldRole, model.FieldFullName, model.FieldLastLogin, constant.FieldCreatedAt}

type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (string, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) error
	ChangeRole(ctx context.Context, req dto.ChangeRoleRequest, id string) error
	SetBlocked(ctx context.Context, id string, blocked bool) error
	AssignAirline(ctx context.Context, req dto.AssignAirlineRequest, id string) error
}

type serviceImpl struct {
	repo      repository.User
	directory flightRepo.Directory
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.User, directory flightRepo.Directory, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:      repo,
		directory: directory,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// Create lets an admin add an account of any role, typically airline staff.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.AirlineID != nil && req.Role != constant.RoleManager {
		return id, failure.BadRequestFromString("only managers belong to an airline") // nolint:wrapcheck
	}

	if req.AirlineID != nil {
		if err = s.checkAirline(ctx, *req.AirlineID); err != nil {
			return id, err
		}
	}

	exists, err := s.repo.Exist(ctx, model.ByEmail(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return id, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return id, failure.Conflict("email already registered") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return id, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToModel(shared.ActorFromContext(ctx).Username(), hashedPassword)

	if err = s.repo.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return id, fmt.Errorf("failed to create user: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	return user.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	params.RestrictSort(constant.FieldCreatedAt, SortableFields...)

	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheKeyUserGets, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save users to cache")
		}
	}()

	return res, nil
}

// Get returns a profile. Anyone but an admin may only read their own.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.ActorFromContext(ctx)
	if !actor.IsAdmin() && actor.UserID != id {
		return res, failure.Forbidden("you can only view your own profile") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(constant.CacheKeyUserGet, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for user")

		return res, nil
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save user to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.UpdateProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateProfileRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)

	return s.update(ctx, actor.UserID, shared.TransformFields(req, actor.Username()))
}

// ChangeRole moves a user between roles. Leaving the manager role drops the airline.
func (s *serviceImpl) ChangeRole(ctx context.Context, req dto.ChangeRoleRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.ChangeRole")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.ActorFromContext(ctx)
	if actor.UserID == id {
		return failure.BadRequestFromString("you cannot change your own role") // nolint:wrapcheck
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == req.Role {
		return nil
	}

	fields := map[string]any{
		model.FieldRole:          req.Role,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor.Username(),
	}

	if req.Role != constant.RoleManager && user.AirlineID != nil {
		fields[model.FieldAirlineID] = nil
	}

	return s.update(ctx, id, fields)
}

func (s *serviceImpl) SetBlocked(ctx context.Context, id string, blocked bool) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.SetBlocked")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := shared.ActorFromContext(ctx)
	if actor.UserID == id {
		return failure.BadRequestFromString("you cannot block yourself") // nolint:wrapcheck
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if user.IsBlocked == blocked {
		return nil
	}

	log.Info().Str("user_id", id).Bool("blocked", blocked).Str("by", actor.Username()).Msg("user block state changed")

	return s.update(ctx, id, map[string]any{
		model.FieldIsBlocked:     blocked,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor.Username(),
	})
}

// AssignAirline attaches a manager to the airline whose flights they administer.
func (s *serviceImpl) AssignAirline(ctx context.Context, req dto.AssignAirlineRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.AssignAirline")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if user.Role != constant.RoleManager {
		return failure.BadRequestFromString("only managers can be assigned to an airline") // nolint:wrapcheck
	}

	if err = s.checkAirline(ctx, req.AirlineID); err != nil {
		return err
	}

	return s.update(ctx, id, map[string]any{
		model.FieldAirlineID:     req.AirlineID,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.ActorFromContext(ctx).Username(),
	})
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.User, error) {
	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found") // nolint:wrapcheck
	}

	return user, nil
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) error {
	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) checkAirline(ctx context.Context, airlineID string) error {
	exist, err := s.directory.AirlineExist(ctx, shared.FilterByID(airlineID, flightModel.FieldID, flightModel.AirlineTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check airline")

		return fmt.Errorf("failed to check airline: %w", err)
	}

	if !exist {
		return failure.BadRequestFromString("airline does not exist") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheKeyUserGet, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete user from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyUserGets)
	}()
}
