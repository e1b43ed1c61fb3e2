package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"skybook/config"
	otelMocks "skybook/infras/otel/mocks"
	s3Mocks "skybook/infras/s3/mocks"
	bannerMocks "skybook/internal/domains/banner/mocks"
	"skybook/internal/domains/banner/model"
	"skybook/internal/domains/banner/model/dto"
	"skybook/internal/domains/banner/service"
	"skybook/shared"
	cacheMocks "skybook/shared/cache/mocks"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	"skybook/shared/failure"
	"skybook/shared/timezone"
)

type fixture struct {
	repo  *bannerMocks.MockBanner
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
	svc   service.Banner
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &fixture{
		repo:  bannerMocks.NewMockBanner(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
		ctx:   shared.WithActor(context.Background(), shared.Actor{UserID: "admin-1", Email: "admin@skybook.test", Role: constant.RoleAdmin}),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f.svc = service.New(f.repo, cfg, f.cache, otelMocks.NewOtel(), f.s3)

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func uploadedImage(t *testing.T) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	file, err := os.CreateTemp(t.TempDir(), "banner-*.png")
	assert.NoError(t, err)

	t.Cleanup(func() { _ = file.Close() })

	return file, &multipart.FileHeader{Filename: "Summer.PNG", Size: 1024}
}

func ptr[T any](v T) *T {
	return &v
}

func TestBannerService_Create(t *testing.T) {
	start := timezone.Now()
	end := start.Add(-time.Hour)

	tests := []struct {
		name      string
		req       func(t *testing.T) dto.CreateBannerRequest
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "image url only",
			req: func(*testing.T) dto.CreateBannerRequest {
				return dto.CreateBannerRequest{Title: "Summer sale", ImageURL: "https://images.example.com/summer.png"}
			},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, banner model.Banner) error {
						assert.Equal(t, model.PositionMain, banner.Position)
						assert.True(t, banner.IsActive)
						assert.Equal(t, "admin-1", banner.CreatedBy)

						return nil
					})
			},
		},
		{
			name: "uploaded image",
			req: func(t *testing.T) dto.CreateBannerRequest {
				file, header := uploadedImage(t)

				return dto.CreateBannerRequest{Title: "Winter", Position: model.PositionSidebar, Image: header, ImageFile: file}
			},
			setupMock: func(f *fixture) {
				f.s3.EXPECT().
					UploadFile(gomock.Any(), model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, _ multipart.File, _ *multipart.FileHeader, fileName string) (string, error) {
						assert.True(t, strings.HasSuffix(fileName, ".png"))

						return "https://cdn.skybook.test/banner/" + fileName, nil
					})
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, banner model.Banner) error {
						assert.True(t, strings.HasPrefix(banner.ImageURL, "https://cdn.skybook.test/banner/"))
						assert.Equal(t, model.PositionSidebar, banner.Position)

						return nil
					})
			},
		},
		{
			name: "no image at all",
			req: func(*testing.T) dto.CreateBannerRequest {
				return dto.CreateBannerRequest{Title: "Empty"}
			},
			setupMock: func(*fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "window ends before it starts",
			req: func(*testing.T) dto.CreateBannerRequest {
				return dto.CreateBannerRequest{Title: "Late", ImageURL: "https://images.example.com/late.png", StartDate: &start, EndDate: &end}
			},
			setupMock: func(*fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "upload failure",
			req: func(t *testing.T) dto.CreateBannerRequest {
				file, header := uploadedImage(t)

				return dto.CreateBannerRequest{Title: "Broken", Image: header, ImageFile: file}
			},
			setupMock: func(f *fixture) {
				f.s3.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("s3 down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			id, err := f.svc.Create(f.ctx, tt.req(t))
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}
}

func TestBannerService_GetAll(t *testing.T) {
	f := newFixture(t)

	params := gDto.QueryParams{Page: 1, Limit: 10, SortBy: "password", SortDir: gDto.SortDirDesc}

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(12, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Banner, error) {
			assert.Equal(t, model.FieldPriority, params.SortBy)

			return []model.Banner{{ID: "b1", IsActive: true, ViewsCount: 200, ClicksCount: 3}}, nil
		})

	res, err := f.svc.GetAll(f.ctx, params, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Banners, 1)
	assert.InDelta(t, 1.5, res.Banners[0].ClickRate, 0.001)
	assert.True(t, res.Banners[0].IsCurrentlyActive)
}

func TestBannerService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "from repository",
			setupMock: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "banner:get:b1", gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Banner{ID: "b1", Title: "Summer"}, nil)
			},
		},
		{
			name: "from cache",
			setupMock: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "banner:get:b1", gomock.Any()).Return(nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Banner{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Get(f.ctx, "b1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBannerService_Update(t *testing.T) {
	now := timezone.Now()
	stored := model.Banner{
		ID:        "b1",
		Title:     "Summer",
		ImageURL:  "https://cdn.skybook.test/banner/old.png",
		StartDate: ptr(now.Add(-time.Hour)),
		EndDate:   ptr(now.Add(24 * time.Hour)),
	}

	tests := []struct {
		name      string
		req       func(t *testing.T) dto.UpdateBannerRequest
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "priority only",
			req: func(*testing.T) dto.UpdateBannerRequest {
				return dto.UpdateBannerRequest{Priority: ptr(20)}
			},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, ptr(20), fields[model.FieldPriority])
						assert.NotContains(t, fields, model.FieldImageURL)

						return nil
					})
			},
		},
		{
			name: "new image replaces the old object",
			req: func(t *testing.T) dto.UpdateBannerRequest {
				file, header := uploadedImage(t)

				return dto.UpdateBannerRequest{Image: header, ImageFile: file}
			},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
				f.s3.EXPECT().UploadFile(gomock.Any(), model.EntityName, gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn.skybook.test/banner/new.png", nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "https://cdn.skybook.test/banner/new.png", fields[model.FieldImageURL])

						return nil
					})
				f.s3.EXPECT().ObjectKeyFromURL(stored.ImageURL).Return("banner/old.png")
				f.s3.EXPECT().DeleteObject(gomock.Any(), "banner/old.png").Return(nil)
			},
		},
		{
			name: "end moved before the stored start",
			req: func(*testing.T) dto.UpdateBannerRequest {
				return dto.UpdateBannerRequest{EndDate: ptr(now.Add(-2 * time.Hour))}
			},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "not found",
			req: func(*testing.T) dto.UpdateBannerRequest {
				return dto.UpdateBannerRequest{Title: "Autumn"}
			},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Banner{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "update failure",
			req: func(*testing.T) dto.UpdateBannerRequest {
				return dto.UpdateBannerRequest{Title: "Autumn"}
			},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(f.ctx, tt.req(t), "b1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBannerService_Toggle(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Banner{ID: "b1", IsActive: true}, nil)
	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, false, fields[model.FieldIsActive])

			return nil
		})

	active, err := f.svc.Toggle(f.ctx, "b1")
	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.False(t, active)
}

func TestBannerService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "stored image removed",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Banner{ID: "b1", ImageURL: "https://cdn.skybook.test/banner/a.png"}, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				f.s3.EXPECT().ObjectKeyFromURL("https://cdn.skybook.test/banner/a.png").Return("banner/a.png")
				f.s3.EXPECT().DeleteObject(gomock.Any(), "banner/a.png").Return(nil)
			},
		},
		{
			name: "foreign image left alone",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Banner{ID: "b1", ImageURL: "https://images.example.com/a.png"}, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				f.s3.EXPECT().ObjectKeyFromURL(gomock.Any()).Return("")
			},
		},
		{
			name: "not found",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Banner{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(f.ctx, "b1")
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBannerService_Active(t *testing.T) {
	now := timezone.Now()

	tests := []struct {
		name      string
		position  string
		setupMock func(f *fixture)
		wantIDs   []string
		wantCode  int
	}{
		{
			name:     "sidebar shows up to three by priority",
			position: model.PositionSidebar,
			setupMock: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "banner:active:sidebar", gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Banner, error) {
						assert.Equal(t, model.SidebarLimit, params.Limit)
						assert.Equal(t, model.FieldPriority, params.SortBy)
						assert.Equal(t, gDto.SortDirDesc, params.SortDir)
						assert.Len(t, filter.Filters, 4)

						return []model.Banner{
							{ID: "b1", IsActive: true, Priority: 9},
							{ID: "b2", IsActive: true, Priority: 5, EndDate: ptr(now.Add(-time.Minute))},
						}, nil
					})
				f.repo.EXPECT().IncrementViews(gomock.Any(), []string{"b1"}).Return(nil)
			},
			wantIDs: []string{"b1"},
		},
		{
			name:     "empty position defaults to main",
			position: "",
			setupMock: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "banner:active:main", gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Banner{}, nil)
			},
			wantIDs: []string{},
		},
		{
			name:     "view counting failure does not hide banners",
			position: model.PositionHeader,
			setupMock: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Banner{{ID: "b3", IsActive: true}}, nil)
				f.repo.EXPECT().IncrementViews(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantIDs: []string{"b3"},
		},
		{
			name:      "unknown position",
			position:  "popup",
			setupMock: func(*fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:     "repository failure",
			position: model.PositionFooter,
			setupMock: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Active(context.Background(), tt.position)
			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)

			ids := make([]string, 0, len(res))
			for _, banner := range res {
				ids = append(ids, banner.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestBannerService_Click(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *fixture)
		want      *string
		wantCode  int
	}{
		{
			name: "counted",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Banner{ID: "b1", LinkURL: ptr("https://skybook.test/deals")}, nil)
				f.repo.EXPECT().IncrementClicks(gomock.Any(), "b1").Return(nil)
			},
			want: ptr("https://skybook.test/deals"),
		},
		{
			name: "not found",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Banner{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Click(context.Background(), "b1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, res.LinkURL)
		})
	}
}
