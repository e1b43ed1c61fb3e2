package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"skybook/config"
	"skybook/infras/jwt"
	jwtMocks "skybook/infras/jwt/mocks"
	"skybook/infras/otel/mocks"
	"skybook/permissions"
	"skybook/shared"
	"skybook/shared/constant"
	"skybook/transport/http/middleware"
)

func newAuthRouter(t *testing.T, jwtService jwt.JWT, seen *shared.Actor) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	perms := &permissions.PermissionData{Endpoints: []permissions.Permission{
		{Path: "/v1/public", Method: http.MethodGet, Skip: true},
		{Path: "/v1/admin/items/{id}", Method: http.MethodGet, Permissions: []string{constant.RoleAdmin}},
		{Path: "/v1/mine/", Method: http.MethodGet, Permissions: []string{constant.RoleAdmin, constant.RoleManager, constant.RoleUser}},
	}}

	mw := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), perms, cfg)

	ok := func(w http.ResponseWriter, r *http.Request) {
		*seen = shared.ActorFromContext(r.Context())

		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(mw.APIKey)
		r.Use(mw.Auth)
		r.Use(mw.RBAC)

		r.Route("/v1", func(r chi.Router) {
			r.Get("/public", ok)
			r.Get("/admin/items/{id}", ok)
			r.Route("/mine", func(r chi.Router) {
				r.Get("/", ok)
			})
		})
	})

	return router
}

func TestAuthRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockJWT := jwtMocks.NewMockJWT(ctrl)

	managerClaims := &jwt.Claims{UserID: "mgr-1", Email: "mgr@sky.test", Role: constant.RoleManager, AirlineID: "airline-1"}
	adminClaims := &jwt.Claims{UserID: "admin-1", Email: "admin@sky.test", Role: constant.RoleAdmin}

	tests := []struct {
		name      string
		path      string
		headers   map[string]string
		setupMock func()
		wantCode  int
		wantActor shared.Actor
	}{
		{
			name:      "public route needs no token",
			path:      "/v1/public",
			setupMock: func() {},
			wantCode:  http.StatusOK,
		},
		{
			name:      "missing authorization header",
			path:      "/v1/mine",
			setupMock: func() {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "malformed authorization header",
			path:      "/v1/mine",
			headers:   map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			setupMock: func() {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			path:    "/v1/mine",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer stale"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "stale", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "claims without subject",
			path:    "/v1/mine",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer hollow"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "hollow", jwt.AccessToken).Return(&jwt.Claims{Role: constant.RoleUser}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "manager reaches any-role route with airline in context",
			path:    "/v1/mine/",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer mgr"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "mgr", jwt.AccessToken).Return(managerClaims, nil)
			},
			wantCode:  http.StatusOK,
			wantActor: shared.Actor{UserID: "mgr-1", Email: "mgr@sky.test", Role: constant.RoleManager, AirlineID: "airline-1"},
		},
		{
			name:    "manager refused on admin route",
			path:    "/v1/admin/items/42",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer mgr"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "mgr", jwt.AccessToken).Return(managerClaims, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:    "admin on admin route",
			path:    "/v1/admin/items/42",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer root"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "root", jwt.AccessToken).Return(adminClaims, nil)
			},
			wantCode:  http.StatusOK,
			wantActor: shared.Actor{UserID: "admin-1", Email: "admin@sky.test", Role: constant.RoleAdmin},
		},
		{
			name:      "internal api key skips auth",
			path:      "/v1/admin/items/42",
			headers:   map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			setupMock: func() {},
			wantCode:  http.StatusOK,
		},
		{
			name:      "wrong api key",
			path:      "/v1/admin/items/42",
			headers:   map[string]string{constant.RequestHeaderAPIKey: "guess"},
			setupMock: func() {},
			wantCode:  http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			var seen shared.Actor

			router := newAuthRouter(t, mockJWT, &seen)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantActor, seen)
		})
	}
}
