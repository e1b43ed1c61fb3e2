package permissions_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skybook/permissions"
	"skybook/shared/constant"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.False(t, data.Skip)
	assert.NotEmpty(t, data.Endpoints)

	seen := make(map[string]bool, len(data.Endpoints))
	for _, endpoint := range data.Endpoints {
		key := endpoint.Method + " " + endpoint.Path
		assert.False(t, seen[key], "duplicate endpoint %s", key)

		seen[key] = true

		if !endpoint.Skip {
			assert.NotEmpty(t, endpoint.Permissions, "%s has neither roles nor skip", key)
		}
	}
}

func TestPermissionData_Validate(t *testing.T) {
	tests := []struct {
		name    string
		data    permissions.PermissionData
		wantErr string
	}{
		{
			name: "valid",
			data: permissions.PermissionData{Endpoints: []permissions.Permission{
				{Path: "/v1/bookings/", Method: http.MethodPost, Permissions: []string{constant.RoleUser}},
				{Path: "/v1/bookings/", Method: http.MethodGet, Skip: true},
			}},
		},
		{
			name: "duplicate route",
			data: permissions.PermissionData{Endpoints: []permissions.Permission{
				{Path: "/v1/bookings/", Method: http.MethodPost, Skip: true},
				{Path: "/v1/bookings/", Method: http.MethodPost, Permissions: []string{constant.RoleAdmin}},
			}},
			wantErr: "duplicate permission entry POST /v1/bookings/",
		},
		{
			name: "unknown role",
			data: permissions.PermissionData{Endpoints: []permissions.Permission{
				{Path: "/v1/manager/passengers", Method: http.MethodGet, Permissions: []string{"pilot"}},
			}},
			wantErr: `unknown role "pilot" on GET /v1/manager/passengers`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestPermissionData_FindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name      string
		path      string
		method    string
		wantSkip  bool
		wantRoles []string
	}{
		{name: "login is public", path: "/v1/auth/login", method: http.MethodPost, wantSkip: true},
		{name: "flight search is public", path: "/v1/flights/search", method: http.MethodGet, wantSkip: true},
		{
			name:      "booking is open to every role",
			path:      "/v1/bookings/",
			method:    http.MethodPost,
			wantRoles: []string{constant.RoleAdmin, constant.RoleManager, constant.RoleUser},
		},
		{
			name:      "manifest is staff only",
			path:      "/v1/manager/passengers",
			method:    http.MethodGet,
			wantRoles: []string{constant.RoleAdmin, constant.RoleManager},
		},
		{
			name:      "seat repair is admin only",
			path:      "/v1/admin/bookings/assign-seats",
			method:    http.MethodPost,
			wantRoles: []string{constant.RoleAdmin},
		},
		{name: "method must match", path: "/v1/auth/login", method: http.MethodGet},
		{name: "unknown route", path: "/v1/nowhere", method: http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.wantSkip, permission.Skip)
			assert.ElementsMatch(t, tt.wantRoles, permission.Permissions)
		})
	}
}
