package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skybook/internal/domains/user/model"
	"skybook/internal/domains/user/model/dto"
	"skybook/shared/constant"
	gModel "skybook/shared/model"
)

func TestCreateUserRequest_ToModel(t *testing.T) {
	airline := "0b6f5bb4-65f4-4c43-a0d4-3a7a3c1e2f01"

	tests := []struct {
		name     string
		req      dto.CreateUserRequest
		wantRole string
	}{
		{
			name:     "role defaults to user",
			req:      dto.CreateUserRequest{Email: "Traveller@Sky.Test", Password: "secret-pass"},
			wantRole: constant.RoleUser,
		},
		{
			name:     "manager keeps airline",
			req:      dto.CreateUserRequest{Email: "ops@sky.test", Role: constant.RoleManager, AirlineID: &airline},
			wantRole: constant.RoleManager,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.req.ToModel("admin-1", "hashed")

			assert.NotEmpty(t, user.ID)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.Equal(t, "hashed", user.Password)
			assert.Equal(t, tt.req.AirlineID, user.AirlineID)
			assert.Equal(t, "admin-1", user.CreatedBy)
			assert.Equal(t, "admin-1", user.ModifiedBy)
			assert.Regexp(t, "^[a-z@.]+$", user.Email)
		})
	}
}

func TestGetUsersResponse_FromModels(t *testing.T) {
	lastLogin := time.Date(2026, 4, 2, 7, 0, 0, 0, time.UTC)
	models := []model.User{
		{ID: "u-1", Email: "a@sky.test", Role: constant.RoleUser, Password: "hash", LastLogin: &lastLogin, Metadata: gModel.Metadata{CreatedBy: "guest"}},
		{ID: "u-2", Email: "b@sky.test", Role: constant.RoleAdmin, IsBlocked: true},
	}

	res := dto.GetUsersResponse{}
	res.FromModels(models, 11, 5)

	assert.Equal(t, 11, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
	assert.Len(t, res.Users, 2)
	assert.Equal(t, &lastLogin, res.Users[0].LastLogin)
	assert.Equal(t, "guest", res.Users[0].CreatedBy)
	assert.True(t, res.Users[1].IsBlocked)
}
