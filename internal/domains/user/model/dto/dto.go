package dto

import (
	"strings"
	"time"

	"skybook/internal/domains/user/model"
	"skybook/shared"
	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	gModel "skybook/shared/model"
	"skybook/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email     string  `json:"email"      validate:"required,email,max=255"`
	Password  string  `json:"password"   validate:"required,min=8,max=72"`
	FullName  *string `json:"full_name"  validate:"omitempty,max=100"`
	Phone     *string `json:"phone"      validate:"omitempty,phone"`
	Role      string  `json:"role"       validate:"omitempty,oneof=user manager admin"`
	AirlineID *string `json:"airline_id" validate:"omitempty,uuid"`
}

func (r *CreateUserRequest) ToModel(username, hashedPassword string) model.User {
	now := timezone.Now()

	role := r.Role
	if role == constant.Empty {
		role = constant.RoleUser
	}

	return model.User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(r.Email),
		Password:  hashedPassword,
		Role:      role,
		AirlineID: r.AirlineID,
		FullName:  r.FullName,
		Phone:     r.Phone,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UpdateProfileRequest struct {
	FullName string `db:"full_name" json:"full_name" validate:"omitempty,max=100"`
	Phone    string `db:"phone"     json:"phone"     validate:"omitempty,phone"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user manager admin"`
}

type AssignAirlineRequest struct {
	AirlineID string `json:"airline_id" validate:"required,uuid"`
}

type UserResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	AirlineID *string    `json:"airline_id"`
	FullName  *string    `json:"full_name"`
	Phone     *string    `json:"phone"`
	IsBlocked bool       `json:"is_blocked"`
	LastLogin *time.Time `json:"last_login"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Email = user.Email
	r.Role = user.Role
	r.AirlineID = user.AirlineID
	r.FullName = user.FullName
	r.Phone = user.Phone
	r.IsBlocked = user.IsBlocked
	r.LastLogin = user.LastLogin
	r.Metadata.FromModel(user.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
