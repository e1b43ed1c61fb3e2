package model

import (
	"strings"
	"time"

	"skybook/shared/constant"
	gDto "skybook/shared/dto"
	"skybook/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldAirlineID = "airline_id"
	FieldFullName  = "full_name"
	FieldPhone     = "phone"
	FieldIsBlocked = "is_blocked"
	FieldLastLogin = "last_login"
)

var Roles = []string{constant.RoleUser, constant.RoleManager, constant.RoleAdmin}

type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Role      string     `db:"role"`
	AirlineID *string    `db:"airline_id"`
	FullName  *string    `db:"full_name"`
	Phone     *string    `db:"phone"`
	IsBlocked bool       `db:"is_blocked"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}

// Airline is the airline a manager works for, empty for everyone else.
func (u User) Airline() string {
	if u.AirlineID == nil {
		return constant.Empty
	}

	return *u.AirlineID
}

// ByEmail matches an account on its stored lower-case email.
func ByEmail(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    strings.ToLower(email),
				Table:    TableName,
			},
		},
	}
}
