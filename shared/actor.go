package shared

import (
	"context"

	"skybook/shared/constant"
)

// Actor is the authenticated caller as placed on the request context by the auth middleware.
type Actor struct {
	UserID    string
	Email     string
	Role      string
	AirlineID string
}

func ActorFromContext(ctx context.Context) Actor {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	airlineID, _ := ctx.Value(constant.ContextKeyAirlineID).(string)

	return Actor{
		UserID:    userID,
		Email:     email,
		Role:      role,
		AirlineID: airlineID,
	}
}

func (a Actor) IsAdmin() bool {
	return a.Role == constant.RoleAdmin
}

func (a Actor) IsManager() bool {
	return a.Role == constant.RoleManager
}

// Username is what gets written to created_by / modified_by.
func (a Actor) Username() string {
	if a.UserID == "" {
		return constant.ContextGuest
	}

	return a.UserID
}

// WithActor is the inverse of ActorFromContext.
func WithActor(ctx context.Context, actor Actor) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, actor.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, actor.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, actor.Role)

	return context.WithValue(ctx, constant.ContextKeyAirlineID, actor.AirlineID)
}
