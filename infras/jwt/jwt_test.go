package jwt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"skybook/config"
	"skybook/infras/jwt"
	"skybook/infras/otel/mocks"
)

func newService(accessMin int) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "skybook"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = accessMin
	cfg.JWT.RefreshExpireMin = 60

	return jwt.New(cfg, mocks.NewOtel())
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := newService(15)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, jwt.Subject{UserID: "u1", Email: "m@skybook.test", Role: "manager", AirlineID: "a1"})
	assert.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "a1", claims.AirlineID)

	refresh, err := svc.ValidateToken(ctx, pair.RefreshToken, jwt.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, jwt.RefreshToken, refresh.Type)
}

func TestJWT_ValidateToken(t *testing.T) {
	ctx := context.Background()
	svc := newService(15)

	pair, err := svc.GenerateTokenPair(ctx, jwt.Subject{UserID: "u1", Role: "user"})
	assert.NoError(t, err)

	expired, err := newService(-1).GenerateTokenPair(ctx, jwt.Subject{UserID: "u1", Role: "user"})
	assert.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		tokenType jwt.TokenType
		wantErr   error
	}{
		{name: "refresh token used as access", token: pair.RefreshToken, tokenType: jwt.AccessToken, wantErr: jwt.ErrInvalidToken},
		{name: "garbage", token: "not-a-token", tokenType: jwt.AccessToken, wantErr: jwt.ErrInvalidToken},
		{name: "expired", token: expired.AccessToken, tokenType: jwt.AccessToken, wantErr: jwt.ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(ctx, tt.token, tt.tokenType)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc")
	assert.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = jwt.ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)

	_, err = jwt.ExtractTokenFromHeader("Bearer ")
	assert.Error(t, err)
}
