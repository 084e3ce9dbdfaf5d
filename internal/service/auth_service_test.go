package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

func newAdminAuth(t *testing.T) *AdminAuthService {
	t.Helper()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("moderate!")
	require.NoError(t, err)
	return NewAdminAuthService(hasher, NewValidator(), zap.NewNop(), AdminAuthConfig{
		Email:             "Admin@ScienceHub.org",
		PasswordHash:      hash,
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "science-hub",
	})
}

func TestAdminLoginIssuesToken(t *testing.T) {
	svc := newAdminAuth(t)

	res, err := svc.Login(context.Background(), dto.AdminLoginRequest{Email: "admin@sciencehub.org", Password: "moderate!"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "admin@sciencehub.org", claims.Email)
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	svc := newAdminAuth(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.AdminLoginRequest{Email: "admin@sciencehub.org", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, dto.AdminLoginRequest{Email: "other@sciencehub.org", Password: "moderate!"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, dto.AdminLoginRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	disabled := NewAdminAuthService(NewBcryptHasher(bcrypt.MinCost), nil, nil, AdminAuthConfig{AccessTokenSecret: "secret"})
	assert.False(t, disabled.Enabled())
	_, err = disabled.Login(ctx, dto.AdminLoginRequest{Email: "a@b.com", Password: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestValidateTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	svc := newAdminAuth(t)
	res, err := svc.Login(context.Background(), dto.AdminLoginRequest{Email: "admin@sciencehub.org", Password: "moderate!"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(res.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{Role: models.RoleAdmin})
	signed, err := foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	_, err = svc.ValidateToken("garbage")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
