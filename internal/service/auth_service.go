package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

// AdminAuthConfig defines the moderator credential and token settings.
type AdminAuthConfig struct {
	Email             string
	PasswordHash      string
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AdminAuthService issues and validates moderator access tokens.
type AdminAuthService struct {
	hasher    PasswordHasher
	validator *validator.Validate
	logger    *zap.Logger
	config    AdminAuthConfig
	now       func() time.Time
}

// NewAdminAuthService constructs an AdminAuthService instance.
func NewAdminAuthService(hasher PasswordHasher, validate *validator.Validate, logger *zap.Logger, config AdminAuthConfig) *AdminAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 12 * time.Hour
	}
	config.Email = normalizeEmail(config.Email)
	return &AdminAuthService{
		hasher:    hasher,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Enabled reports whether a moderator credential is configured.
func (s *AdminAuthService) Enabled() bool {
	return s.config.Email != "" && s.config.PasswordHash != ""
}

// Login checks the moderator credential and returns an access token.
func (s *AdminAuthService) Login(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid login payload")
	}
	if !s.Enabled() {
		s.logger.Warn("admin login attempted without configured credential")
		return nil, appErrors.ErrInvalidCredentials
	}
	if normalizeEmail(req.Email) != s.config.Email {
		return nil, appErrors.ErrInvalidCredentials
	}
	if !s.hasher.Compare(s.config.PasswordHash, req.Password) {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, issuedAt, err := s.generateAccessToken()
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	s.logger.Info("admin signed in", zap.String("email", s.config.Email))

	return &dto.AdminLoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AdminAuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if s.config.Issuer != "" && claims.Issuer != s.config.Issuer {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected token issuer")
	}

	return claims, nil
}

func (s *AdminAuthService) generateAccessToken() (string, time.Time, error) {
	issuedAt := s.now()
	claims := &models.JWTClaims{
		UserID: "admin",
		Role:   models.RoleAdmin,
		Email:  s.config.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
