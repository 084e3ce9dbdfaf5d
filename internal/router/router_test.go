package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/handler"
	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

type stubTokens struct {
	claims *models.JWTClaims
}

func (s stubTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "valid" {
		return nil, appErrors.ErrUnauthorized
	}
	return s.claims, nil
}

func newEngine(claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := Handlers{
		Auth:          handler.NewAuthHandler(nil, nil),
		Teachers:      handler.NewTeacherHandler(nil),
		Uploads:       handler.NewUploadHandler(nil, nil),
		Moderation:    handler.NewModerationHandler(nil, nil),
		Materials:     handler.NewMaterialHandler(nil),
		History:       handler.NewHistoryHandler(nil),
		Notifications: handler.NewNotificationHandler(nil, nil),
		Metrics:       handler.NewMetricsHandler(nil, nil),
	}
	RegisterProbes(r, h)
	Register(r, h, Options{Prefix: "/api/v1", Tokens: stubTokens{claims: claims}, AuditLog: zap.NewNop()})
	return r
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newEngine(&models.JWTClaims{Role: models.RoleAdmin})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	r := newEngine(&models.JWTClaims{Role: models.UserRole("TEACHER")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminMeWithValidToken(t *testing.T) {
	r := newEngine(&models.JWTClaims{Role: models.RoleAdmin, Email: "admin@sciencehub.id"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin@sciencehub.id")
}

func TestProbesAreUnprefixed(t *testing.T) {
	r := newEngine(nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
