package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (v stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Wrap(errors.New("bad"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	return v.claims, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/things/:id", handlers...)
	return r
}

func perform(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/things/42", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTAndRoles(t *testing.T) {
	admin := stubValidator{claims: &models.JWTClaims{Role: models.RoleAdmin, Email: "admin@x.org"}}
	r := newRouter(JWT(admin), RequireRoles(models.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, perform(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "Basic good").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "Bearer bad").Code)
	assert.Equal(t, http.StatusNoContent, perform(r, "Bearer good").Code)

	other := stubValidator{claims: &models.JWTClaims{Role: "VIEWER"}}
	r = newRouter(JWT(other), RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, perform(r, "Bearer good").Code)

	r = newRouter(RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, perform(r, "").Code)
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	r := newRouter(OptionalJWT(stubValidator{claims: &models.JWTClaims{}}))
	assert.Equal(t, http.StatusNoContent, perform(r, "Bearer bad").Code)
	assert.Equal(t, http.StatusNoContent, perform(r, "").Code)
}

func TestAuditLogsSuccessfulRequests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	admin := stubValidator{claims: &models.JWTClaims{Role: models.RoleAdmin, Email: "admin@x.org"}}
	r := newRouter(JWT(admin), Audit(zap.New(core), "update", "submission"))

	perform(r, "Bearer good")
	perform(r, "Bearer bad")

	entries := logs.FilterMessage("audit").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "admin@x.org", fields["actor"])
		assert.Equal(t, "42", fields["resource_id"])
		assert.Equal(t, "submission", fields["resource"])
	}
}
