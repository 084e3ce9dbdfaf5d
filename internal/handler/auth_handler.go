package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
	"github.com/noah-isme/science-hub-api/pkg/response"
)

type teacherAuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.CodeIssuedResponse, error)
	VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) (*models.SessionTeacher, error)
	Login(ctx context.Context, req dto.LoginRequest) (*models.SessionTeacher, error)
	Logout(ctx context.Context) error
	CurrentTeacher(ctx context.Context) (*models.SessionTeacher, error)
	RequestPasswordReset(ctx context.Context, req dto.ForgotPasswordRequest) (*dto.CodeIssuedResponse, error)
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
}

type adminAuthService interface {
	Login(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
}

// AuthHandler wires HTTP endpoints to the teacher and admin auth services.
type AuthHandler struct {
	teachers teacherAuthService
	admin    adminAuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(teachers teacherAuthService, admin adminAuthService) *AuthHandler {
	return &AuthHandler{teachers: teachers, admin: admin}
}

// Register godoc
// @Summary Start teacher registration
// @Description Validates the form and emails a six-digit verification code
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.RegisterRequest true "Registration payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}
	res, err := h.teachers.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, res)
}

// VerifyEmail godoc
// @Summary Confirm a registration code
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.VerifyEmailRequest true "Verification payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /auth/verify [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !bindJSON(c, &req, "invalid verification payload") {
		return
	}
	teacher, err := h.teachers.VerifyEmail(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.SessionResponse{Teacher: *teacher, Message: "Email verified. Welcome to Science Hub!"})
}

// Login godoc
// @Summary Sign a teacher in
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	teacher, err := h.teachers.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SessionResponse{Teacher: *teacher})
}

// Logout godoc
// @Summary Clear the teacher session
// @Tags Authentication
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.teachers.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me godoc
// @Summary Current teacher session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	teacher, err := h.teachers.CurrentTeacher(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if teacher == nil {
		response.Error(c, appErrors.ErrNotAuthenticated)
		return
	}
	response.OK(c, dto.SessionResponse{Teacher: *teacher})
}

// ForgotPassword godoc
// @Summary Request a password reset code
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.ForgotPasswordRequest true "Email"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !bindJSON(c, &req, "invalid forgot password payload") {
		return
	}
	res, err := h.teachers.RequestPasswordReset(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, res)
}

// ResetPassword godoc
// @Summary Reset a password with a code
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.ResetPasswordRequest true "Reset payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req, "invalid reset password payload") {
		return
	}
	if err := h.teachers.ResetPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Message: "Password updated. You can now sign in."})
}

// AdminLogin godoc
// @Summary Authenticate the moderator
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.AdminLoginRequest true "Admin credential"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	res, err := h.admin.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// AdminMe godoc
// @Summary Current admin identity
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/me [get]
func (h *AuthHandler) AdminMe(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.OK(c, gin.H{"email": claims.Email, "role": claims.Role})
}
