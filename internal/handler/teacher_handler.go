package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
	"github.com/noah-isme/science-hub-api/pkg/response"
)

type teacherDirectoryService interface {
	CurrentTeacher(ctx context.Context) (*models.SessionTeacher, error)
	UpdateProfile(ctx context.Context, teacherID string, update models.ProfileUpdate) (*models.SessionTeacher, error)
	GetTeacher(ctx context.Context, id string) (*models.SessionTeacher, error)
	ListTeachers(ctx context.Context) ([]models.SessionTeacher, error)
}

// TeacherHandler exposes profile and directory endpoints.
type TeacherHandler struct {
	service teacherDirectoryService
}

// NewTeacherHandler builds a new handler.
func NewTeacherHandler(service teacherDirectoryService) *TeacherHandler {
	return &TeacherHandler{service: service}
}

// UpdateProfile godoc
// @Summary Edit the signed-in teacher's profile
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body models.ProfileUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teachers/{id} [patch]
func (h *TeacherHandler) UpdateProfile(c *gin.Context) {
	current, err := h.service.CurrentTeacher(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if current == nil {
		response.Error(c, appErrors.ErrNotAuthenticated)
		return
	}
	id := c.Param("id")
	if id != current.ID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "can only edit your own profile"))
		return
	}

	var update models.ProfileUpdate
	if !bindJSON(c, &update, "invalid profile payload") {
		return
	}
	if update.Status != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "status can only be changed by an admin"))
		return
	}

	teacher, err := h.service.UpdateProfile(c.Request.Context(), id, update)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teacher)
}

// List godoc
// @Summary List teachers
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.service.ListTeachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, map[string]interface{}{"total": len(teachers)})
}

// Get godoc
// @Summary Get a teacher
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.service.GetTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teacher)
}

// AdminUpdate godoc
// @Summary Edit any teacher, including account status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Param payload body models.ProfileUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/teachers/{id} [patch]
func (h *TeacherHandler) AdminUpdate(c *gin.Context) {
	var update models.ProfileUpdate
	if !bindJSON(c, &update, "invalid profile payload") {
		return
	}
	teacher, err := h.service.UpdateProfile(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teacher)
}
