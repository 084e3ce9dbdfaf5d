package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
	"github.com/noah-isme/science-hub-api/pkg/response"
)

type uploadService interface {
	Submit(ctx context.Context, req dto.SubmitUploadRequest, file dto.UploadFile) (*dto.SubmitUploadResponse, error)
	ListForCurrentTeacher(ctx context.Context) ([]models.Upload, error)
	List(ctx context.Context) ([]models.Upload, error)
	GetByID(ctx context.Context, id string) (*models.Upload, error)
	SetStatus(ctx context.Context, id string, req dto.SetUploadStatusRequest) (*models.Upload, error)
	Stats(ctx context.Context) (*models.StatusStats, error)
	PendingEscalations(ctx context.Context) ([]models.PendingEscalation, error)
}

// UploadHandler exposes the upload registry.
type UploadHandler struct {
	service uploadService
	session currentTeacher
}

// NewUploadHandler builds a new handler. When session is set, Submit rejects
// anonymous callers before reading the form.
func NewUploadHandler(service uploadService, session currentTeacher) *UploadHandler {
	return &UploadHandler{service: service, session: session}
}

// Submit godoc
// @Summary Submit a material for review
// @Tags Uploads
// @Accept mpfd
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param subject formData string true "Subject"
// @Param class formData string true "Class"
// @Param year formData string true "Year"
// @Param last_modified formData int false "File last-modified epoch millis"
// @Param file formData file true "Material file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /uploads [post]
func (h *UploadHandler) Submit(c *gin.Context) {
	if h.session != nil {
		teacher, err := h.session.CurrentTeacher(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		if teacher == nil {
			response.Error(c, appErrors.ErrNotAuthenticated)
			return
		}
	}

	var req dto.SubmitUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid upload form"))
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to open file"))
		return
	}
	defer file.Close()

	lastModified, _ := strconv.ParseInt(c.PostForm("last_modified"), 10, 64)
	res, err := h.service.Submit(c.Request.Context(), req, dto.UploadFile{
		Name:         header.Filename,
		Size:         header.Size,
		Type:         header.Header.Get("Content-Type"),
		LastModified: lastModified,
		Content:      file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Mine godoc
// @Summary List the signed-in teacher's uploads
// @Tags Uploads
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /uploads/mine [get]
func (h *UploadHandler) Mine(c *gin.Context) {
	uploads, err := h.service.ListForCurrentTeacher(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, uploads)
}

// Get godoc
// @Summary Get an upload
// @Tags Uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /uploads/{id} [get]
func (h *UploadHandler) Get(c *gin.Context) {
	upload, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, upload)
}

// List godoc
// @Summary List every upload
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/uploads [get]
func (h *UploadHandler) List(c *gin.Context) {
	uploads, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, uploads, map[string]interface{}{"total": len(uploads)})
}

// SetStatus godoc
// @Summary Approve or reject an upload
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Upload ID"
// @Param payload body dto.SetUploadStatusRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/uploads/{id}/status [patch]
func (h *UploadHandler) SetStatus(c *gin.Context) {
	var req dto.SetUploadStatusRequest
	if !bindJSON(c, &req, "invalid status payload") {
		return
	}
	upload, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, upload)
}

// Stats godoc
// @Summary Upload counts by status
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/uploads/stats [get]
func (h *UploadHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// PendingEscalations godoc
// @Summary Review requests queued locally
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/uploads/pending-escalations [get]
func (h *UploadHandler) PendingEscalations(c *gin.Context) {
	pending, err := h.service.PendingEscalations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pending, map[string]interface{}{"total": len(pending)})
}
