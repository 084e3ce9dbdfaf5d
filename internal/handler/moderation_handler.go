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

type moderationService interface {
	Filter(ctx context.Context, filter models.ModerationFilter) ([]models.ModerationRecord, error)
	Get(ctx context.Context, id string) (*models.ModerationRecord, error)
	Facets(ctx context.Context) (*dto.ModerationFacets, error)
	Stats(ctx context.Context) (*models.StatusStats, error)
	Update(ctx context.Context, id string, update models.ModerationUpdate) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Export(ctx context.Context, query dto.ModerationExportQuery) (*dto.ExportFile, error)
}

type submissionPublisher interface {
	PublishSubmission(ctx context.Context, id string, req dto.PublishRequest) (*dto.PublishResponse, error)
}

// ModerationHandler exposes the admin review queue.
type ModerationHandler struct {
	service   moderationService
	publisher submissionPublisher
}

// NewModerationHandler builds a new handler.
func NewModerationHandler(service moderationService, publisher submissionPublisher) *ModerationHandler {
	return &ModerationHandler{service: service, publisher: publisher}
}

// List godoc
// @Summary List submissions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending|approved|rejected"
// @Param subject query string false "Subject"
// @Param class query string false "Class"
// @Param type query string false "pdf|notes|video|course"
// @Param search query string false "Matches title, description and teacher"
// @Success 200 {object} response.Envelope
// @Router /admin/submissions [get]
func (h *ModerationHandler) List(c *gin.Context) {
	var filter models.ModerationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter"))
		return
	}
	records, err := h.service.Filter(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"total": len(records)})
}

// Get godoc
// @Summary Get a submission
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/submissions/{id} [get]
func (h *ModerationHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Facets godoc
// @Summary Distinct filter values
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/submissions/facets [get]
func (h *ModerationHandler) Facets(c *gin.Context) {
	facets, err := h.service.Facets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, facets)
}

// Stats godoc
// @Summary Submission counts by status
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/submissions/stats [get]
func (h *ModerationHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// Export godoc
// @Summary Export submissions as CSV or PDF
// @Tags Admin
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv|pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/submissions/export [get]
func (h *ModerationHandler) Export(c *gin.Context) {
	var query dto.ModerationExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	file, err := h.service.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// Update godoc
// @Summary Merge fields into a submission
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param payload body models.ModerationUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/submissions/{id} [patch]
func (h *ModerationHandler) Update(c *gin.Context) {
	var update models.ModerationUpdate
	if !bindJSON(c, &update, "invalid submission update") {
		return
	}
	if update.Empty() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no fields to update"))
		return
	}
	id := c.Param("id")
	ok, err := h.service.Update(c.Request.Context(), id, update)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Error(c, appErrors.ErrSubmissionNotFound)
		return
	}
	record, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Delete godoc
// @Summary Delete a submission
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/submissions/{id} [delete]
func (h *ModerationHandler) Delete(c *gin.Context) {
	removed, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !removed {
		response.Error(c, appErrors.ErrSubmissionNotFound)
		return
	}
	response.NoContent(c)
}

// Publish godoc
// @Summary Publish a submission to the content repository
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param payload body dto.PublishRequest true "Material content"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /admin/submissions/{id}/publish [post]
func (h *ModerationHandler) Publish(c *gin.Context) {
	var req dto.PublishRequest
	if !bindJSON(c, &req, "invalid publish payload") {
		return
	}
	res, err := h.publisher.PublishSubmission(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}
