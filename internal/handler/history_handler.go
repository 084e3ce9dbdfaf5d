package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	"github.com/noah-isme/science-hub-api/pkg/response"
)

type historyService interface {
	Record(ctx context.Context, req dto.RecordHistoryRequest) ([]models.HistoryItem, error)
	Recent(ctx context.Context, n int) ([]models.HistoryItem, error)
	Clear(ctx context.Context) error
}

// HistoryHandler exposes the recent activity list.
type HistoryHandler struct {
	service historyService
}

// NewHistoryHandler builds a new handler.
func NewHistoryHandler(service historyService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// Record godoc
// @Summary Record a visited or resumed resource
// @Tags History
// @Accept json
// @Produce json
// @Param payload body dto.RecordHistoryRequest true "Resource"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /history [post]
func (h *HistoryHandler) Record(c *gin.Context) {
	var req dto.RecordHistoryRequest
	if !bindJSON(c, &req, "invalid history payload") {
		return
	}
	items, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Recent godoc
// @Summary Most recent activity
// @Tags History
// @Produce json
// @Param limit query int false "Number of items, default 5"
// @Success 200 {object} response.Envelope
// @Router /history [get]
func (h *HistoryHandler) Recent(c *gin.Context) {
	items, err := h.service.Recent(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Clear godoc
// @Summary Clear the activity list
// @Tags History
// @Success 204
// @Router /history [delete]
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
