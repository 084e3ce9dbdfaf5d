package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/science-hub-api/internal/models"
	"github.com/noah-isme/science-hub-api/pkg/response"
)

type materialLister interface {
	ListPublished(ctx context.Context, resourceType models.ResourceType) ([]json.RawMessage, error)
}

// MaterialHandler serves published materials.
type MaterialHandler struct {
	service materialLister
}

// NewMaterialHandler builds a new handler.
func NewMaterialHandler(service materialLister) *MaterialHandler {
	return &MaterialHandler{service: service}
}

// List godoc
// @Summary List published materials of one type
// @Tags Materials
// @Produce json
// @Param type path string true "pdf|notes|video|course"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /materials/{type} [get]
func (h *MaterialHandler) List(c *gin.Context) {
	materials, err := h.service.ListPublished(c.Request.Context(), models.ResourceType(c.Param("type")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materials, map[string]interface{}{"total": len(materials)})
}
