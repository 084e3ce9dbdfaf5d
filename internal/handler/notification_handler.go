package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
	"github.com/noah-isme/science-hub-api/pkg/response"
)

type currentTeacher interface {
	CurrentTeacher(ctx context.Context) (*models.SessionTeacher, error)
}

type inboxReader interface {
	ListForTeacher(ctx context.Context, teacherID string) ([]models.Notification, error)
}

// NotificationHandler serves the signed-in teacher's inbox.
type NotificationHandler struct {
	session currentTeacher
	inbox   inboxReader
}

// NewNotificationHandler builds a new handler.
func NewNotificationHandler(session currentTeacher, inbox inboxReader) *NotificationHandler {
	return &NotificationHandler{session: session, inbox: inbox}
}

// Mine godoc
// @Summary Notifications of the signed-in teacher
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /notifications/mine [get]
func (h *NotificationHandler) Mine(c *gin.Context) {
	teacher, err := h.session.CurrentTeacher(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if teacher == nil {
		response.Error(c, appErrors.ErrNotAuthenticated)
		return
	}
	items, err := h.inbox.ListForTeacher(c.Request.Context(), teacher.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"total": len(items)})
}
