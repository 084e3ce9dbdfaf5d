package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	"github.com/noah-isme/science-hub-api/internal/service"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

type fakeMaterials struct {
	requested models.ResourceType
}

func (f *fakeMaterials) ListPublished(_ context.Context, resourceType models.ResourceType) ([]json.RawMessage, error) {
	f.requested = resourceType
	if !resourceType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown resource type")
	}
	return []json.RawMessage{json.RawMessage(`{"title":"Hukum Newton"}`)}, nil
}

func TestMaterialHandlerList(t *testing.T) {
	svc := &fakeMaterials{}
	h := NewMaterialHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/materials/video", nil)
	c.AddParam("type", "video")
	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ResourceVideo, svc.requested)
	assert.JSONEq(t, `[{"title":"Hukum Newton"}]`, string(decodeEnvelope(t, rec).Data))
}

func TestMaterialHandlerUnknownType(t *testing.T) {
	h := NewMaterialHandler(&fakeMaterials{})

	c, rec := newTestContext(http.MethodGet, "/materials/audio", nil)
	c.AddParam("type", "audio")
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeHistory struct {
	recorded dto.RecordHistoryRequest
	limit    int
	cleared  bool
}

func (f *fakeHistory) Record(_ context.Context, req dto.RecordHistoryRequest) ([]models.HistoryItem, error) {
	f.recorded = req
	kind := models.HistoryVisit
	if req.Resume {
		kind = models.HistoryResume
	}
	return []models.HistoryItem{{Name: req.Name, Type: kind}}, nil
}

func (f *fakeHistory) Recent(_ context.Context, n int) ([]models.HistoryItem, error) {
	f.limit = n
	return []models.HistoryItem{}, nil
}

func (f *fakeHistory) Clear(context.Context) error {
	f.cleared = true
	return nil
}

func TestHistoryHandlerRecord(t *testing.T) {
	svc := &fakeHistory{}
	h := NewHistoryHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/history", jsonBody(`{"name":"Hukum Newton","resume":true}`))
	h.Record(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hukum Newton", svc.recorded.Name)
	assert.True(t, svc.recorded.Resume)
}

func TestHistoryHandlerRecentPassesLimit(t *testing.T) {
	svc := &fakeHistory{}
	h := NewHistoryHandler(svc)

	c, _ := newTestContext(http.MethodGet, "/history?limit=3", nil)
	h.Recent(c)
	assert.Equal(t, 3, svc.limit)

	c, _ = newTestContext(http.MethodGet, "/history?limit=abc", nil)
	h.Recent(c)
	assert.Equal(t, 0, svc.limit)
}

func TestHistoryHandlerClear(t *testing.T) {
	svc := &fakeHistory{}
	h := NewHistoryHandler(svc)

	c, rec := newTestContext(http.MethodDelete, "/history", nil)
	h.Clear(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, svc.cleared)
}

type fakeSession struct {
	teacher *models.SessionTeacher
}

func (f fakeSession) CurrentTeacher(context.Context) (*models.SessionTeacher, error) {
	return f.teacher, nil
}

type fakeInbox struct {
	teacherID string
}

func (f *fakeInbox) ListForTeacher(_ context.Context, teacherID string) ([]models.Notification, error) {
	f.teacherID = teacherID
	return nil, nil
}

func TestNotificationHandlerRequiresSession(t *testing.T) {
	h := NewNotificationHandler(fakeSession{}, &fakeInbox{})

	c, rec := newTestContext(http.MethodGet, "/notifications/mine", nil)
	h.Mine(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotificationHandlerMine(t *testing.T) {
	inbox := &fakeInbox{}
	h := NewNotificationHandler(fakeSession{teacher: &models.SessionTeacher{ID: "teacher_1"}}, inbox)

	c, rec := newTestContext(http.MethodGet, "/notifications/mine", nil)
	h.Mine(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "teacher_1", inbox.teacherID)
	assert.EqualValues(t, 0, decodeEnvelope(t, rec).Meta["total"])
}

func TestMetricsHandlerReadiness(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), func(context.Context) error { return nil })
	c, rec := newTestContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	down := NewMetricsHandler(nil, func(context.Context) error { return errors.New("store down") })
	c, rec = newTestContext(http.MethodGet, "/ready", nil)
	down.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsHandlerSnapshot(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordWorkflow("submission", "escalated")
	h := NewMetricsHandler(metrics, nil)

	c, rec := newTestContext(http.MethodGet, "/admin/metrics", nil)
	h.Snapshot(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot models.MetricsSnapshot
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &snapshot))
	assert.EqualValues(t, 1, snapshot.Workflows["submission/escalated"])
}
