package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

type fakeModerationService struct {
	records     map[string]models.ModerationRecord
	filter      models.ModerationFilter
	exportQuery dto.ModerationExportQuery
	updated     models.ModerationUpdate
}

func newFakeModeration() *fakeModerationService {
	return &fakeModerationService{records: map[string]models.ModerationRecord{
		"sample_1": {ID: "sample_1", MaterialTitle: "Hukum Newton", Status: models.StatusPending},
	}}
}

func (f *fakeModerationService) Filter(_ context.Context, filter models.ModerationFilter) ([]models.ModerationRecord, error) {
	f.filter = filter
	out := make([]models.ModerationRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeModerationService) Get(_ context.Context, id string) (*models.ModerationRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, appErrors.ErrSubmissionNotFound
	}
	return &r, nil
}

func (f *fakeModerationService) Facets(context.Context) (*dto.ModerationFacets, error) {
	return &dto.ModerationFacets{Subjects: []string{"Fisika"}, Classes: []string{"X"}, Types: []string{"pdf"}}, nil
}

func (f *fakeModerationService) Stats(context.Context) (*models.StatusStats, error) {
	return &models.StatusStats{Total: len(f.records), Pending: len(f.records)}, nil
}

func (f *fakeModerationService) Update(_ context.Context, id string, update models.ModerationUpdate) (bool, error) {
	r, ok := f.records[id]
	if !ok {
		return false, nil
	}
	f.updated = update
	if update.Status != nil {
		r.Status = *update.Status
	}
	f.records[id] = r
	return true, nil
}

func (f *fakeModerationService) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.records[id]; !ok {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func (f *fakeModerationService) Export(_ context.Context, query dto.ModerationExportQuery) (*dto.ExportFile, error) {
	f.exportQuery = query
	return &dto.ExportFile{Filename: "submissions-20240115-100000.csv", ContentType: "text/csv", Content: []byte("ID,Title\n")}, nil
}

type fakeSubmissionPublisher struct {
	id  string
	err error
}

func (f *fakeSubmissionPublisher) PublishSubmission(_ context.Context, id string, _ dto.PublishRequest) (*dto.PublishResponse, error) {
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	return &dto.PublishResponse{PublishResult: models.PublishResult{Path: "docs/pdf/hukum-newton.json"}}, nil
}

func TestModerationHandlerListBindsFilter(t *testing.T) {
	svc := newFakeModeration()
	h := NewModerationHandler(svc, &fakeSubmissionPublisher{})

	c, rec := newTestContext(http.MethodGet, "/admin/submissions?status=pending&subject=Fisika&search=newton", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusPending, svc.filter.Status)
	assert.Equal(t, "Fisika", svc.filter.Subject)
	assert.Equal(t, "newton", svc.filter.Search)
	assert.EqualValues(t, 1, decodeEnvelope(t, rec).Meta["total"])
}

func TestModerationHandlerExportWritesAttachment(t *testing.T) {
	svc := newFakeModeration()
	h := NewModerationHandler(svc, &fakeSubmissionPublisher{})

	c, rec := newTestContext(http.MethodGet, "/admin/submissions/export?format=csv&status=approved", nil)
	h.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", svc.exportQuery.Format)
	assert.Equal(t, models.StatusApproved, svc.exportQuery.Status)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "submissions-20240115-100000.csv")
	assert.Equal(t, "ID,Title\n", rec.Body.String())
}

func TestModerationHandlerUpdateRejectsEmptyPatch(t *testing.T) {
	h := NewModerationHandler(newFakeModeration(), &fakeSubmissionPublisher{})

	c, rec := newTestContext(http.MethodPatch, "/admin/submissions/sample_1", jsonBody(`{}`))
	c.AddParam("id", "sample_1")
	h.Update(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModerationHandlerUpdateMissing(t *testing.T) {
	h := NewModerationHandler(newFakeModeration(), &fakeSubmissionPublisher{})

	c, rec := newTestContext(http.MethodPatch, "/admin/submissions/nope", jsonBody(`{"status":"approved"}`))
	c.AddParam("id", "nope")
	h.Update(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrSubmissionNotFound.Code, errorCode(t, rec))
}

func TestModerationHandlerUpdateReturnsRecord(t *testing.T) {
	svc := newFakeModeration()
	h := NewModerationHandler(svc, &fakeSubmissionPublisher{})

	c, rec := newTestContext(http.MethodPatch, "/admin/submissions/sample_1", jsonBody(`{"status":"approved"}`))
	c.AddParam("id", "sample_1")
	h.Update(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusApproved, svc.records["sample_1"].Status)
}

func TestModerationHandlerDelete(t *testing.T) {
	svc := newFakeModeration()
	h := NewModerationHandler(svc, &fakeSubmissionPublisher{})

	c, rec := newTestContext(http.MethodDelete, "/admin/submissions/sample_1", nil)
	c.AddParam("id", "sample_1")
	h.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, svc.records)

	c, rec = newTestContext(http.MethodDelete, "/admin/submissions/sample_1", nil)
	c.AddParam("id", "sample_1")
	h.Delete(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestModerationHandlerPublishRemoteFailure(t *testing.T) {
	publisher := &fakeSubmissionPublisher{err: appErrors.Clone(appErrors.ErrRemotePublishFailed, "bad credentials")}
	h := NewModerationHandler(newFakeModeration(), publisher)

	c, rec := newTestContext(http.MethodPost, "/admin/submissions/sample_1/publish", jsonBody(`{"content":"Materi"}`))
	c.AddParam("id", "sample_1")
	h.Publish(c)

	assert.Equal(t, "sample_1", publisher.id)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "bad credentials", envelope.Error.Message)
}

func TestModerationHandlerPublish(t *testing.T) {
	h := NewModerationHandler(newFakeModeration(), &fakeSubmissionPublisher{})

	c, rec := newTestContext(http.MethodPost, "/admin/submissions/sample_1/publish", jsonBody(`{"content":{"title":"x"}}`))
	c.AddParam("id", "sample_1")
	h.Publish(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}
