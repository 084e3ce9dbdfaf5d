package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	"github.com/noah-isme/science-hub-api/internal/repository"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

func newModerationFixture(t *testing.T) (*ModerationService, *repository.ModerationRepository) {
	t.Helper()
	repo := repository.NewModerationRepository(repository.NewMemoryRecordStore())
	svc := NewModerationService(repo, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC) }
	require.NoError(t, svc.Bootstrap(context.Background()))
	return svc, repo
}

func TestBootstrapSeedsOnlyEmptyQueue(t *testing.T) {
	svc, _ := newModerationFixture(t)
	ctx := context.Background()

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "sample_1", all[0].ID)
	assert.Equal(t, models.ResourceVideo, all[1].ResourceType)
	assert.Nil(t, all[2].CloudLink)
	require.NotNil(t, all[2].ApprovedAt)
	assert.Equal(t, "2024-01-14T11:30:00Z", all[2].ApprovedAt.Format(time.RFC3339))

	removed, err := svc.Delete(ctx, "sample_1")
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, svc.Bootstrap(ctx))

	all, err = svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestModerationQueries(t *testing.T) {
	svc, _ := newModerationFixture(t)
	ctx := context.Background()

	pending, err := svc.ByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	facets, err := svc.Facets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"physics", "chemistry", "biology"}, facets.Subjects)
	assert.Equal(t, []string{"12", "11"}, facets.Classes)
	assert.Equal(t, []string{"pdf", "video", "notes"}, facets.Types)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusStats{Total: 3, Pending: 2, Approved: 1}, *stats)

	found, err := svc.Filter(ctx, models.ModerationFilter{Search: "sarah"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "sample_2", found[0].ID)

	found, err = svc.Filter(ctx, models.ModerationFilter{Class: "12", Type: models.ResourceNotes})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "sample_3", found[0].ID)

	_, err = svc.Get(ctx, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrSubmissionNotFound))
}

func TestModerationUpdateMergesFields(t *testing.T) {
	svc, _ := newModerationFixture(t)
	ctx := context.Background()

	rejected := models.StatusRejected
	notes := "Duplicate"
	ok, err := svc.Update(ctx, "sample_2", models.ModerationUpdate{Status: &rejected, AdminNotes: &notes})
	require.NoError(t, err)
	assert.True(t, ok)

	record, err := svc.Get(ctx, "sample_2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, record.Status)
	assert.Equal(t, "Duplicate", record.AdminNotes)
	assert.Equal(t, "10 hours", record.Duration)

	ok, err = svc.Update(ctx, "missing", models.ModerationUpdate{AdminNotes: &notes})
	require.NoError(t, err)
	assert.False(t, ok)

	bogus := models.ResourceType("podcast")
	_, err = svc.Update(ctx, "sample_1", models.ModerationUpdate{ResourceType: &bogus})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	removed, err := svc.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestModerationExport(t *testing.T) {
	svc, _ := newModerationFixture(t)
	ctx := context.Background()

	file, err := svc.Export(ctx, dto.ModerationExportQuery{ModerationFilter: models.ModerationFilter{Status: models.StatusPending}})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "submissions-20240201-080000.csv", file.Filename)

	rows, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, moderationExportHeaders, rows[0])
	assert.Equal(t, "sample_1", rows[1][0])

	pdf, err := svc.Export(ctx, dto.ModerationExportQuery{Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, bytes.HasPrefix(pdf.Content, []byte("%PDF")))

	_, err = svc.Export(ctx, dto.ModerationExportQuery{Format: "xlsx"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
