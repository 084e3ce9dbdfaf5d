package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/science-hub-api/internal/models"
)

func TestUploadRepositorySaveUpsertsByID(t *testing.T) {
	ctx := context.Background()
	repo := NewUploadRepository(NewMemoryRecordStore())

	require.NoError(t, repo.Save(ctx, models.Upload{ID: "upload_1", TeacherID: "t1", Status: models.StatusPending}))
	require.NoError(t, repo.Save(ctx, models.Upload{ID: "upload_2", TeacherID: "t2", Status: models.StatusPending}))
	require.NoError(t, repo.Save(ctx, models.Upload{ID: "upload_1", TeacherID: "t1", Status: models.StatusPending, GitHubIssue: "https://example.com/1"}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "https://example.com/1", all[0].GitHubIssue)

	owned, err := repo.ListByTeacher(ctx, "t2")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "upload_2", owned[0].ID)
}

func TestUploadRepositoryUpdateAndStats(t *testing.T) {
	ctx := context.Background()
	repo := NewUploadRepository(NewMemoryRecordStore())
	for _, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, repo.Save(ctx, models.Upload{ID: id, Status: models.StatusPending}))
	}

	_, err := repo.Update(ctx, "u1", func(u *models.Upload) error {
		u.Status = models.StatusApproved
		return nil
	})
	require.NoError(t, err)
	_, err = repo.Update(ctx, "u2", func(u *models.Upload) error {
		u.Status = models.StatusRejected
		return nil
	})
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusStats{Total: 3, Pending: 1, Approved: 1, Rejected: 1}, stats)

	_, err = repo.FindByID(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEscalationRepositoryAppends(t *testing.T) {
	ctx := context.Background()
	repo := NewEscalationRepository(NewMemoryRecordStore())

	require.NoError(t, repo.Append(ctx, models.PendingEscalation{Metadata: models.Upload{ID: "u1"}, FileBase64: "AAA"}))
	require.NoError(t, repo.Append(ctx, models.PendingEscalation{Metadata: models.Upload{ID: "u2"}}))

	pending, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "u1", pending[0].Metadata.ID)
	assert.Equal(t, "AAA", pending[0].FileBase64)
}
