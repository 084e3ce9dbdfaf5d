package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/science-hub-api/internal/models"
)

func TestModerationRepositorySeedOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewModerationRepository(NewMemoryRecordStore())
	fixtures := []models.ModerationRecord{{ID: "a"}, {ID: "b"}}

	seeded, err := repo.SeedIfEmpty(ctx, fixtures)
	require.NoError(t, err)
	assert.True(t, seeded)

	removed, err := repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, removed)

	seeded, err = repo.SeedIfEmpty(ctx, fixtures)
	require.NoError(t, err)
	assert.False(t, seeded)

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].ID)
}

func TestModerationRepositoryUpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewModerationRepository(NewMemoryRecordStore())
	_, err := repo.SeedIfEmpty(ctx, []models.ModerationRecord{{ID: "a", Status: models.StatusPending}})
	require.NoError(t, err)

	notes := "looks good"
	updated, err := repo.Update(ctx, "a", func(r *models.ModerationRecord) error {
		models.ModerationUpdate{AdminNotes: &notes}.Apply(r)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "looks good", updated.AdminNotes)
	assert.Equal(t, models.StatusPending, updated.Status)

	_, err = repo.Update(ctx, "zzz", func(*models.ModerationRecord) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := repo.Delete(ctx, "zzz")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestHistoryRepositoryMutateAndClear(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(NewMemoryRecordStore())

	items, err := repo.Mutate(ctx, func(items []models.HistoryItem) []models.HistoryItem {
		return append(items, models.HistoryItem{Name: "Optics"})
	})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, repo.Clear(ctx))
	items, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNotificationRepositoryCapsInbox(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(NewMemoryRecordStore(), 3)

	for _, id := range []string{"n1", "n2", "n3", "n4"} {
		require.NoError(t, repo.Prepend(ctx, models.Notification{ID: id, TeacherID: "t1"}))
	}
	require.NoError(t, repo.Prepend(ctx, models.Notification{ID: "other", TeacherID: "t2"}))

	mine, err := repo.ListByTeacher(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "n4", mine[0].ID)
	assert.Equal(t, "n3", mine[1].ID)
}
