package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/science-hub-api/internal/models"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
	"github.com/noah-isme/science-hub-api/pkg/storage"
)

func TestCollectionAbsentKeyIsEmpty(t *testing.T) {
	col := NewCollection[models.HistoryItem](NewMemoryRecordStore(), KeyHistory)
	items, err := col.All(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCollectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRecordStore()
	col := NewCollection[models.HistoryItem](store, KeyHistory)

	require.NoError(t, col.Save(ctx, []models.HistoryItem{{Name: "Physics", Type: models.HistoryVisit}}))
	items, err := col.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Physics", items[0].Name)

	require.NoError(t, col.Save(ctx, nil))
	raw, found, err := store.Get(ctx, KeyHistory)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", string(raw))
}

func TestCollectionMalformedJSONIsCorrupt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRecordStore()
	require.NoError(t, store.Set(ctx, KeyUploads, []byte(`[{"id":`)))

	_, err := NewCollection[models.Upload](store, KeyUploads).All(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrStorageCorrupt))
}

func TestSnapshotLifecycle(t *testing.T) {
	ctx := context.Background()
	snap := NewSnapshot[models.SessionTeacher](NewMemoryRecordStore(), KeyCurrentTeacher)

	current, err := snap.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	require.NoError(t, snap.Store(ctx, models.SessionTeacher{ID: "teacher_1"}))
	current, err = snap.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "teacher_1", current.ID)

	require.NoError(t, snap.Clear(ctx))
	current, err = snap.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestMemoryRecordStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRecordStore()
	raw := []byte(`[]`)
	require.NoError(t, store.Set(ctx, KeyTeachers, raw))
	raw[0] = 'x'

	stored, found, err := store.Get(ctx, KeyTeachers)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", string(stored))
}

func TestFileRecordStore(t *testing.T) {
	ctx := context.Background()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store := NewFileRecordStore(files)

	_, found, err := store.Get(ctx, KeyTeachers)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, KeyTeachers, []byte(`[{"id":"teacher_1"}]`)))
	raw, found, err := store.Get(ctx, KeyTeachers)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"teacher_1"}]`, string(raw))
	assert.FileExists(t, files.Path("scienceHub_teachers.json"))

	require.NoError(t, store.Delete(ctx, KeyTeachers))
	_, found, err = store.Get(ctx, KeyTeachers)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisRecordStoreKeyPrefix(t *testing.T) {
	store := NewRedisRecordStore(nil, "sciencehub:")
	assert.Equal(t, "sciencehub:scienceHub_uploads", store.redisKey(KeyUploads))
}

type recordingObserver struct {
	ops []string
}

func (o *recordingObserver) ObserveStoreOperation(operation, key string, duration time.Duration, err error) {
	entry := operation + ":" + key
	if err != nil {
		entry += ":error"
	}
	o.ops = append(o.ops, entry)
}

func TestInstrumentedRecordStoreReportsCalls(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryRecordStore()
	assert.Same(t, inner, NewInstrumentedRecordStore(inner, nil))

	observer := &recordingObserver{}
	store := NewInstrumentedRecordStore(inner, observer)
	require.NoError(t, store.Set(ctx, KeyHistory, []byte("[]")))
	_, found, err := store.Get(ctx, KeyHistory)
	require.NoError(t, err)
	assert.True(t, found)
	require.NoError(t, store.Delete(ctx, KeyHistory))

	assert.Equal(t, []string{
		"set:scienceHubHistory",
		"get:scienceHubHistory",
		"delete:scienceHubHistory",
	}, observer.ops)
}
