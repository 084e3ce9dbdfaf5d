package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/science-hub-api/internal/dto"
	"github.com/noah-isme/science-hub-api/internal/models"
	"github.com/noah-isme/science-hub-api/internal/repository"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

func newHistoryFixture() *HistoryService {
	svc := NewHistoryService(repository.NewHistoryRepository(repository.NewMemoryRecordStore()), NewValidator())
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return svc
}

func TestHistoryRecordDedupesAndPrepends(t *testing.T) {
	svc := newHistoryFixture()
	ctx := context.Background()

	_, err := svc.Record(ctx, dto.RecordHistoryRequest{Name: "Optics"})
	require.NoError(t, err)
	_, err = svc.Record(ctx, dto.RecordHistoryRequest{Name: "Genetics"})
	require.NoError(t, err)
	items, err := svc.Record(ctx, dto.RecordHistoryRequest{Name: "Optics", Resume: true})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Optics", items[0].Name)
	assert.Equal(t, models.HistoryResume, items[0].Type)
	assert.Equal(t, "Genetics", items[1].Name)
	assert.Equal(t, models.HistoryVisit, items[1].Type)

	_, err = svc.Record(ctx, dto.RecordHistoryRequest{Name: "   "})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestHistoryCapacityAndRecent(t *testing.T) {
	svc := newHistoryFixture()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.Record(ctx, dto.RecordHistoryRequest{Name: fmt.Sprintf("item-%d", i)})
		require.NoError(t, err)
	}

	all, err := svc.Recent(ctx, 50)
	require.NoError(t, err)
	require.Len(t, all, historyCapacity)
	assert.Equal(t, "item-11", all[0].Name)
	assert.Equal(t, "item-2", all[9].Name)

	recent, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, defaultRecentItems)

	three, err := svc.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, three, 3)

	require.NoError(t, svc.Clear(ctx))
	empty, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
