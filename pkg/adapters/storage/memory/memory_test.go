package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkuyucel/ibbtraffic/internal/domain"
	"github.com/utkuyucel/ibbtraffic/internal/ports"
	"github.com/utkuyucel/ibbtraffic/pkg/reader"
)

func snapshot(endpoint string, status int) *domain.Snapshot {
	return &domain.Snapshot{
		ID:         fmt.Sprintf("%s-%d", endpoint, time.Now().UnixNano()),
		Endpoint:   endpoint,
		StatusCode: status,
		Records:    []reader.Record{{"TrafficIndex": 30}},
		FetchedAt:  time.Now(),
	}
}

func TestSaveAndLatest(t *testing.T) {
	t.Parallel()

	storage := NewSnapshotStorage(10)
	ctx := context.Background()

	snap := snapshot("TrafficIndex_Sc1_Cont", 200)
	require.NoError(t, storage.SaveSnapshot(ctx, snap))

	got, err := storage.LatestSnapshot(ctx, "TrafficIndex_Sc1_Cont")
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.True(t, got.OK())
}

func TestLatest_NotFound(t *testing.T) {
	t.Parallel()

	storage := NewSnapshotStorage(10)

	_, err := storage.LatestSnapshot(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestHistory_NewestFirstAndBounded(t *testing.T) {
	t.Parallel()

	storage := NewSnapshotStorage(3)
	ctx := context.Background()

	var last *domain.Snapshot
	for i := 0; i < 5; i++ {
		last = snapshot("AnnouncementData", 200)
		last.ID = fmt.Sprintf("snap-%d", i)
		require.NoError(t, storage.SaveSnapshot(ctx, last))
	}

	hist, err := storage.History(ctx, "AnnouncementData", 0)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, "snap-4", hist[0].ID)
	assert.Equal(t, "snap-2", hist[2].ID)

	limited, err := storage.History(ctx, "AnnouncementData", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestEndpoints_Sorted(t *testing.T) {
	t.Parallel()

	storage := NewSnapshotStorage(10)
	ctx := context.Background()

	require.NoError(t, storage.SaveSnapshot(ctx, snapshot("b", 200)))
	require.NoError(t, storage.SaveSnapshot(ctx, snapshot("a", 200)))

	endpoints, err := storage.Endpoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, endpoints)
}

func TestSaveSnapshot_CopiesInput(t *testing.T) {
	t.Parallel()

	storage := NewSnapshotStorage(10)
	ctx := context.Background()

	snap := snapshot("c", 200)
	require.NoError(t, storage.SaveSnapshot(ctx, snap))

	snap.StatusCode = 500

	got, err := storage.LatestSnapshot(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 200, got.StatusCode)
}
