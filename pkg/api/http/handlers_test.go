package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utkuyucel/ibbtraffic/internal/application/poller"
	"github.com/utkuyucel/ibbtraffic/internal/domain"
	eventsmem "github.com/utkuyucel/ibbtraffic/pkg/adapters/events/memory"
	storagemem "github.com/utkuyucel/ibbtraffic/pkg/adapters/storage/memory"
	"github.com/utkuyucel/ibbtraffic/pkg/reader"
)

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string, string, time.Duration) {}
func (noopMetrics) RecordSnapshotSaved(string, int)           {}
func (noopMetrics) RecordPollTick()                           {}
func (noopMetrics) RecordWorkerPoolStatus(int, int, int)      {}

func newTestServer(t *testing.T) (*Server, *storagemem.SnapshotStorage) {
	t.Helper()

	storage := storagemem.NewSnapshotStorage(10)
	mgr, err := poller.NewManager(
		eventsmem.NewEventBus(),
		storage,
		noopMetrics{},
		poller.NewValidator(),
		zap.NewNop(),
		[]string{"TrafficIndex_Sc1_Cont"},
		time.Minute,
	)
	require.NoError(t, err)

	srv := NewServer(&Config{
		Port:   0,
		Poller: mgr,
		Logger: zap.NewNop(),
	})

	return srv, storage
}

func seedSnapshot(t *testing.T, storage *storagemem.SnapshotStorage, id string) {
	t.Helper()

	require.NoError(t, storage.SaveSnapshot(context.Background(), &domain.Snapshot{
		ID:         id,
		Endpoint:   "TrafficIndex_Sc1_Cont",
		StatusCode: http.StatusOK,
		Records:    []reader.Record{{"TrafficIndex": 31}},
		FetchedAt:  time.Now(),
	}))
}

func doRequest(srv *Server, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := doRequest(srv, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestHandleListEndpoints(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := doRequest(srv, http.MethodGet, "/api/v1/traffic")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Endpoints []string `json:"endpoints"`
		Total     int      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"TrafficIndex_Sc1_Cont"}, body.Endpoints)
	assert.Equal(t, 1, body.Total)
}

func TestHandleLatest(t *testing.T) {
	t.Parallel()

	srv, storage := newTestServer(t)
	seedSnapshot(t, storage, "snap-1")

	rec := doRequest(srv, http.MethodGet, "/api/v1/traffic/TrafficIndex_Sc1_Cont/latest")
	assert.Equal(t, http.StatusOK, rec.Code)

	var snapshot domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "snap-1", snapshot.ID)
	assert.Len(t, snapshot.Records, 1)
}

func TestHandleLatest_NotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := doRequest(srv, http.MethodGet, "/api/v1/traffic/Unknown/latest")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestHandleHistory(t *testing.T) {
	t.Parallel()

	srv, storage := newTestServer(t)
	seedSnapshot(t, storage, "snap-1")
	seedSnapshot(t, storage, "snap-2")

	rec := doRequest(srv, http.MethodGet, "/api/v1/traffic/TrafficIndex_Sc1_Cont/history?limit=1")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Snapshots []domain.Snapshot `json:"snapshots"`
		Total     int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "snap-2", body.Snapshots[0].ID)
}

func TestHandleHistory_InvalidLimit(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := doRequest(srv, http.MethodGet, "/api/v1/traffic/TrafficIndex_Sc1_Cont/history?limit=zero")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_LIMIT")
}

func TestHandleRefresh(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/v1/traffic/TrafficIndex_Sc1_Cont/refresh")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "requested")

	// Second refresh while the first is still in flight conflicts.
	rec = doRequest(srv, http.MethodPost, "/api/v1/traffic/TrafficIndex_Sc1_Cont/refresh")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "FETCH_IN_FLIGHT")
}

func TestHandleRefresh_InvalidEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	rec := doRequest(srv, http.MethodPost, "/api/v1/traffic/bad%20name/refresh")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "REFRESH_FAILED")
}
