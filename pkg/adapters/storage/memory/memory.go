package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/utkuyucel/ibbtraffic/internal/domain"
	"github.com/utkuyucel/ibbtraffic/internal/ports"
)

// SnapshotStorage implements SnapshotStorage using in-memory maps.
type SnapshotStorage struct {
	latest       map[string]*domain.Snapshot
	history      map[string][]*domain.Snapshot
	historyLimit int
	mu           sync.RWMutex
}

// NewSnapshotStorage creates a new in-memory snapshot storage. historyLimit
// bounds the number of snapshots kept per endpoint.
func NewSnapshotStorage(historyLimit int) *SnapshotStorage {
	if historyLimit < 1 {
		historyLimit = 1
	}
	return &SnapshotStorage{
		latest:       make(map[string]*domain.Snapshot),
		history:      make(map[string][]*domain.Snapshot),
		historyLimit: historyLimit,
	}
}

// SaveSnapshot stores a snapshot as the latest for its endpoint and prepends
// it to the endpoint history.
func (s *SnapshotStorage) SaveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to avoid mutations by the caller
	snapCopy := *snapshot
	s.latest[snapshot.Endpoint] = &snapCopy

	hist := append([]*domain.Snapshot{&snapCopy}, s.history[snapshot.Endpoint]...)
	if len(hist) > s.historyLimit {
		hist = hist[:s.historyLimit]
	}
	s.history[snapshot.Endpoint] = hist

	return nil
}

// LatestSnapshot returns the most recent snapshot for an endpoint.
func (s *SnapshotStorage) LatestSnapshot(ctx context.Context, endpoint string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.latest[endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrSnapshotNotFound, endpoint)
	}

	return snapshot, nil
}

// History returns up to limit snapshots for an endpoint, newest first.
func (s *SnapshotStorage) History(ctx context.Context, endpoint string, limit int) ([]*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hist := s.history[endpoint]
	if limit > 0 && limit < len(hist) {
		hist = hist[:limit]
	}

	out := make([]*domain.Snapshot, len(hist))
	copy(out, hist)
	return out, nil
}

// Endpoints returns all endpoints that have stored snapshots.
func (s *SnapshotStorage) Endpoints(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	endpoints := make([]string, 0, len(s.latest))
	for endpoint := range s.latest {
		endpoints = append(endpoints, endpoint)
	}
	sort.Strings(endpoints)

	return endpoints, nil
}
