// Package ports defines the interfaces between the application core and its
// adapters (storage, events, metrics, the traffic API client).
package ports

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/utkuyucel/ibbtraffic/internal/domain"
	"github.com/utkuyucel/ibbtraffic/pkg/reader"
)

// ErrSnapshotNotFound is returned by SnapshotStorage when no snapshot has
// been stored for the requested endpoint.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Fetcher reads from the traffic API. Implemented by reader.Client.
type Fetcher interface {
	Get(ctx context.Context, endpoint string, params url.Values) (*reader.Response, error)
}

// SnapshotStorage persists fetched snapshots.
type SnapshotStorage interface {
	SaveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error
	LatestSnapshot(ctx context.Context, endpoint string) (*domain.Snapshot, error)
	History(ctx context.Context, endpoint string, limit int) ([]*domain.Snapshot, error)
	Endpoints(ctx context.Context) ([]string, error)
}

// EventHandler processes a single event delivered by the bus.
type EventHandler func(ctx context.Context, event domain.Event) error

// EventBus distributes fetch lifecycle events.
type EventBus interface {
	Publish(ctx context.Context, topic string, event domain.Event) error
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Unsubscribe(ctx context.Context, topic string) error
	Close() error
}

// MetricsCollector records operational metrics.
type MetricsCollector interface {
	RecordFetch(endpoint, outcome string, duration time.Duration)
	RecordSnapshotSaved(endpoint string, records int)
	RecordPollTick()
	RecordWorkerPoolStatus(idle, busy, stopped int)
}
