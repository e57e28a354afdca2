package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utkuyucel/ibbtraffic/internal/domain"
	"github.com/utkuyucel/ibbtraffic/internal/ports"
)

// Topics used on the event bus.
const (
	TopicFetchJobs     = "fetch.jobs"
	TopicTrafficEvents = "traffic.events"
)

// ErrFetchInFlight is returned when a refresh is requested for an endpoint
// whose previous fetch has not completed yet.
var ErrFetchInFlight = fmt.Errorf("fetch already in flight")

// Manager coordinates periodic endpoint fetching
type Manager struct {
	eventBus  ports.EventBus
	storage   ports.SnapshotStorage
	metrics   ports.MetricsCollector
	validator *Validator
	logger    *zap.Logger

	endpoints []string
	interval  time.Duration

	// Track in-flight fetches per endpoint
	inflight sync.Map // map[string]time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a new poller manager. The endpoint list is validated up
// front; an invalid list is a configuration error.
func NewManager(
	eventBus ports.EventBus,
	storage ports.SnapshotStorage,
	metrics ports.MetricsCollector,
	validator *Validator,
	logger *zap.Logger,
	endpoints []string,
	interval time.Duration,
) (*Manager, error) {
	if err := validator.Validate(endpoints); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &Manager{
		eventBus:  eventBus,
		storage:   storage,
		metrics:   metrics,
		validator: validator,
		logger:    logger,
		endpoints: endpoints,
		interval:  interval,
	}, nil
}

// Start begins the poll loop and subscribes to fetch completion events.
func (m *Manager) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	// Completion events clear the in-flight marker
	completionHandler := func(_ context.Context, event domain.Event) error {
		switch event.Type {
		case domain.EventTypeFetchSucceeded, domain.EventTypeFetchFailed:
			m.inflight.Delete(event.Endpoint)
		}
		return nil
	}

	if err := m.eventBus.Subscribe(ctx, TopicTrafficEvents, completionHandler); err != nil {
		cancel()
		return fmt.Errorf("failed to subscribe to completion events: %w", err)
	}

	m.wg.Add(1)
	go m.run(ctx)

	m.logger.Info("poller started",
		zap.Strings("endpoints", m.endpoints),
		zap.Duration("interval", m.interval))

	return nil
}

// run is the main poll loop. The first tick fires immediately.
func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	m.tick(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// tick publishes a fetch job for every configured endpoint.
func (m *Manager) tick(ctx context.Context) {
	m.metrics.RecordPollTick()

	for _, endpoint := range m.endpoints {
		if err := m.TriggerFetch(ctx, endpoint); err != nil {
			if err == ErrFetchInFlight {
				m.logger.Debug("skipping endpoint, fetch in flight",
					zap.String("endpoint", endpoint))
				continue
			}
			m.logger.Error("failed to trigger fetch",
				zap.String("endpoint", endpoint),
				zap.Error(err))
		}
	}
}

// TriggerFetch publishes a fetch job for one endpoint. It returns
// ErrFetchInFlight when the endpoint's previous fetch has not completed.
func (m *Manager) TriggerFetch(ctx context.Context, endpoint string) error {
	if err := m.validator.ValidateEndpoint(endpoint); err != nil {
		return err
	}

	if started, loaded := m.inflight.LoadOrStore(endpoint, time.Now()); loaded {
		// A completion event may have been lost; allow a retry once the
		// marker is older than two poll intervals.
		if startedAt, ok := started.(time.Time); ok && time.Since(startedAt) < 2*m.interval {
			return ErrFetchInFlight
		}
		m.inflight.Store(endpoint, time.Now())
	}

	event := domain.Event{
		ID:        uuid.New().String(),
		Type:      domain.EventTypeFetchRequested,
		Endpoint:  endpoint,
		Timestamp: time.Now(),
	}

	if err := m.eventBus.Publish(ctx, TopicFetchJobs, event); err != nil {
		m.inflight.Delete(endpoint)
		return fmt.Errorf("failed to publish fetch job: %w", err)
	}

	m.logger.Debug("fetch job published",
		zap.String("endpoint", endpoint),
		zap.String("event_id", event.ID))

	return nil
}

// Endpoints returns the configured endpoint list.
func (m *Manager) Endpoints() []string {
	out := make([]string, len(m.endpoints))
	copy(out, m.endpoints)
	return out
}

// LatestSnapshot returns the most recent snapshot for an endpoint.
func (m *Manager) LatestSnapshot(ctx context.Context, endpoint string) (*domain.Snapshot, error) {
	snapshot, err := m.storage.LatestSnapshot(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return snapshot, nil
}

// History returns up to limit snapshots for an endpoint, newest first.
func (m *Manager) History(ctx context.Context, endpoint string, limit int) ([]*domain.Snapshot, error) {
	snapshots, err := m.storage.History(ctx, endpoint, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return snapshots, nil
}

// Shutdown gracefully shuts down the manager.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("shutting down poller")

	if m.cancel != nil {
		m.cancel()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("poller shut down complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout")
	}
}
