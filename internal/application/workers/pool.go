package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utkuyucel/ibbtraffic/internal/application/poller"
	"github.com/utkuyucel/ibbtraffic/internal/domain"
	"github.com/utkuyucel/ibbtraffic/internal/ports"
)

// Pool manages a pool of fetch worker goroutines
type Pool struct {
	size         int
	eventBus     ports.EventBus
	storage      ports.SnapshotStorage
	fetcher      ports.Fetcher
	metrics      ports.MetricsCollector
	logger       *zap.Logger
	health       *HealthMonitor
	fetchTimeout time.Duration

	jobs    chan domain.Event
	workers []*worker
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// worker represents a single worker goroutine
type worker struct {
	id      string
	pool    *Pool
	status  WorkerStatus
	mu      sync.RWMutex
	lastJob time.Time
}

// WorkerStatus represents worker status
type WorkerStatus string

const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusBusy    WorkerStatus = "busy"
	WorkerStatusStopped WorkerStatus = "stopped"
)

// NewPool creates a new fetch worker pool
func NewPool(
	size int,
	eventBus ports.EventBus,
	storage ports.SnapshotStorage,
	fetcher ports.Fetcher,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	fetchTimeout time.Duration,
	healthCheckInterval time.Duration,
) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &Pool{
		size:         size,
		eventBus:     eventBus,
		storage:      storage,
		fetcher:      fetcher,
		metrics:      metrics,
		logger:       logger,
		fetchTimeout: fetchTimeout,
		jobs:         make(chan domain.Event, size*2),
		workers:      make([]*worker, size),
		ctx:          ctx,
		cancel:       cancel,
	}

	pool.health = NewHealthMonitor(pool, healthCheckInterval, logger)

	return pool
}

// Start starts the worker pool and subscribes to fetch jobs.
func (p *Pool) Start() error {
	p.logger.Info("starting worker pool", zap.Int("size", p.size))

	// One subscription feeds all workers so a job is handled exactly once
	// regardless of the event bus backend.
	jobHandler := func(_ context.Context, event domain.Event) error {
		select {
		case p.jobs <- event:
			return nil
		case <-p.ctx.Done():
			return p.ctx.Err()
		}
	}

	if err := p.eventBus.Subscribe(p.ctx, poller.TopicFetchJobs, jobHandler); err != nil {
		return fmt.Errorf("failed to subscribe to fetch jobs: %w", err)
	}

	for i := 0; i < p.size; i++ {
		w := &worker{
			id:      fmt.Sprintf("worker-%d", i),
			pool:    p,
			status:  WorkerStatusIdle,
			lastJob: time.Now(),
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run(p.ctx)
	}

	p.health.Start()

	p.logger.Info("worker pool started", zap.Int("workers", p.size))
	return nil
}

// Shutdown gracefully shuts down the worker pool
func (p *Pool) Shutdown(ctx context.Context) error {
	p.logger.Info("shutting down worker pool")

	p.health.Stop()
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool shut down complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout")
	}
}

// GetStatus returns the status of all workers
func (p *Pool) GetStatus() map[string]WorkerStatus {
	status := make(map[string]WorkerStatus)
	for _, w := range p.workers {
		w.mu.RLock()
		status[w.id] = w.status
		w.mu.RUnlock()
	}
	return status
}

// run is the main worker loop
func (w *worker) run(ctx context.Context) {
	defer w.pool.wg.Done()

	w.pool.logger.Info("worker started", zap.String("worker_id", w.id))

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.status = WorkerStatusStopped
			w.mu.Unlock()
			w.pool.logger.Info("worker stopped", zap.String("worker_id", w.id))
			return
		case job := <-w.pool.jobs:
			w.handleFetch(ctx, job)
		}
	}
}

// handleFetch executes a single fetch job.
func (w *worker) handleFetch(ctx context.Context, job domain.Event) {
	w.mu.Lock()
	w.status = WorkerStatusBusy
	w.lastJob = time.Now()
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.status = WorkerStatusIdle
		w.mu.Unlock()
	}()

	endpoint := job.Endpoint

	w.pool.logger.Info("fetching endpoint",
		zap.String("worker_id", w.id),
		zap.String("endpoint", endpoint),
		zap.String("job_id", job.ID))

	fetchCtx, cancel := context.WithTimeout(ctx, w.pool.fetchTimeout)
	defer cancel()

	startTime := time.Now()
	resp, err := w.pool.fetcher.Get(fetchCtx, endpoint, nil)
	duration := time.Since(startTime)

	snapshot := &domain.Snapshot{
		ID:        uuid.New().String(),
		Endpoint:  endpoint,
		FetchedAt: startTime,
		Duration:  duration,
	}

	outcome := "success"
	if err != nil {
		snapshot.Error = err.Error()
		outcome = "error"
	} else {
		snapshot.StatusCode = resp.StatusCode
		snapshot.Records = resp.Records
		snapshot.Message = resp.Message
		if !resp.OK() {
			outcome = "http_error"
		}
	}

	w.pool.metrics.RecordFetch(endpoint, outcome, duration)

	if err := w.pool.storage.SaveSnapshot(ctx, snapshot); err != nil {
		w.pool.logger.Error("failed to save snapshot",
			zap.String("worker_id", w.id),
			zap.String("endpoint", endpoint),
			zap.Error(err))
	} else {
		w.pool.metrics.RecordSnapshotSaved(endpoint, len(snapshot.Records))
	}

	if snapshot.OK() {
		w.publishEvent(ctx, endpoint, domain.EventTypeFetchSucceeded, map[string]interface{}{
			"snapshot_id": snapshot.ID,
			"records":     len(snapshot.Records),
			"status":      snapshot.StatusCode,
		})
	} else {
		w.publishEvent(ctx, endpoint, domain.EventTypeFetchFailed, map[string]interface{}{
			"snapshot_id": snapshot.ID,
			"status":      snapshot.StatusCode,
			"error":       snapshot.Error,
		})
	}

	w.pool.logger.Info("fetch completed",
		zap.String("worker_id", w.id),
		zap.String("endpoint", endpoint),
		zap.String("outcome", outcome),
		zap.Int("records", len(snapshot.Records)),
		zap.Duration("duration", duration))
}

// publishEvent publishes an event to the event bus
func (w *worker) publishEvent(ctx context.Context, endpoint string, eventType domain.EventType, data map[string]interface{}) {
	event := domain.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Endpoint:  endpoint,
		Timestamp: time.Now(),
		Data:      data,
	}

	if err := w.pool.eventBus.Publish(ctx, poller.TopicTrafficEvents, event); err != nil {
		w.pool.logger.Error("failed to publish event",
			zap.String("worker_id", w.id),
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}
