package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/utkuyucel/ibbtraffic/internal/domain"
	"github.com/utkuyucel/ibbtraffic/internal/ports"
)

const (
	latestKeyPrefix  = "ibbtraffic:latest:"
	historyKeyPrefix = "ibbtraffic:history:"
)

// SnapshotStorage implements SnapshotStorage using Redis.
type SnapshotStorage struct {
	client       *redis.Client
	logger       *zap.Logger
	ttl          time.Duration
	historyLimit int
}

// NewSnapshotStorage creates a new Redis snapshot storage.
func NewSnapshotStorage(client *redis.Client, ttl time.Duration, historyLimit int, logger *zap.Logger) *SnapshotStorage {
	if historyLimit < 1 {
		historyLimit = 1
	}
	return &SnapshotStorage{
		client:       client,
		logger:       logger,
		ttl:          ttl,
		historyLimit: historyLimit,
	}
}

// SaveSnapshot stores a snapshot as the latest value for its endpoint and
// pushes it to the bounded history list, both with TTL.
func (s *SnapshotStorage) SaveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	latestKey := getLatestKey(snapshot.Endpoint)
	historyKey := getHistoryKey(snapshot.Endpoint)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, latestKey, data, s.ttl)
	pipe.LPush(ctx, historyKey, data)
	pipe.LTrim(ctx, historyKey, 0, int64(s.historyLimit-1))
	pipe.Expire(ctx, historyKey, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.logger.Debug("snapshot saved",
		zap.String("endpoint", snapshot.Endpoint),
		zap.Int("status", snapshot.StatusCode),
		zap.Int("records", len(snapshot.Records)))

	return nil
}

// LatestSnapshot returns the most recent snapshot for an endpoint.
func (s *SnapshotStorage) LatestSnapshot(ctx context.Context, endpoint string) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, getLatestKey(endpoint)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ports.ErrSnapshotNotFound, endpoint)
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

// History returns up to limit snapshots for an endpoint, newest first.
func (s *SnapshotStorage) History(ctx context.Context, endpoint string, limit int) ([]*domain.Snapshot, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}

	items, err := s.client.LRange(ctx, getHistoryKey(endpoint), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	snapshots := make([]*domain.Snapshot, 0, len(items))
	for _, item := range items {
		var snapshot domain.Snapshot
		if err := json.Unmarshal([]byte(item), &snapshot); err != nil {
			s.logger.Warn("skipping undecodable history entry",
				zap.String("endpoint", endpoint),
				zap.Error(err))
			continue
		}
		snapshots = append(snapshots, &snapshot)
	}

	return snapshots, nil
}

// Endpoints returns all endpoints that have a stored latest snapshot.
func (s *SnapshotStorage) Endpoints(ctx context.Context) ([]string, error) {
	pattern := latestKeyPrefix + "*"

	var cursor uint64
	var keys []string

	for {
		var batch []string
		var err error

		batch, cursor, err = s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		keys = append(keys, batch...)

		if cursor == 0 {
			break
		}
	}

	endpoints := make([]string, 0, len(keys))
	for _, key := range keys {
		endpoints = append(endpoints, strings.TrimPrefix(key, latestKeyPrefix))
	}
	sort.Strings(endpoints)

	return endpoints, nil
}

func getLatestKey(endpoint string) string {
	return latestKeyPrefix + endpoint
}

func getHistoryKey(endpoint string) string {
	return historyKeyPrefix + endpoint
}
