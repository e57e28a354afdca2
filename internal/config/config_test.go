package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkuyucel/ibbtraffic/pkg/reader"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, reader.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, []string{"TrafficIndex_Sc1_Cont"}, cfg.API.Endpoints)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, 100, cfg.Storage.HistoryLimit)
	assert.Equal(t, 3, cfg.Workers.PoolSize)
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
}

func TestLoad_EndpointListFromEnv(t *testing.T) {
	t.Setenv("TRAFFIC_ENDPOINTS", "TrafficIndex_Sc1_Cont,AnnouncementData")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"TrafficIndex_Sc1_Cont", "AnnouncementData"}, cfg.API.Endpoints)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage backend")
}

func TestValidate_RedisBackendRequiresAddr(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis address is required")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("TRAFFIC_HTTP_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_PoolSizeFloor(t *testing.T) {
	t.Setenv("WORKER_POOL_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker pool size")
}
