package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/utkuyucel/ibbtraffic/internal/application/poller"
	"github.com/utkuyucel/ibbtraffic/internal/application/workers"
	"github.com/utkuyucel/ibbtraffic/internal/config"
	"github.com/utkuyucel/ibbtraffic/internal/ports"
	eventsmemory "github.com/utkuyucel/ibbtraffic/pkg/adapters/events/memory"
	eventsredis "github.com/utkuyucel/ibbtraffic/pkg/adapters/events/redis"
	"github.com/utkuyucel/ibbtraffic/pkg/adapters/metrics/prometheus"
	storagememory "github.com/utkuyucel/ibbtraffic/pkg/adapters/storage/memory"
	storageredis "github.com/utkuyucel/ibbtraffic/pkg/adapters/storage/redis"
	"github.com/utkuyucel/ibbtraffic/pkg/api/http"
	"github.com/utkuyucel/ibbtraffic/pkg/api/websocket"
	"github.com/utkuyucel/ibbtraffic/pkg/reader"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting traffic reader",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Initialize adapters. Redis is only dialed when the redis backend is
	// selected; the default memory backend needs no external services.
	var (
		eventBus    ports.EventBus
		storage     ports.SnapshotStorage
		redisClient *goredis.Client
	)

	switch cfg.Storage.Backend {
	case config.BackendRedis:
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		bus, err := eventsredis.NewStreamsEventBus(
			redisClient,
			"ibbtraffic-workers",
			fmt.Sprintf("ibbtraffic-%d", os.Getpid()),
			logger,
		)
		if err != nil {
			logger.Fatal("failed to create event bus", zap.Error(err))
		}
		eventBus = bus

		storage = storageredis.NewSnapshotStorage(
			redisClient,
			cfg.Storage.SnapshotTTL,
			cfg.Storage.HistoryLimit,
			logger,
		)

	default:
		eventBus = eventsmemory.NewEventBus()
		storage = storagememory.NewSnapshotStorage(cfg.Storage.HistoryLimit)
	}

	client := reader.New(cfg.API.BaseURL,
		reader.WithTimeout(cfg.API.RequestTimeout),
		reader.WithUserAgent(cfg.API.UserAgent),
		reader.WithLogger(logger),
	)

	metricsCollector := prometheus.NewCollector()

	// Initialize application components
	validator := poller.NewValidator()

	pollerMgr, err := poller.NewManager(
		eventBus,
		storage,
		metricsCollector,
		validator,
		logger,
		cfg.API.Endpoints,
		cfg.Poll.Interval,
	)
	if err != nil {
		logger.Fatal("failed to create poller", zap.Error(err))
	}

	workerPool := workers.NewPool(
		cfg.Workers.PoolSize,
		eventBus,
		storage,
		client,
		metricsCollector,
		logger,
		cfg.Poll.FetchTimeout,
		cfg.Workers.HealthCheckInterval,
	)

	// Start worker pool before the poller so the first tick has consumers
	if err := workerPool.Start(); err != nil {
		logger.Fatal("failed to start worker pool", zap.Error(err))
	}

	if err := pollerMgr.Start(); err != nil {
		logger.Fatal("failed to start poller", zap.Error(err))
	}

	// Initialize HTTP server
	httpServer := http.NewServer(&http.Config{
		Port:   cfg.HTTPPort,
		Poller: pollerMgr,
		Logger: logger,
	})

	// Add WebSocket handler to HTTP server
	wsHandler := websocket.NewHandler(eventBus, logger)
	httpServer.SetupWebSocket(wsHandler)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("traffic reader started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Strings("endpoints", cfg.API.Endpoints),
		zap.Int("worker_pool_size", cfg.Workers.PoolSize))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := pollerMgr.Shutdown(shutdownCtx); err != nil {
		logger.Error("poller shutdown error", zap.Error(err))
	}

	if err := workerPool.Shutdown(shutdownCtx); err != nil {
		logger.Error("worker pool shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("traffic reader shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
