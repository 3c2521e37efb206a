package cmd

import (
	"context"
	"fmt"
	"time"

	"bucketkit/core/config"
	"bucketkit/core/logger"
	"bucketkit/core/objects"
	"bucketkit/core/storage"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	client storage.Client
	store  *objects.Store
	// sink is nil unless log.sink_bucket is set.
	sink *logger.StorageSink
}

// newApp is replaced in tests.
var newApp = bootstrap

// bootstrap loads configuration, builds the logger and connects to storage.
// When log.sink_bucket is set, log records are also shipped to that bucket.
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, err
	}

	store := objects.New(client, logg)

	if cfg.Log.SinkBucket != "" {
		level, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			level = zapcore.InfoLevel
		}
		sink := logger.NewStorageSink(store, cfg.Log.SinkBucket, cfg.Log.SinkPrefix)
		sink.SetFlushThreshold(cfg.Log.SinkMaxBytes)
		logg = logger.Tee(logg, sink, level)
		return &app{cfg: cfg, logger: logg, client: client, store: objects.New(client, logg), sink: sink}, nil
	}

	return &app{cfg: cfg, logger: logg, client: client, store: store}, nil
}

// startLogFlusher ships sink records every interval until the returned stop
// func is called. stop waits for the loop and ships what is left.
func (a *app) startLogFlusher(interval time.Duration) (stop func()) {
	if a.sink == nil || interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.flushLogs()
			}
		}
	}()

	return func() {
		cancel()
		<-done
		a.flushLogs()
	}
}

func (a *app) flushLogs() {
	if err := a.sink.Sync(); err != nil {
		a.logger.Warn("Failed to ship logs", zap.Error(err))
	}
}

// close flushes the logger, including any buffered sink records.
func (a *app) close() {
	if err := a.logger.Sync(); err != nil {
		a.logger.Debug("Logger sync failed", zap.Error(err))
	}
}

// bucketOr returns b, or the configured default bucket when b is empty.
func (a *app) bucketOr(b string) (string, error) {
	if b != "" {
		return b, nil
	}
	if a.cfg.Storage.Bucket == "" {
		return "", fmt.Errorf("no bucket given and storage.bucket is not set")
	}
	return a.cfg.Storage.Bucket, nil
}
