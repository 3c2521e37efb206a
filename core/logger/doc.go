// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it to the
// log entry, so all logs related to a specific request can be correlated.
//
// # Storage Sink
//
// StorageSink buffers encoded records and ships them to object storage on Sync,
// one object per flush, keyed <prefix>/<UTC timestamp>-<uuid>.log. Tee attaches
// it to an existing logger. Shipping failures are returned from Sync and the
// buffer is kept.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//   - SinkBucket / SinkPrefix: where shipped logs go
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	sink := logger.NewStorageSink(store, cfg.Log.SinkBucket, cfg.Log.SinkPrefix)
//	log = logger.Tee(log, sink, zap.InfoLevel)
//	defer log.Sync()
package logger
