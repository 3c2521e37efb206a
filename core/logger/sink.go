package logger

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ObjectWriter persists a log batch. *objects.Store satisfies it.
type ObjectWriter interface {
	WriteLog(ctx context.Context, bucket, key string, content []byte) error
}

// ObjectWriterFunc adapts a function to ObjectWriter.
type ObjectWriterFunc func(ctx context.Context, bucket, key string, content []byte) error

// WriteLog calls f.
func (f ObjectWriterFunc) WriteLog(ctx context.Context, bucket, key string, content []byte) error {
	return f(ctx, bucket, key, content)
}

// StorageSink is a zapcore.WriteSyncer that buffers encoded log records and
// ships them as one object per Sync. With a flush threshold set, Write also
// ships once the buffer reaches it.
type StorageSink struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	writer    ObjectWriter
	bucket    string
	prefix    string
	threshold int
	now       func() time.Time
}

// dropFactor bounds the buffer at threshold*dropFactor while shipping keeps failing.
const dropFactor = 4

// NewStorageSink creates a sink writing objects under bucket/prefix.
func NewStorageSink(w ObjectWriter, bucket, prefix string) *StorageSink {
	return &StorageSink{
		writer: w,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// SetFlushThreshold makes Write ship the buffer once it holds n bytes.
// Zero disables size-based shipping.
func (s *StorageSink) SetFlushThreshold(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = n
}

// Write buffers one encoded record. If the threshold is reached the buffer is
// shipped. When shipping keeps failing and the buffer grows past
// dropFactor times the threshold, buffered records are discarded and an
// error is returned.
func (s *StorageSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, _ := s.buf.Write(p)
	if s.threshold <= 0 || s.buf.Len() < s.threshold {
		return n, nil
	}

	err := s.flushLocked()
	if err != nil && s.buf.Len() >= s.threshold*dropFactor {
		dropped := s.buf.Len()
		s.buf.Reset()
		return n, fmt.Errorf("dropped %d buffered log bytes: %w", dropped, err)
	}
	return n, nil
}

// Sync persists everything buffered so far. On failure the buffer is kept and
// the error is returned so the next Sync can retry.
func (s *StorageSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *StorageSink) flushLocked() error {
	if s.buf.Len() == 0 {
		return nil
	}

	key := s.nextKey()
	if err := s.writer.WriteLog(context.Background(), s.bucket, key, s.buf.Bytes()); err != nil {
		return fmt.Errorf("failed to ship logs to %s/%s: %w", s.bucket, key, err)
	}
	s.buf.Reset()
	return nil
}

// Buffered returns the number of bytes waiting for the next Sync.
func (s *StorageSink) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Len()
}

func (s *StorageSink) nextKey() string {
	name := fmt.Sprintf("%s-%s.log", s.now().UTC().Format("20060102T150405Z"), uuid.NewString())
	return path.Join(s.prefix, name)
}

// Tee returns a logger that writes to base and also encodes records at or
// above level as JSON into sink.
func Tee(base *zap.Logger, sink zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sinkCore := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level)
	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, sinkCore)
	}))
}
