package cmd

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"bucketkit/core/config"
	"bucketkit/core/logger"
	"bucketkit/core/objects"
	"bucketkit/core/server"
	"bucketkit/core/storage"
	"bucketkit/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func testApp(client *mocks.Client, apiKey string) *app {
	return &app{
		cfg: &config.Config{
			Server:  server.Config{Port: "0", ApiKey: apiKey},
			Storage: storage.Config{Bucket: "test-bucket"},
		},
		logger: zap.NewNop(),
		client: client,
		store:  objects.New(client, zap.NewNop()),
	}
}

func TestNewServer(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("ListObjectsV2", mock.Anything, "test-bucket", "manifest.json", "", 1).
		Return(minio.ListBucketV2Result{}, nil)

	srv, err := newServer(testApp(mockClient, "secret"))
	require.NoError(t, err)

	t.Run("HealthIsPublic", func(t *testing.T) {
		resp, err := srv.Test(httptest.NewRequest("GET", "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))
	})

	t.Run("BucketRoutesNeedKey", func(t *testing.T) {
		resp, err := srv.Test(httptest.NewRequest("GET", "/buckets/test-bucket/exists?prefix=manifest.json", nil))
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("BucketRoutesWithKey", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/buckets/test-bucket/exists?prefix=manifest.json", nil)
		req.Header.Set("X-API-Key", "secret")
		resp, err := srv.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})
}

func TestApp_BucketOr(t *testing.T) {
	a := testApp(new(mocks.Client), "")

	b, err := a.bucketOr("explicit")
	assert.NoError(t, err)
	assert.Equal(t, "explicit", b)

	b, err = a.bucketOr("")
	assert.NoError(t, err)
	assert.Equal(t, "test-bucket", b)

	a.cfg.Storage.Bucket = ""
	_, err = a.bucketOr("")
	assert.Error(t, err)
}

type shippedLogs struct {
	mu      sync.Mutex
	objects []string
}

func (s *shippedLogs) WriteLog(_ context.Context, _, _ string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, string(content))
	return nil
}

func (s *shippedLogs) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *shippedLogs) joined() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.objects, "")
}

func withSink(a *app, w logger.ObjectWriter) *app {
	a.sink = logger.NewStorageSink(w, "log-bucket", "logs")
	a.logger = logger.Tee(zap.NewNop(), a.sink, zapcore.InfoLevel)
	return a
}

func TestServe_ShipsLogsWhileRunning(t *testing.T) {
	shipped := &shippedLogs{}
	a := withSink(testApp(new(mocks.Client), ""), shipped)

	srv, err := newServer(a)
	require.NoError(t, err)

	stop := a.startLogFlusher(10 * time.Millisecond)

	const requests = 100
	for i := 0; i < requests; i++ {
		resp, err := srv.Test(httptest.NewRequest("GET", "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}

	// Records are shipped while the server is still running.
	require.Eventually(t, func() bool { return shipped.count() > 0 }, 2*time.Second, 10*time.Millisecond)

	stop()
	assert.Zero(t, a.sink.Buffered())
	assert.Equal(t, requests, strings.Count(shipped.joined(), "Request started"))
}

func TestServe_SinkThresholdBoundsBuffer(t *testing.T) {
	shipped := &shippedLogs{}
	a := withSink(testApp(new(mocks.Client), ""), shipped)
	a.sink.SetFlushThreshold(1024)

	srv, err := newServer(a)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		_, err := srv.Test(httptest.NewRequest("GET", "/healthz", nil))
		require.NoError(t, err)
	}

	assert.Greater(t, shipped.count(), 1)
	assert.Less(t, a.sink.Buffered(), 1024)
}

func TestStartLogFlusher_NoSink(t *testing.T) {
	a := testApp(new(mocks.Client), "")
	stop := a.startLogFlusher(time.Millisecond)
	assert.NotPanics(t, stop)
}
