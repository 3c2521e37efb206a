package storage

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// Object is the envelope returned by GetObject: metadata plus the content stream.
// Callers must close Body.
type Object struct {
	Info minio.ObjectInfo
	Body io.ReadCloser
}

// Client defines the interface for storage operations.
type Client interface {
	// GetObject fetches an object. Its metadata is requested eagerly so a
	// missing object is reported here rather than on first read.
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*Object, error)
	// StatObject fetches object metadata.
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	// ListObjectsV2 fetches one listing page. An empty continuation token starts from the beginning.
	// ctx is only checked before the request: minio's Core listing takes no
	// context, so a page already in flight runs until the transport timeout.
	ListObjectsV2(ctx context.Context, bucketName, prefix, continuationToken string, maxKeys int) (minio.ListBucketV2Result, error)
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	// FPutObject uploads the contents of a local file.
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	// CopyObject performs a server-side copy.
	CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error)
	// RemoveObject deletes an object from a bucket.
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	// RestoreObject requests a temporary copy of an archived object.
	RestoreObject(ctx context.Context, bucketName, objectName, versionID string, req minio.RestoreRequest) error
}

// NewClient creates a new storage client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimSuffix(endpoint, "/")

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	core, err := minio.NewCore(endpoint, &minio.Options{
		Creds:     NewCredentials(cfg, transport),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	// Construction is lazy: credentials and endpoint reachability are only
	// checked by the first request.

	return &minioClientWrapper{Client: core.Client, core: core}, nil
}

// minioClientWrapper pairs the high-level client with the low-level core
// that exposes continuation-token listing.
type minioClientWrapper struct {
	*minio.Client
	core *minio.Core
}

func (c *minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*Object, error) {
	obj, err := c.Client.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, err
	}
	return &Object{Info: info, Body: obj}, nil
}

func (c *minioClientWrapper) ListObjectsV2(ctx context.Context, bucketName, prefix, continuationToken string, maxKeys int) (minio.ListBucketV2Result, error) {
	// Core.ListObjectsV2 has no ctx parameter.
	if err := ctx.Err(); err != nil {
		return minio.ListBucketV2Result{}, err
	}
	return c.core.ListObjectsV2(bucketName, prefix, "", continuationToken, "", maxKeys)
}
