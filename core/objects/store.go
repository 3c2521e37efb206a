package objects

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"bucketkit/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// DefaultRestoreDays is used when RestoreOptions.Days is not positive.
const DefaultRestoreDays = 7

// amzStorageClass is the header carrying the storage class on copy requests.
const amzStorageClass = "X-Amz-Storage-Class"

// Store exposes one method per storage operation on top of a storage.Client.
// It holds no state besides the client and is safe for concurrent use.
type Store struct {
	client storage.Client
	logger *zap.Logger
}

// New creates a Store bound to client.
func New(client storage.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client: client,
		logger: logger,
	}
}

// PutOptions controls WriteObject and UploadFile.
type PutOptions struct {
	// Compress gzips the content before upload and sets Content-Encoding: gzip.
	Compress bool
	// ContentType overrides the stored content type.
	ContentType string
	// StorageClass selects the storage tier, e.g. STANDARD_IA or GLACIER.
	StorageClass string
}

func (o PutOptions) putObjectOptions() minio.PutObjectOptions {
	opts := minio.PutObjectOptions{
		ContentType:  o.ContentType,
		StorageClass: o.StorageClass,
	}
	if o.Compress {
		opts.ContentEncoding = ContentEncodingGzip
	}
	return opts
}

// CopyOptions controls CopyObject.
type CopyOptions struct {
	// StorageClass sets the storage tier of the destination. Empty lets the service
	// choose (STANDARD on S3), whatever the source tier was.
	StorageClass string
}

// RestoreOptions controls RestoreObject.
type RestoreOptions struct {
	// Days the restored copy stays available. Defaults to DefaultRestoreDays.
	Days int
	// Tier is the retrieval speed. Defaults to minio.TierStandard.
	Tier minio.TierType
	// VersionID targets a specific object version.
	VersionID string
}

// RestoreResult describes an accepted restore request.
type RestoreResult struct {
	Bucket string         `json:"bucket"`
	Key    string         `json:"key"`
	Days   int            `json:"days"`
	Tier   minio.TierType `json:"tier"`
	// AlreadyInProgress is set when the service reported a restore already running for the object.
	AlreadyInProgress bool `json:"already_in_progress"`
}

// GetObject fetches an object's metadata and content stream. The caller must close Body.
func (s *Store) GetObject(ctx context.Context, bucket, key string) (*storage.Object, error) {
	s.logger.Debug("get object", zap.String("bucket", bucket), zap.String("key", key))
	return s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
}

// GetObjectContent returns the object body decoded as UTF-8 text.
// Compressed objects are returned as stored; no decompression is applied.
func (s *Store) GetObjectContent(ctx context.Context, bucket, key string) (string, error) {
	obj, err := s.GetObject(ctx, bucket, key)
	if err != nil {
		return "", err
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}
	return string(data), nil
}

// ObjectExists reports whether at least one object key starts with prefix.
// This is a prefix test: "a/b" matches "a/b.json" and "a/b/c". Use KeyExists
// for an exact match. A missing bucket or key yields false, not an error.
func (s *Store) ObjectExists(ctx context.Context, bucket, prefix string) (bool, error) {
	res, err := s.client.ListObjectsV2(ctx, bucket, prefix, "", 1)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return len(res.Contents) > 0, nil
}

// KeyExists reports whether an object with exactly this key exists.
func (s *Store) KeyExists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// WriteObject stores content under bucket/key, gzipping it first when opts.Compress is set.
func (s *Store) WriteObject(ctx context.Context, bucket, key string, content []byte, opts PutOptions) (minio.UploadInfo, error) {
	body := content
	if opts.Compress {
		var err error
		if body, err = gzipBytes(content); err != nil {
			return minio.UploadInfo{}, err
		}
	}

	s.logger.Debug("write object",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("size", len(body)),
		zap.Bool("compressed", opts.Compress),
	)
	return s.client.PutObject(ctx, bucket, key, bytes.NewReader(body), int64(len(body)), opts.putObjectOptions())
}

// UploadFile uploads the local file at path to bucket/key. Errors from the
// local filesystem are returned unmodified.
func (s *Store) UploadFile(ctx context.Context, path, bucket, key string, opts PutOptions) (minio.UploadInfo, error) {
	if _, err := os.Stat(path); err != nil {
		return minio.UploadInfo{}, err
	}

	s.logger.Debug("upload file",
		zap.String("path", path),
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Bool("compressed", opts.Compress),
	)

	if !opts.Compress {
		return s.client.FPutObject(ctx, bucket, key, path, opts.putObjectOptions())
	}

	f, err := os.Open(path)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := gzipTo(&buf, f); err != nil {
		return minio.UploadInfo{}, err
	}

	putOpts := opts.putObjectOptions()
	if putOpts.ContentType == "" {
		putOpts.ContentType = mime.TypeByExtension(filepath.Ext(path))
	}
	return s.client.PutObject(ctx, bucket, key, &buf, int64(buf.Len()), putOpts)
}

// CopyObject copies source ("bucket/key") to dstBucket/dstKey on the server side.
// When opts.StorageClass is set the source metadata is carried over and the
// destination is written in the new tier.
func (s *Store) CopyObject(ctx context.Context, dstBucket, dstKey, source string, opts CopyOptions) (minio.UploadInfo, error) {
	srcBucket, srcKey, err := ParseSource(source)
	if err != nil {
		return minio.UploadInfo{}, err
	}

	src := minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey}
	dst := minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey}

	if opts.StorageClass != "" {
		info, err := s.client.StatObject(ctx, srcBucket, srcKey, minio.StatObjectOptions{})
		if err != nil {
			return minio.UploadInfo{}, err
		}
		meta := make(map[string]string, len(info.UserMetadata)+3)
		for k, v := range info.UserMetadata {
			meta[k] = v
		}
		if info.ContentType != "" {
			meta["Content-Type"] = info.ContentType
		}
		if enc := info.Metadata.Get("Content-Encoding"); enc != "" {
			meta["Content-Encoding"] = enc
		}
		meta[amzStorageClass] = opts.StorageClass
		dst.UserMetadata = meta
		dst.ReplaceMetadata = true
	}

	s.logger.Debug("copy object",
		zap.String("source", source),
		zap.String("bucket", dstBucket),
		zap.String("key", dstKey),
		zap.String("storage_class", opts.StorageClass),
	)
	return s.client.CopyObject(ctx, dst, src)
}

// DeleteObject removes bucket/key.
func (s *Store) DeleteObject(ctx context.Context, bucket, key string) error {
	s.logger.Debug("delete object", zap.String("bucket", bucket), zap.String("key", key))
	return s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

// RestoreObject asks the service to make an archived object temporarily
// retrievable. A restore that is already running is not an error: it is
// logged and reported through RestoreResult.AlreadyInProgress.
func (s *Store) RestoreObject(ctx context.Context, bucket, key string, opts RestoreOptions) (RestoreResult, error) {
	days := opts.Days
	if days <= 0 {
		days = DefaultRestoreDays
	}
	tier := opts.Tier
	if tier == "" {
		tier = minio.TierStandard
	}

	req := minio.RestoreRequest{}
	req.SetDays(days)
	req.SetGlacierJobParameters(minio.GlacierJobParameters{Tier: tier})

	result := RestoreResult{Bucket: bucket, Key: key, Days: days, Tier: tier}

	if err := s.client.RestoreObject(ctx, bucket, key, opts.VersionID, req); err != nil {
		if !IsRestoreInProgress(err) {
			return RestoreResult{}, err
		}
		s.logger.Warn("Restore already in progress",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		result.AlreadyInProgress = true
	}
	return result, nil
}

// ParseSource splits a copy source of the form "bucket/key". A leading "/"
// or "s3://" is accepted.
func ParseSource(source string) (bucket, key string, err error) {
	source = strings.TrimPrefix(source, "s3://")
	source = strings.TrimPrefix(source, "/")
	bucket, key, ok := strings.Cut(source, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", ErrInvalidCopySource
	}
	return bucket, key, nil
}

// WriteLog stores a batch of newline-delimited JSON log records.
func (s *Store) WriteLog(ctx context.Context, bucket, key string, content []byte) error {
	_, err := s.WriteObject(ctx, bucket, key, content, PutOptions{ContentType: "application/x-ndjson"})
	return err
}

// ParseTier maps a case-insensitive tier name to a minio.TierType. An empty
// name yields "" so RestoreObject applies its default.
func ParseTier(name string) (minio.TierType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "standard":
		return minio.TierStandard, nil
	case "bulk":
		return minio.TierBulk, nil
	case "expedited":
		return minio.TierExpedited, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTier, name)
}
