package objects

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"

	"bucketkit/core/storage"

	"github.com/minio/minio-go/v7"
)

// fakeClient is an in-memory storage.Client with S3-like listing and error codes.
type fakeClient struct {
	mu      sync.Mutex
	buckets map[string]map[string]fakeObject
}

type fakeObject struct {
	data []byte
	opts minio.PutObjectOptions
}

func newFakeClient(buckets ...string) *fakeClient {
	f := &fakeClient{buckets: make(map[string]map[string]fakeObject)}
	for _, b := range buckets {
		f.buckets[b] = make(map[string]fakeObject)
	}
	return f
}

func noSuchKey(bucket, key string) error {
	return minio.ErrorResponse{Code: CodeNoSuchKey, StatusCode: http.StatusNotFound, BucketName: bucket, Key: key}
}

func noSuchBucket(bucket string) error {
	return minio.ErrorResponse{Code: CodeNoSuchBucket, StatusCode: http.StatusNotFound, BucketName: bucket}
}

func (f *fakeClient) lookup(bucket, key string) (fakeObject, error) {
	objs, ok := f.buckets[bucket]
	if !ok {
		return fakeObject{}, noSuchBucket(bucket)
	}
	obj, ok := objs[key]
	if !ok {
		return fakeObject{}, noSuchKey(bucket, key)
	}
	return obj, nil
}

func (f *fakeClient) info(key string, obj fakeObject) minio.ObjectInfo {
	meta := http.Header{}
	if obj.opts.ContentEncoding != "" {
		meta.Set("Content-Encoding", obj.opts.ContentEncoding)
	}
	return minio.ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		ContentType:  obj.opts.ContentType,
		StorageClass: obj.opts.StorageClass,
		Metadata:     meta,
	}
}

func (f *fakeClient) GetObject(_ context.Context, bucketName, objectName string, _ minio.GetObjectOptions) (*storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, err := f.lookup(bucketName, objectName)
	if err != nil {
		return nil, err
	}
	return &storage.Object{
		Info: f.info(objectName, obj),
		Body: io.NopCloser(bytes.NewReader(obj.data)),
	}, nil
}

func (f *fakeClient) StatObject(_ context.Context, bucketName, objectName string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, err := f.lookup(bucketName, objectName)
	if err != nil {
		return minio.ObjectInfo{}, err
	}
	return f.info(objectName, obj), nil
}

// ListObjectsV2 uses the last returned key as the continuation token.
func (f *fakeClient) ListObjectsV2(_ context.Context, bucketName, prefix, continuationToken string, maxKeys int) (minio.ListBucketV2Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	objs, ok := f.buckets[bucketName]
	if !ok {
		return minio.ListBucketV2Result{}, noSuchBucket(bucketName)
	}
	if maxKeys <= 0 {
		maxKeys = 1000
	}

	var keys []string
	for k := range objs {
		if strings.HasPrefix(k, prefix) && k > continuationToken {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	res := minio.ListBucketV2Result{Name: bucketName, Prefix: prefix, MaxKeys: int64(maxKeys)}
	if len(keys) > maxKeys {
		keys = keys[:maxKeys]
		res.IsTruncated = true
		res.NextContinuationToken = keys[len(keys)-1]
	}
	for _, k := range keys {
		res.Contents = append(res.Contents, f.info(k, objs[k]))
	}
	return res, nil
}

func (f *fakeClient) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	objs, ok := f.buckets[bucketName]
	if !ok {
		return minio.UploadInfo{}, noSuchBucket(bucketName)
	}
	objs[objectName] = fakeObject{data: data, opts: opts}
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeClient) FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	return f.PutObject(ctx, bucketName, objectName, bytes.NewReader(data), int64(len(data)), opts)
}

func (f *fakeClient) CopyObject(_ context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, err := f.lookup(src.Bucket, src.Object)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	objs, ok := f.buckets[dst.Bucket]
	if !ok {
		return minio.UploadInfo{}, noSuchBucket(dst.Bucket)
	}
	if class, ok := dst.UserMetadata[amzStorageClass]; ok {
		obj.opts.StorageClass = class
	}
	objs[dst.Object] = obj
	return minio.UploadInfo{Bucket: dst.Bucket, Key: dst.Object, Size: int64(len(obj.data))}, nil
}

func (f *fakeClient) RemoveObject(_ context.Context, bucketName, objectName string, _ minio.RemoveObjectOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	objs, ok := f.buckets[bucketName]
	if !ok {
		return noSuchBucket(bucketName)
	}
	delete(objs, objectName)
	return nil
}

func (f *fakeClient) RestoreObject(_ context.Context, bucketName, objectName, _ string, _ minio.RestoreRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.lookup(bucketName, objectName)
	return err
}
