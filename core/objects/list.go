package objects

import (
	"context"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ListOptions controls ListObjects.
type ListOptions struct {
	// ContinuationToken resumes a previous listing. Empty fetches the first page.
	ContinuationToken string
	// MaxKeys bounds the page size. Zero leaves it to the service (1000 on S3).
	MaxKeys int
}

// Page is one page of a prefix listing.
type Page struct {
	Objects []minio.ObjectInfo `json:"objects"`
	// ContinuationToken is set when more results remain.
	ContinuationToken string `json:"continuation_token,omitempty"`
	IsTruncated       bool   `json:"is_truncated"`
}

// Keys returns the object keys of the page in listing order.
func (p Page) Keys() []string {
	keys := make([]string, 0, len(p.Objects))
	for _, obj := range p.Objects {
		keys = append(keys, obj.Key)
	}
	return keys
}

// ListObject returns the first page of objects under prefix.
func (s *Store) ListObject(ctx context.Context, bucket, prefix string) (Page, error) {
	return s.ListObjects(ctx, bucket, prefix, ListOptions{})
}

// ListObjects returns one page of objects under prefix. Pass the returned
// ContinuationToken back in opts to fetch the next page.
func (s *Store) ListObjects(ctx context.Context, bucket, prefix string, opts ListOptions) (Page, error) {
	s.logger.Debug("list objects",
		zap.String("bucket", bucket),
		zap.String("prefix", prefix),
		zap.Bool("continued", opts.ContinuationToken != ""),
	)

	res, err := s.client.ListObjectsV2(ctx, bucket, prefix, opts.ContinuationToken, opts.MaxKeys)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Objects:     res.Contents,
		IsTruncated: res.IsTruncated,
	}
	if res.IsTruncated {
		page.ContinuationToken = res.NextContinuationToken
	}
	return page, nil
}

// ListAll walks every page under prefix and returns the concatenated objects.
// The result is not a consistent snapshot if the bucket changes during the walk.
func (s *Store) ListAll(ctx context.Context, bucket, prefix string) ([]minio.ObjectInfo, error) {
	var (
		all  []minio.ObjectInfo
		opts ListOptions
	)
	for {
		page, err := s.ListObjects(ctx, bucket, prefix, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Objects...)
		if page.ContinuationToken == "" {
			return all, nil
		}
		opts.ContinuationToken = page.ContinuationToken
	}
}
