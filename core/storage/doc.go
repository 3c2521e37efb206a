// Package storage builds the authenticated connection to an S3-compatible
// object storage service.
//
// It wraps the MinIO Go client, which speaks the S3 API against AWS as well as
// MinIO and other compatible endpoints. A single Client pairs the high-level
// minio.Client with the low-level minio.Core so that callers get both the
// convenience calls (FPutObject, CopyObject, RestoreObject) and raw
// continuation-token listing.
//
// # Credentials
//
// NewClient resolves credentials through one chain, first match wins:
//
//  1. Config.AccessKey / Config.SecretKey when both are set
//  2. AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY (and AWS_SESSION_TOKEN)
//  3. the shared AWS credentials file
//  4. the EC2/ECS instance profile
//
// # Client Interface
//
// The Client interface is the seam used for mocking storage in unit tests
// (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	page, err := client.ListObjectsV2(ctx, "assets", "logs/", "", 100)
package storage
