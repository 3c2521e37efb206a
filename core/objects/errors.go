package objects

import (
	"errors"
	"net/http"

	"github.com/minio/minio-go/v7"
)

var (
	// ErrInvalidUTF8 is returned by GetObjectContent when the body is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("object content is not valid UTF-8")
	// ErrInvalidCopySource is returned by CopyObject when the source is not of the form bucket/key.
	ErrInvalidCopySource = errors.New("copy source must be of the form bucket/key")
	// ErrInvalidTier is returned by ParseTier for an unknown restore tier.
	ErrInvalidTier = errors.New("restore tier must be standard, bulk or expedited")
)

// Error codes reported by S3-compatible services.
const (
	CodeNoSuchKey                = "NoSuchKey"
	CodeNoSuchBucket             = "NoSuchBucket"
	CodeNotFound                 = "NotFound"
	CodeRestoreAlreadyInProgress = "RestoreAlreadyInProgress"
)

// ErrorCode returns the service error code carried by err, or "" if err is not a service error.
func ErrorCode(err error) string {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code
	}
	return ""
}

// IsNotFound reports whether err means the bucket or object does not exist.
func IsNotFound(err error) bool {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	switch resp.Code {
	case CodeNoSuchKey, CodeNoSuchBucket, CodeNotFound:
		return true
	}
	return resp.StatusCode == http.StatusNotFound
}

// IsRestoreInProgress reports whether err is the conflict returned for a restore that is already running.
func IsRestoreInProgress(err error) bool {
	return ErrorCode(err) == CodeRestoreAlreadyInProgress
}
