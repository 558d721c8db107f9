package s3

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
)

var (
	ErrNotFound     = errors.New("object or bucket not found")
	ErrAccessDenied = errors.New("access denied")
)

// StoreError records which store operation failed and on what.
type StoreError struct {
	Op     string
	Bucket string
	Key    string
	// Kind is ErrNotFound, ErrAccessDenied, or nil when unclassified.
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("s3 %s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	return fmt.Sprintf("s3 %s bucket %s: %v", e.Op, e.Bucket, e.Err)
}

func (e *StoreError) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

func wrapError(op, bucket, key string, err error) error {
	return &StoreError{Op: op, Bucket: bucket, Key: key, Kind: classify(errorCode(err)), Err: err}
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	if resp := minio.ToErrorResponse(err); resp.Code != "" {
		return resp.Code
	}
	return ""
}

func classify(code string) error {
	switch code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return ErrNotFound
	case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return ErrAccessDenied
	default:
		return nil
	}
}

func isAlreadyOwned(err error) bool {
	switch errorCode(err) {
	case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
		return true
	}
	return false
}
