package gcp

import (
	"errors"
	"fmt"
	"net/http"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"stortally/pkg/storage"
)

// translate maps GCS SDK errors onto the shared storage sentinels.
func translate(op, bucket string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gcpstorage.ErrBucketNotExist) {
		return wrap(op, bucket, storage.ErrBucketNotFound, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusUnauthorized:
			return wrap(op, bucket, storage.ErrAccessDenied, err)
		case apiErr.Code == http.StatusNotFound:
			return wrap(op, bucket, storage.ErrBucketNotFound, err)
		case apiErr.Code == http.StatusTooManyRequests:
			return wrap(op, bucket, storage.ErrThrottled, err)
		case apiErr.Code >= 500:
			return wrap(op, bucket, storage.ErrTransient, err)
		}
	}

	if bucket != "" {
		return fmt.Errorf("gcs %s %s: %w", op, bucket, err)
	}
	return fmt.Errorf("gcs %s: %w", op, err)
}

func wrap(op, bucket string, sentinel, err error) error {
	if bucket != "" {
		return fmt.Errorf("gcs %s %s: %w: %v", op, bucket, sentinel, err)
	}
	return fmt.Errorf("gcs %s: %w: %v", op, sentinel, err)
}
