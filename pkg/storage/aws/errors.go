package aws

import (
	"errors"
	"fmt"
	"net"

	"github.com/aws/smithy-go"

	"stortally/pkg/storage"
)

// translate maps an S3 SDK error onto the shared storage sentinels so the
// scanner can decide between skip (permission) and retry (throttling,
// network) without importing smithy.
func translate(op, bucket string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AllAccessDisabled", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return wrap(op, bucket, storage.ErrAccessDenied, err)
		case "NoSuchBucket":
			return wrap(op, bucket, storage.ErrBucketNotFound, err)
		case "SlowDown", "Throttling", "ThrottlingException", "RequestLimitExceeded", "TooManyRequests":
			return wrap(op, bucket, storage.ErrThrottled, err)
		case "InternalError", "ServiceUnavailable", "RequestTimeout":
			return wrap(op, bucket, storage.ErrTransient, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return wrap(op, bucket, storage.ErrTransient, err)
	}

	if bucket != "" {
		return fmt.Errorf("s3 %s %s: %w", op, bucket, err)
	}
	return fmt.Errorf("s3 %s: %w", op, err)
}

func wrap(op, bucket string, sentinel, err error) error {
	if bucket != "" {
		return fmt.Errorf("s3 %s %s: %w: %v", op, bucket, sentinel, err)
	}
	return fmt.Errorf("s3 %s: %w: %v", op, sentinel, err)
}
