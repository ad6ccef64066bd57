package storage

import "errors"

// Sentinel errors shared by all provider implementations. Providers wrap the
// underlying SDK error together with one of these so callers can branch with
// errors.Is without knowing which cloud they are talking to.
var (
	// ErrAccessDenied indicates the caller lacks permission for the bucket or object listing
	ErrAccessDenied = errors.New("storage: access denied")

	// ErrBucketNotFound indicates the bucket does not exist (or was deleted mid-scan)
	ErrBucketNotFound = errors.New("storage: bucket not found")

	// ErrThrottled indicates the provider rejected the request due to rate limiting
	ErrThrottled = errors.New("storage: request throttled")

	// ErrTransient indicates a temporary failure (network, 5xx) worth retrying
	ErrTransient = errors.New("storage: transient failure")
)

func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsRetryable reports whether the scanner's backoff loop should retry the
// page fetch that produced err.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrThrottled) || errors.Is(err, ErrTransient)
}
