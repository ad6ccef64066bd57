package storage

import (
	"context"

	"stortally/pkg/common"
)

// Storage is the contract every provider implementation must satisfy.
// Listing is page-based rather than iterator-based so the scanner owns the
// pagination loop (and its retry, cap and timeout policy) for all providers.
type Storage interface {
	ProviderName() common.Provider

	// AccountID returns the identity the client is operating as (AWS account
	// number, GCP project ID). Used for the report header.
	AccountID(ctx context.Context) (string, error)

	ListBuckets(ctx context.Context) ([]Bucket, error)

	// BucketRegion resolves the region a bucket lives in.
	BucketRegion(ctx context.Context, bucketName string) (string, error)

	// ListObjectsPage fetches one page of the bucket's object listing.
	// An empty continuationToken starts from the beginning. pageSize is a hint
	// capped by the provider's own maximum (1000 for S3).
	ListObjectsPage(ctx context.Context, bucketName, continuationToken string, pageSize int32) (ObjectPage, error)

	Close() error
}
