package gcp

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/iterator"

	"stortally/pkg/common"
	"stortally/pkg/storage"
)

func (g *GCPStorage) ListBuckets(ctx context.Context) ([]storage.Bucket, error) {
	g.logger.Debug("Starting GCP ListBuckets operation")

	// Usage metrics come from the Monitoring API in one aggregated call.
	// Metrics being unavailable (new project, missing permission) is not a
	// reason to fail the listing; usage just reads N/A.
	usageMap, err := g.getAllBucketUsages(ctx)
	if err != nil {
		g.logger.Warn("Failed to retrieve GCP bucket usage metrics, usage will be reported as N/A", "error", err)
		usageMap = nil
	}

	var buckets []storage.Bucket
	it := g.client.Buckets(ctx, g.projectID)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, translate("ListBuckets", "", err)
		}

		usage := int64(-1)
		if u, ok := usageMap[attrs.Name]; ok {
			usage = u
		}

		buckets = append(buckets, storage.Bucket{
			Name:       attrs.Name,
			Provider:   common.GCP,
			Region:     strings.ToLower(attrs.Location),
			CreatedAt:  attrs.Created,
			UsageBytes: usage,
		})
	}

	return buckets, nil
}

func (g *GCPStorage) BucketRegion(ctx context.Context, bucketName string) (string, error) {
	attrs, err := g.client.Bucket(bucketName).Attrs(ctx)
	if err != nil {
		return "", translate("BucketAttrs", bucketName, err)
	}
	if attrs.Location == "" {
		return "", fmt.Errorf("bucket %s reports no location", bucketName)
	}
	return strings.ToLower(attrs.Location), nil
}
