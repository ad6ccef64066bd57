package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"stortally/pkg/common"
	"stortally/pkg/storage"
)

func (s *AWSStorage) ListBuckets(ctx context.Context) ([]storage.Bucket, error) {
	s.logger.Debug("Starting AWS ListBuckets operation")

	client := s.clientForRegion(s.region)
	var buckets []storage.Bucket

	input := &s3.ListBucketsInput{}
	for {
		out, err := client.ListBuckets(ctx, input)
		if err != nil {
			return nil, translate("ListBuckets", "", err)
		}

		for _, b := range out.Buckets {
			name := awssdk.ToString(b.Name)
			region := awssdk.ToString(b.BucketRegion)
			if region != "" {
				s.rememberBucketRegion(name, region)
			}

			buckets = append(buckets, storage.Bucket{
				Name:      name,
				Provider:  common.AWS,
				Region:    region,
				CreatedAt: awssdk.ToTime(b.CreationDate),
				// Per-object tallying is the source of truth for usage;
				// the listing itself reports nothing.
				UsageBytes: -1,
			})
		}

		if awssdk.ToString(out.ContinuationToken) == "" {
			break
		}
		input.ContinuationToken = out.ContinuationToken
	}

	return buckets, nil
}

// BucketRegion resolves the bucket's home region via GetBucketLocation and
// caches it for subsequent object listing calls.
func (s *AWSStorage) BucketRegion(ctx context.Context, bucketName string) (string, error) {
	client := s.clientForRegion(s.region)

	out, err := client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: awssdk.String(bucketName),
	})
	if err != nil {
		return "", translate("GetBucketLocation", bucketName, err)
	}

	region := normalizeLocation(string(out.LocationConstraint))
	s.rememberBucketRegion(bucketName, region)
	return region, nil
}

// normalizeLocation maps the GetBucketLocation quirks onto real region names:
// buckets in us-east-1 report an empty constraint, old eu-west-1 buckets
// report "EU".
func normalizeLocation(constraint string) string {
	switch constraint {
	case "":
		return "us-east-1"
	case "EU":
		return "eu-west-1"
	default:
		return constraint
	}
}
