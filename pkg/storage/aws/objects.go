package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"stortally/pkg/storage"
)

const maxPageSize = 1000 // ListObjectsV2 upper bound

func (s *AWSStorage) ListObjectsPage(ctx context.Context, bucketName, continuationToken string, pageSize int32) (storage.ObjectPage, error) {
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  awssdk.String(bucketName),
		MaxKeys: awssdk.Int32(pageSize),
	}
	if continuationToken != "" {
		input.ContinuationToken = awssdk.String(continuationToken)
	}

	client := s.clientForRegion(s.regionForBucket(bucketName))
	out, err := client.ListObjectsV2(ctx, input)
	if err != nil {
		return storage.ObjectPage{}, translate("ListObjectsV2", bucketName, err)
	}

	page := storage.ObjectPage{
		Objects:   make([]storage.Object, 0, len(out.Contents)),
		NextToken: awssdk.ToString(out.NextContinuationToken),
		HasMore:   awssdk.ToBool(out.IsTruncated),
	}

	for _, obj := range out.Contents {
		page.Objects = append(page.Objects, storage.Object{
			Key:          awssdk.ToString(obj.Key),
			Size:         awssdk.ToInt64(obj.Size),
			StorageClass: string(obj.StorageClass),
			LastModified: awssdk.ToTime(obj.LastModified),
		})
	}

	return page, nil
}
