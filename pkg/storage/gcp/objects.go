package gcp

import (
	"context"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"stortally/pkg/storage"
)

// ListObjectsPage adapts the SDK's object iterator to the token-paged
// contract: each call builds a fresh iterator positioned at the continuation
// token and drains exactly one page from it.
func (g *GCPStorage) ListObjectsPage(ctx context.Context, bucketName, continuationToken string, pageSize int32) (storage.ObjectPage, error) {
	if pageSize <= 0 {
		pageSize = 1000
	}

	it := g.client.Bucket(bucketName).Objects(ctx, nil)
	pager := iterator.NewPager(it, int(pageSize), continuationToken)

	var attrs []*gcpstorage.ObjectAttrs
	nextToken, err := pager.NextPage(&attrs)
	if err != nil {
		return storage.ObjectPage{}, translate("ListObjects", bucketName, err)
	}

	page := storage.ObjectPage{
		Objects:   make([]storage.Object, 0, len(attrs)),
		NextToken: nextToken,
		HasMore:   nextToken != "",
	}

	for _, a := range attrs {
		page.Objects = append(page.Objects, storage.Object{
			Key:          a.Name,
			Size:         a.Size,
			StorageClass: a.StorageClass,
			LastModified: a.Updated,
		})
	}

	return page, nil
}
