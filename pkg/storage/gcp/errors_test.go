package gcp

import (
	"fmt"
	"testing"

	gcpstorage "cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"stortally/pkg/storage"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "forbidden", err: &googleapi.Error{Code: 403}, want: storage.ErrAccessDenied},
		{name: "unauthorized", err: &googleapi.Error{Code: 401}, want: storage.ErrAccessDenied},
		{name: "not found", err: &googleapi.Error{Code: 404}, want: storage.ErrBucketNotFound},
		{name: "rate limited", err: &googleapi.Error{Code: 429}, want: storage.ErrThrottled},
		{name: "server error", err: &googleapi.Error{Code: 503}, want: storage.ErrTransient},
		{name: "missing bucket sentinel", err: fmt.Errorf("attrs: %w", gcpstorage.ErrBucketNotExist), want: storage.ErrBucketNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate("ListObjects", "b", tt.err), tt.want)
		})
	}
}

func TestTranslateNil(t *testing.T) {
	assert.NoError(t, translate("ListObjects", "b", nil))
}
