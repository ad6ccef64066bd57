package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stortally/pkg/common"
	"stortally/pkg/storage"
	"stortally/pkg/summary"
)

type pageResponse struct {
	page storage.ObjectPage
	err  error
}

// fakePager replays a scripted sequence of responses and records the
// continuation tokens it was called with.
type fakePager struct {
	responses []pageResponse
	tokens    []string
	calls     int
}

func (f *fakePager) ListObjectsPage(_ context.Context, _ string, token string, _ int32) (storage.ObjectPage, error) {
	f.tokens = append(f.tokens, token)
	if f.calls >= len(f.responses) {
		return storage.ObjectPage{}, fmt.Errorf("unexpected call %d", f.calls)
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp.page, resp.err
}

func testBucket() storage.Bucket {
	return storage.Bucket{Name: "tallied", Provider: common.AWS, Region: "us-east-1"}
}

func newTestScanner(pager ObjectPager, opts Options) *Scanner {
	s := New(pager, opts, slog.New(slog.DiscardHandler))
	s.sleep = func(context.Context, time.Duration) error { return nil }
	return s
}

func objects(n int, class string, size int64) []storage.Object {
	objs := make([]storage.Object, n)
	for i := range objs {
		objs[i] = storage.Object{Key: fmt.Sprintf("key-%04d", i), Size: size, StorageClass: class}
	}
	return objs
}

func TestScanSingleBucketScenario(t *testing.T) {
	pager := &fakePager{responses: []pageResponse{
		{page: storage.ObjectPage{Objects: []storage.Object{
			{Key: "a", Size: 100, StorageClass: ""},
			{Key: "b", Size: 500, StorageClass: "GLACIER"},
			{Key: "c", Size: 900, StorageClass: "GLACIER"},
		}}},
	}}

	sum, err := newTestScanner(pager, Options{}).Scan(context.Background(), testBucket())
	require.NoError(t, err)

	assert.Equal(t, int64(3), sum.Objects)
	assert.Equal(t, int64(1500), sum.Bytes)
	assert.Equal(t, summary.ClassTally{Objects: 1, Bytes: 100}, sum.Classes["STANDARD"])
	assert.Equal(t, summary.ClassTally{Objects: 2, Bytes: 1400}, sum.Classes["GLACIER"])
	assert.False(t, sum.Truncated)
	assert.False(t, sum.Inaccessible)
}

func TestScanVisitsEveryPageOnceInOrder(t *testing.T) {
	pager := &fakePager{responses: []pageResponse{
		{page: storage.ObjectPage{Objects: objects(2, "STANDARD", 10), NextToken: "t1", HasMore: true}},
		{page: storage.ObjectPage{Objects: objects(2, "STANDARD", 10), NextToken: "t2", HasMore: true}},
		{page: storage.ObjectPage{Objects: objects(1, "STANDARD", 10)}},
	}}

	sum, err := newTestScanner(pager, Options{}).Scan(context.Background(), testBucket())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "t1", "t2"}, pager.tokens)
	assert.Equal(t, int64(5), sum.Objects)
	assert.Equal(t, int64(50), sum.Bytes)
}

func TestScanHardCapTruncatesMidPage(t *testing.T) {
	pager := &fakePager{responses: []pageResponse{
		{page: storage.ObjectPage{Objects: objects(1000, "STANDARD", 1), NextToken: "t1", HasMore: true}},
		{page: storage.ObjectPage{Objects: objects(1000, "STANDARD", 1), NextToken: "t2", HasMore: true}},
		{page: storage.ObjectPage{Objects: objects(500, "STANDARD", 1)}},
	}}

	sum, err := newTestScanner(pager, Options{MaxObjects: 1000}).Scan(context.Background(), testBucket())
	require.NoError(t, err)

	assert.Equal(t, int64(1000), sum.Objects)
	assert.True(t, sum.Truncated)
	assert.Equal(t, summary.TruncatedByCap, sum.Reason)
	// The cap was already reached after the first page; no further fetches.
	assert.Equal(t, 1, pager.calls)
}

func TestScanExactObjectCountIsNotTruncated(t *testing.T) {
	pager := &fakePager{responses: []pageResponse{
		{page: storage.ObjectPage{Objects: objects(1000, "STANDARD", 1)}},
	}}

	sum, err := newTestScanner(pager, Options{MaxObjects: 1000}).Scan(context.Background(), testBucket())
	require.NoError(t, err)

	assert.Equal(t, int64(1000), sum.Objects)
	assert.False(t, sum.Truncated)
}

func TestScanRetriesTransientFailures(t *testing.T) {
	transient := fmt.Errorf("slow down: %w", storage.ErrThrottled)
	pager := &fakePager{responses: []pageResponse{
		{err: transient},
		{err: transient},
		{page: storage.ObjectPage{Objects: objects(3, "STANDARD", 7)}},
	}}

	var delays []time.Duration
	s := New(pager, Options{BaseDelay: 100 * time.Millisecond}, slog.New(slog.DiscardHandler))
	s.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	sum, err := s.Scan(context.Background(), testBucket())
	require.NoError(t, err)

	assert.Equal(t, int64(3), sum.Objects)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, delays)
}

func TestScanKeepsPartialTalliesWhenRetriesExhaust(t *testing.T) {
	transient := fmt.Errorf("timeout: %w", storage.ErrTransient)
	pager := &fakePager{responses: []pageResponse{
		{page: storage.ObjectPage{Objects: objects(10, "GLACIER", 5), NextToken: "t1", HasMore: true}},
		{err: transient},
		{err: transient},
		{err: transient},
	}}

	sum, err := newTestScanner(pager, Options{RetryAttempts: 3}).Scan(context.Background(), testBucket())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrTransient)

	assert.Equal(t, int64(10), sum.Objects)
	assert.True(t, sum.Truncated)
	assert.Equal(t, summary.TruncatedByError, sum.Reason)
	assert.False(t, sum.Inaccessible)
}

func TestScanMarksDeniedBucketInaccessible(t *testing.T) {
	denied := fmt.Errorf("listing: %w", storage.ErrAccessDenied)
	pager := &fakePager{responses: []pageResponse{{err: denied}}}

	sum, err := newTestScanner(pager, Options{}).Scan(context.Background(), testBucket())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrAccessDenied)

	assert.True(t, sum.Inaccessible)
	assert.False(t, sum.Truncated)
	assert.Zero(t, sum.Objects)
	// Permission errors are terminal for the bucket; no retries.
	assert.Equal(t, 1, pager.calls)
}

func TestScanTimeoutBetweenPages(t *testing.T) {
	pager := &fakePager{responses: []pageResponse{
		{page: storage.ObjectPage{Objects: objects(5, "STANDARD", 1), NextToken: "t1", HasMore: true}},
		{page: storage.ObjectPage{Objects: objects(5, "STANDARD", 1), NextToken: "t2", HasMore: true}},
	}}

	s := newTestScanner(pager, Options{Timeout: 10 * time.Minute})
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		// Every clock read advances time by 6 minutes, so the deadline
		// expires after the first page.
		clock = clock.Add(6 * time.Minute)
		return clock
	}

	sum, err := s.Scan(context.Background(), testBucket())
	require.NoError(t, err)

	assert.True(t, sum.Truncated)
	assert.Equal(t, summary.TruncatedByTimeout, sum.Reason)
	assert.Equal(t, int64(5), sum.Objects)
	assert.Equal(t, 1, pager.calls)
}

func TestScanReportsProgressPerPage(t *testing.T) {
	pager := &fakePager{responses: []pageResponse{
		{page: storage.ObjectPage{Objects: objects(2, "STANDARD", 10), NextToken: "t1", HasMore: true}},
		{page: storage.ObjectPage{Objects: objects(3, "STANDARD", 10)}},
	}}

	var updates []Progress
	opts := Options{OnProgress: func(p Progress) { updates = append(updates, p) }}

	_, err := newTestScanner(pager, opts).Scan(context.Background(), testBucket())
	require.NoError(t, err)

	require.Len(t, updates, 2)
	assert.Equal(t, Progress{Bucket: "tallied", Objects: 2, Bytes: 20}, updates[0])
	assert.Equal(t, Progress{Bucket: "tallied", Objects: 5, Bytes: 50}, updates[1])
}

func TestBackoffDelayIsCapped(t *testing.T) {
	s := New(&fakePager{}, Options{BaseDelay: 1 * time.Second, MaxDelay: 4 * time.Second}, slog.New(slog.DiscardHandler))

	assert.Equal(t, 1*time.Second, s.backoffDelay(1))
	assert.Equal(t, 2*time.Second, s.backoffDelay(2))
	assert.Equal(t, 4*time.Second, s.backoffDelay(3))
	assert.Equal(t, 4*time.Second, s.backoffDelay(10))
}
