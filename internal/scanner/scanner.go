// Package scanner implements the per-bucket object enumeration: a
// continuation-token pagination loop with retry/backoff on transient
// failures, an optional hard object cap, and a cooperative wall-clock
// timeout checked between page fetches.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stortally/pkg/storage"
	"stortally/pkg/summary"
)

const (
	defaultPageSize      = 1000
	defaultRetryAttempts = 5
	defaultBaseDelay     = 200 * time.Millisecond
	defaultMaxDelay      = 10 * time.Second
)

// ObjectPager is the slice of the storage contract the scanner needs.
type ObjectPager interface {
	ListObjectsPage(ctx context.Context, bucketName, continuationToken string, pageSize int32) (storage.ObjectPage, error)
}

// Progress is passed to the OnProgress callback after every processed page.
type Progress struct {
	Bucket  string
	Objects int64
	Bytes   int64
}

type Options struct {
	// PageSize is the listing page size hint; bounded to 1..1000.
	PageSize int32

	// MaxObjects caps the scan at that many objects (0 = unlimited). The cap
	// is hard: the scan stops exactly at the cap, mid-page if necessary, and
	// the summary is flagged truncated.
	MaxObjects int64

	// Timeout bounds the wall-clock time spent on one bucket (0 = none).
	// Checked between page fetches, never mid-request.
	Timeout time.Duration

	// RetryAttempts is the per-page attempt budget for transient failures.
	RetryAttempts int

	// BaseDelay and MaxDelay shape the exponential backoff between attempts.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	OnProgress func(Progress)
}

type Scanner struct {
	pager  ObjectPager
	opts   Options
	logger *slog.Logger

	// injectable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(pager ObjectPager, opts Options, logger *slog.Logger) *Scanner {
	if opts.PageSize <= 0 || opts.PageSize > defaultPageSize {
		opts.PageSize = defaultPageSize
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = defaultRetryAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaultMaxDelay
	}

	return &Scanner{
		pager:  pager,
		opts:   opts,
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Scan pages through every object in the bucket and produces its summary.
//
// Terminal conditions are recorded on the summary rather than failing the
// run: a permission error marks the bucket inaccessible, an exhausted retry
// budget or an elapsed timeout marks it truncated with partial tallies kept.
// The returned error is informational (nil on a clean, complete scan) except
// for context cancellation, which the caller should treat as fatal.
func (s *Scanner) Scan(ctx context.Context, bucket storage.Bucket) (summary.BucketSummary, error) {
	sum := summary.NewBucketSummary(bucket.Name, bucket.Provider, bucket.Region)

	start := s.now()
	var deadline time.Time
	if s.opts.Timeout > 0 {
		deadline = start.Add(s.opts.Timeout)
	}

	token := ""
	for {
		if !deadline.IsZero() && !s.now().Before(deadline) {
			sum.Truncated = true
			sum.Reason = summary.TruncatedByTimeout
			s.logger.Warn("Bucket scan hit its time budget, keeping partial tallies", "bucket", bucket.Name, "objects", sum.Objects)
			break
		}

		page, err := s.fetchPage(ctx, bucket.Name, token)
		if err != nil {
			sum.ScanDuration = s.now().Sub(start)
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			if storage.IsAccessDenied(err) {
				sum.Inaccessible = true
				return sum, fmt.Errorf("bucket %s is not accessible: %w", bucket.Name, err)
			}
			sum.Truncated = true
			sum.Reason = summary.TruncatedByError
			return sum, fmt.Errorf("listing objects in bucket %s: %w", bucket.Name, err)
		}

		capped := false
		for _, obj := range page.Objects {
			if s.opts.MaxObjects > 0 && sum.Objects >= s.opts.MaxObjects {
				capped = true
				break
			}
			sum.Add(summary.NormalizeStorageClass(obj.StorageClass), obj.Size)
		}

		if s.opts.OnProgress != nil {
			s.opts.OnProgress(Progress{Bucket: bucket.Name, Objects: sum.Objects, Bytes: sum.Bytes})
		}

		// The cap is also reached when the last page filled it exactly but
		// the listing says more objects exist.
		if !capped && s.opts.MaxObjects > 0 && sum.Objects >= s.opts.MaxObjects && page.HasMore {
			capped = true
		}

		if capped {
			sum.Truncated = true
			sum.Reason = summary.TruncatedByCap
			break
		}

		if !page.HasMore {
			break
		}
		token = page.NextToken
	}

	sum.ScanDuration = s.now().Sub(start)
	return sum, nil
}

// fetchPage requests one listing page, retrying transient failures with
// capped exponential backoff up to the attempt budget.
func (s *Scanner) fetchPage(ctx context.Context, bucketName, token string) (storage.ObjectPage, error) {
	var lastErr error

	for attempt := 1; attempt <= s.opts.RetryAttempts; attempt++ {
		page, err := s.pager.ListObjectsPage(ctx, bucketName, token, s.opts.PageSize)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if !storage.IsRetryable(err) {
			return storage.ObjectPage{}, err
		}
		if attempt == s.opts.RetryAttempts {
			break
		}

		delay := s.backoffDelay(attempt)
		s.logger.Debug("Transient listing failure, backing off", "bucket", bucketName, "attempt", attempt, "delay", delay, "error", err)
		if err := s.sleep(ctx, delay); err != nil {
			return storage.ObjectPage{}, err
		}
	}

	return storage.ObjectPage{}, fmt.Errorf("retry budget exhausted after %d attempts: %w", s.opts.RetryAttempts, lastErr)
}

func (s *Scanner) backoffDelay(attempt int) time.Duration {
	delay := s.opts.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= s.opts.MaxDelay {
			return s.opts.MaxDelay
		}
	}
	if delay > s.opts.MaxDelay {
		return s.opts.MaxDelay
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
