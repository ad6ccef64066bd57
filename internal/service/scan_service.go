package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"stortally/internal/scanner"
	"stortally/pkg/common"
	"stortally/pkg/storage"
	"stortally/pkg/summary"
)

// ProviderFactory is the slice of the factory the service depends on.
type ProviderFactory interface {
	GetConfiguredProviders() []string
	IsConfigured(providerName string) bool
	GetStorageProvider(ctx context.Context, providerName string) (storage.Storage, error)
}

// BucketProgress is emitted while a scan run is in flight. Callbacks may be
// invoked from concurrent workers; consumers must be safe for that.
type BucketProgress struct {
	Provider common.Provider
	Bucket   string
	Index    int
	Total    int
	Objects  int64
	Bytes    int64
	Done     bool
}

// ScanRequest describes one full scan run.
type ScanRequest struct {
	// Providers to query; must be configured.
	Providers []string

	// Regions filters buckets to the given regions. When set, buckets whose
	// region cannot be resolved are dropped; when empty they are included
	// under region "unknown".
	Regions []string

	// Bucket restricts the run to one named bucket.
	Bucket string

	// Scan carries the per-bucket pagination, cap, timeout and retry policy.
	Scan scanner.Options

	// Concurrency is the number of buckets scanned in parallel (1 = strictly
	// sequential).
	Concurrency int

	OnProgress func(BucketProgress)
}

type ScanService struct {
	providerFactory ProviderFactory
	logger          *slog.Logger
}

func NewScanService(providerFactory ProviderFactory, logger *slog.Logger) *ScanService {
	return &ScanService{
		providerFactory: providerFactory,
		logger:          logger.With("service", "ScanService"),
	}
}

// ScanAccount enumerates the buckets of every requested provider, scans each
// bucket's objects, and reduces the summaries into the final report.
//
// Per-bucket failures (permission denial, exhausted retries) are recorded on
// the affected summary and never abort the run. A provider that cannot even
// authenticate or list buckets is skipped; the run only fails outright when
// nothing could be collected at all or the context is canceled.
func (s *ScanService) ScanAccount(ctx context.Context, req ScanRequest) (*summary.Report, error) {
	start := time.Now()

	report := &summary.Report{
		GeneratedAt: start,
		Identities:  make(map[common.Provider]string),
	}

	var provErrs []error
	for _, providerName := range req.Providers {
		if err := s.scanProvider(ctx, providerName, req, report); err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			s.logger.Error("Provider scan failed", "provider", providerName, "error", err)
			provErrs = append(provErrs, fmt.Errorf("%s: %w", providerName, err))
		}
	}

	if len(report.Buckets) == 0 && len(provErrs) > 0 {
		return nil, errors.Join(provErrs...)
	}

	report.Totals = summary.Reduce(report.Buckets)
	report.Elapsed = time.Since(start)
	return report, nil
}

func (s *ScanService) scanProvider(ctx context.Context, providerName string, req ScanRequest, report *summary.Report) error {
	client, err := s.providerFactory.GetStorageProvider(ctx, providerName)
	if err != nil {
		return err
	}
	defer client.Close()

	identity, err := client.AccountID(ctx)
	if err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}

	buckets, err := client.ListBuckets(ctx)
	if err != nil {
		return fmt.Errorf("listing buckets: %w", err)
	}

	buckets = s.selectBuckets(ctx, client, buckets, req)
	s.logger.Info("Scanning buckets", "provider", providerName, "identity", identity, "buckets", len(buckets))

	summaries, err := s.scanBuckets(ctx, client, buckets, req)
	if err != nil {
		return err
	}

	report.Identities[client.ProviderName()] = identity
	report.Buckets = append(report.Buckets, summaries...)
	return nil
}

// selectBuckets resolves regions and applies the name/region filters.
func (s *ScanService) selectBuckets(ctx context.Context, client storage.Storage, buckets []storage.Bucket, req ScanRequest) []storage.Bucket {
	var selected []storage.Bucket
	for _, b := range buckets {
		if req.Bucket != "" && b.Name != req.Bucket {
			continue
		}

		if b.Region == "" {
			region, err := client.BucketRegion(ctx, b.Name)
			if err != nil {
				if len(req.Regions) > 0 {
					// Region membership cannot be proven, so the bucket
					// falls outside an explicit region filter.
					s.logger.Warn("Dropping bucket with unresolvable region", "bucket", b.Name, "error", err)
					continue
				}
				s.logger.Warn("Could not resolve bucket region, keeping it as unknown", "bucket", b.Name, "error", err)
				region = "unknown"
			}
			b.Region = region
		}

		if len(req.Regions) > 0 && !slices.Contains(req.Regions, b.Region) {
			continue
		}
		selected = append(selected, b)
	}
	return selected
}

// scanBuckets runs the per-bucket aggregator over the selection, at most
// req.Concurrency buckets at a time. Each worker owns its accumulator
// exclusively and writes into its own result slot; no shared tally state.
func (s *ScanService) scanBuckets(ctx context.Context, client storage.Storage, buckets []storage.Bucket, req ScanRequest) ([]summary.BucketSummary, error) {
	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]summary.BucketSummary, len(buckets))
	total := len(buckets)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, bucket := range buckets {
		g.Go(func() error {
			opts := req.Scan
			if req.OnProgress != nil {
				req.OnProgress(BucketProgress{
					Provider: bucket.Provider,
					Bucket:   bucket.Name,
					Index:    i + 1,
					Total:    total,
				})
				opts.OnProgress = func(p scanner.Progress) {
					req.OnProgress(BucketProgress{
						Provider: bucket.Provider,
						Bucket:   p.Bucket,
						Index:    i + 1,
						Total:    total,
						Objects:  p.Objects,
						Bytes:    p.Bytes,
					})
				}
			}

			sc := scanner.New(client, opts, s.logger.With("bucket", bucket.Name))
			sum, err := sc.Scan(gctx, bucket)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				// The summary carries the inaccessible/truncated flags; the
				// run keeps going.
				s.logger.Warn("Bucket scan incomplete", "bucket", bucket.Name, "error", err)
			}
			results[i] = sum

			if req.OnProgress != nil {
				req.OnProgress(BucketProgress{
					Provider: bucket.Provider,
					Bucket:   bucket.Name,
					Index:    i + 1,
					Total:    total,
					Objects:  sum.Objects,
					Bytes:    sum.Bytes,
					Done:     true,
				})
			}

			s.logger.Info("Bucket scanned",
				"bucket", bucket.Name,
				"objects", sum.Objects,
				"bytes", sum.Bytes,
				"truncated", sum.Truncated,
				"duration", sum.ScanDuration)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ListAllBuckets fetches the bucket listings of every requested provider
// concurrently. Provider failures are logged, not fatal; the operation
// returns whatever was collected.
func (s *ScanService) ListAllBuckets(ctx context.Context, providerNames []string) ([]storage.Bucket, error) {
	if len(providerNames) == 0 {
		return nil, nil
	}

	s.logger.Debug("Starting ListAllBuckets operation", "providers", providerNames)

	var allBuckets []storage.Bucket
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, pName := range providerNames {
		wg.Add(1)
		go func(pName string) {
			defer wg.Done()

			client, err := s.providerFactory.GetStorageProvider(ctx, pName)
			if err != nil {
				s.logger.Error("Failed to initialize provider client", "provider", pName, "error", err)
				return
			}
			defer client.Close()

			buckets, err := client.ListBuckets(ctx)
			if err != nil {
				s.logger.Error("Failed to list buckets from provider", "provider", pName, "error", err)
				return
			}

			mu.Lock()
			allBuckets = append(allBuckets, buckets...)
			mu.Unlock()

			s.logger.Debug("Successfully fetched buckets", "provider", pName, "count", len(buckets))
		}(pName)
	}

	wg.Wait()

	return allBuckets, nil
}
