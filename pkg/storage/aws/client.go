package aws

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"stortally/internal/config"
	"stortally/internal/provider/registry"
	"stortally/pkg/common"
	"stortally/pkg/storage"
)

func init() {
	registry.RegisterProvider("aws", registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
	})
}

// Checks if the AWS configuration block is present and the region is set
func isConfigured(cfg *config.Config) bool {
	return cfg.AWS != nil && cfg.AWS.Region != ""
}

// Initializes the AWS storage client from the configuration
func initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("AWS configuration missing or incomplete")
	}
	return NewAWSStorage(ctx, cfg.AWS.Region, cfg.AWS.Profile, logger)
}

type AWSStorage struct {
	cfg       awssdk.Config
	stsClient *sts.Client
	region    string
	logger    *slog.Logger

	// S3 listing must hit the bucket's own regional endpoint, so clients are
	// built per region and cached. bucketRegions remembers lookups so
	// ListObjectsPage can route without a second GetBucketLocation call.
	mu            sync.Mutex
	clients       map[string]*s3.Client
	bucketRegions map[string]string
}

var _ storage.Storage = (*AWSStorage)(nil)

func NewAWSStorage(ctx context.Context, region, profile string, logger *slog.Logger) (*AWSStorage, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &AWSStorage{
		cfg:           cfg,
		stsClient:     sts.NewFromConfig(cfg),
		region:        region,
		logger:        logger,
		clients:       make(map[string]*s3.Client),
		bucketRegions: make(map[string]string),
	}, nil
}

func (s *AWSStorage) ProviderName() common.Provider {
	return common.AWS
}

// AccountID verifies the credentials work and returns the account number.
func (s *AWSStorage) AccountID(ctx context.Context) (string, error) {
	out, err := s.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to resolve AWS caller identity: %w", err)
	}
	return awssdk.ToString(out.Account), nil
}

func (s *AWSStorage) Close() error {
	return nil
}

func (s *AWSStorage) clientForRegion(region string) *s3.Client {
	if region == "" {
		region = s.region
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[region]; ok {
		return client
	}

	client := s3.NewFromConfig(s.cfg, func(o *s3.Options) {
		o.Region = region
	})
	s.clients[region] = client
	return client
}

func (s *AWSStorage) regionForBucket(bucketName string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bucketRegions[bucketName]
}

func (s *AWSStorage) rememberBucketRegion(bucketName, region string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucketRegions[bucketName] = region
}
