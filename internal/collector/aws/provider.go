// Package aws implements the AWS collectors for idlescan.
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/fsx"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/idlescan/internal/collector"
)

// dateLayout is how creation and modification dates are rendered in Details.
const dateLayout = "2006-01-02"

// Provider owns the AWS clients and builds the collectors.
type Provider struct {
	region string

	// AWS clients (interfaces for testability)
	ec2Client  EC2API
	s3Client   S3API
	regionalS3 RegionalS3
	eksClient  EKSAPI
	fsxClient  FSxAPI
}

// Config holds AWS provider configuration.
type Config struct {
	Region  string
	Profile string
}

// New loads the AWS configuration and creates the service clients.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if awsCfg.Region == "" {
		return nil, errors.New("load aws config: no region configured")
	}

	s3Client := s3.NewFromConfig(awsCfg)

	log.Debug().Str("region", awsCfg.Region).Str("profile", cfg.Profile).Msg("aws clients ready")

	return &Provider{
		region:     awsCfg.Region,
		ec2Client:  ec2.NewFromConfig(awsCfg),
		s3Client:   s3Client,
		regionalS3: newRegionalS3(awsCfg, s3Client).client,
		eksClient:  eks.NewFromConfig(awsCfg),
		fsxClient:  fsx.NewFromConfig(awsCfg),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "aws"
}

// Region returns the region the clients are bound to.
func (p *Provider) Region() string {
	return p.region
}

// Collectors returns the collectors in report order.
func (p *Provider) Collectors() []collector.Collector {
	return []collector.Collector{
		NewVolumeCollector(p.ec2Client, p.region),
		NewAddressCollector(p.ec2Client, p.region),
		NewBucketCollector(p.s3Client, p.regionalS3, p.region),
		NewClusterCollector(p.eksClient, p.region),
		NewFileSystemCollector(p.fsxClient, p.region),
	}
}

// regionalS3 caches one S3 client per bucket region.
// Not safe for concurrent use; collectors run sequentially.
type regionalS3 struct {
	base    aws.Config
	home    *s3.Client
	clients map[string]*s3.Client
}

func newRegionalS3(cfg aws.Config, home *s3.Client) *regionalS3 {
	return &regionalS3{
		base:    cfg,
		home:    home,
		clients: make(map[string]*s3.Client),
	}
}

func (r *regionalS3) client(region string) S3API {
	if region == "" || region == r.base.Region {
		return r.home
	}
	if c, ok := r.clients[region]; ok {
		return c
	}
	cfg := r.base.Copy()
	cfg.Region = region
	c := s3.NewFromConfig(cfg)
	r.clients[region] = c
	return c
}
