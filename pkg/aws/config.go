package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// Settings selects the region and an optional endpoint override shared by
// every AWS client the shop creates.
type Settings struct {
	Region string
	// Endpoint points all clients at a single edge URL (LocalStack).
	Endpoint string
}

// LoadAWSConfig loads the default credential chain and applies the region
// and endpoint override from s.
func LoadAWSConfig(ctx context.Context, s Settings) (sdkaws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if s.Region != "" {
		opts = append(opts, config.WithRegion(s.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}

	if s.Endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(s.Endpoint)
	}

	return cfg, nil
}
