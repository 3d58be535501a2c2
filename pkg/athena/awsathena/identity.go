package awsathena

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	stssdk "github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/txn2/mcp-athena/pkg/athena"
)

// STSClient defines the STS operations used for identity lookup.
type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *stssdk.GetCallerIdentityInput, optFns ...func(*stssdk.Options)) (*stssdk.GetCallerIdentityOutput, error)
}

// Identity implements athena.IdentityResolver using STS.
type Identity struct {
	client STSClient
}

// NewIdentity creates an identity resolver with an existing client.
func NewIdentity(client STSClient) (*Identity, error) {
	if client == nil {
		return nil, fmt.Errorf("sts client is required")
	}
	return &Identity{client: client}, nil
}

// NewIdentityFromConfig creates an identity resolver with a new SDK
// client from config.
func NewIdentityFromConfig(ctx context.Context, cfg Config) (*Identity, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Identity{client: stssdk.NewFromConfig(awsCfg)}, nil
}

// AccountID returns the caller's account identifier.
func (i *Identity) AccountID(ctx context.Context) (string, error) {
	out, err := i.client.GetCallerIdentity(ctx, &stssdk.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("getting caller identity: %w", err)
	}
	return aws.ToString(out.Account), nil
}

// Verify interface compliance.
var _ athena.IdentityResolver = (*Identity)(nil)
