package athena

import (
	"context"
	"fmt"
)

// resultBucketPrefix is the engine's conventional results bucket prefix.
const resultBucketPrefix = "aws-athena-query-results"

// ResolveResultLocation derives the storage URI where the engine writes
// query output. When the identity lookup succeeds the URI is scoped to
// the caller's account; when it fails (or no resolver is configured)
// the per-region default URI is used instead. Identity-lookup failure
// is never escalated.
func ResolveResultLocation(ctx context.Context, region string, identity IdentityResolver) string {
	if identity != nil {
		account, err := identity.AccountID(ctx)
		if err == nil && account != "" {
			return fmt.Sprintf("s3://%s-%s-%s/", resultBucketPrefix, region, account)
		}
	}
	return fmt.Sprintf("s3://%s-%s-default/", resultBucketPrefix, region)
}
