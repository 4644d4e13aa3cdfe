// Package blacklist stores revoked access tokens until they would have
// expired anyway. Tokens are kept as SHA-256 digests, never in plain form.
package blacklist

import (
	"context"
	"time"
)

type Repository interface {
	// Add revokes token for ttl. Adding the same token twice extends its ttl.
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
	// PurgeExpired drops entries past their expiry and returns how many were
	// removed. Backends with native expiry return 0.
	PurgeExpired(ctx context.Context) (int64, error)
}
