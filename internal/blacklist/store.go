// Package blacklist provides the ephemeral denylist of access-token ids (jti)
// revoked before their natural expiry. Entries carry the access-token
// lifetime as their TTL, so the store self-cleans once the revoked token
// could no longer verify anyway.
package blacklist

import (
	"context"
	"time"
)

// keyPrefix namespaces blacklist entries in shared stores.
const keyPrefix = "blacklisted_token:"

// marker is the value stored for a blacklisted jti; only presence matters.
const marker = "true"

// Store is an ephemeral key/TTL store for revoked access-token ids.
type Store interface {
	// Set marks jti as revoked for ttl. A non-positive ttl is a no-op: the
	// token is already past expiry and needs no marker.
	Set(ctx context.Context, jti string, ttl time.Duration) error
	// Get reports whether jti is currently blacklisted.
	Get(ctx context.Context, jti string) (bool, error)
}
