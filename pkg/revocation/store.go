// Package revocation implements the token denylist: revoked-but-unexpired
// tokens are held until their natural expiry, after which entries self-evict.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const keyPrefix = "token:revoked:"

// Store is the shared denylist of revoked tokens. Implementations must be
// safe for concurrent use from many request handlers.
//
// Revoke is a no-op when token is empty or ttl is non-positive: an already
// expired token needs no entry, and storing one would outlive its purpose.
// Lookup errors are returned as-is so callers can distinguish "backend down"
// from "not revoked".
type Store interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// key derives the store key from the raw token. Keying on a fixed-size digest
// keeps entries small regardless of token length and works for tokens minted
// before the jti claim existed.
func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}
