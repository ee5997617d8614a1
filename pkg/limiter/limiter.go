// Package limiter throttles failed login attempts per (identifier, client IP)
// pair. Counters live in Redis with the window as TTL, so state survives
// restarts and is shared across instances.
package limiter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Limiter gates login attempts. Allow is consulted before credential
// verification; Failure and Success record the outcome.
type Limiter interface {
	Allow(ctx context.Context, identifier, ip string) (bool, error)
	Failure(ctx context.Context, identifier, ip string) error
	Success(ctx context.Context, identifier, ip string) error
}

// key derives a stable bucket key without persisting raw identifiers or IPs.
func key(identifier, ip string) string {
	sum := sha256.Sum256([]byte(identifier + "|" + ip))
	return hex.EncodeToString(sum[:])
}

// Noop allows everything. Used when Redis is not configured.
type Noop struct{}

var _ Limiter = (*Noop)(nil)

func (Noop) Allow(context.Context, string, string) (bool, error) { return true, nil }
func (Noop) Failure(context.Context, string, string) error      { return nil }
func (Noop) Success(context.Context, string, string) error      { return nil }
