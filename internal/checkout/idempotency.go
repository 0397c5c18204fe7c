package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyGuard deduplicates checkout submissions that carry an
// Idempotency-Key header, using a redis SETNX claim. A nil guard or a
// guard without a client allows everything.
type IdempotencyGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyGuard builds IdempotencyGuard.
func NewIdempotencyGuard(client *redis.Client, ttl time.Duration) *IdempotencyGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyGuard{client: client, ttl: ttl}
}

// Claim records the key and reports whether this submission is the first
// one to use it.
func (g *IdempotencyGuard) Claim(ctx context.Context, key string) (bool, error) {
	if g == nil || g.client == nil || key == "" {
		return true, nil
	}
	ok, err := g.client.SetNX(ctx, "checkout:idem:"+key, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("checkout: idempotency claim: %w", err)
	}
	return ok, nil
}

// Release frees the key so a failed transaction can be retried.
func (g *IdempotencyGuard) Release(ctx context.Context, key string) {
	if g == nil || g.client == nil || key == "" {
		return
	}
	_ = g.client.Del(ctx, "checkout:idem:"+key).Err()
}
