// Package idempotency guards webhook processing against repeated deliveries of the same mail item.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"agentmail/internal/config"
)

const (
	keyPrefix       = "agentmail:webhook:mail:"
	processedMarker = "processed"
)

// NewRedisClient creates a Redis client from configuration and verifies the connection.
// Returns nil if the URL is empty (Redis not configured).
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeoutSec > 0 {
		opts.DialTimeout = time.Duration(cfg.DialTimeoutSec) * time.Second
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Guard records which mail ids are being or have been processed.
// A claim only covers the in-flight window; the database unique index on
// mail_id stays authoritative once a delivery commits.
type Guard struct {
	client   redis.Cmdable
	claimTTL time.Duration
	ttl      time.Duration
}

// NewGuard creates a Guard whose in-progress claims expire after claimTTL
// and whose confirmed markers expire after ttl.
func NewGuard(client redis.Cmdable, claimTTL, ttl time.Duration) *Guard {
	return &Guard{client: client, claimTTL: claimTTL, ttl: ttl}
}

// Claim marks mailID as taken. It returns false when another delivery already holds the claim.
func (g *Guard) Claim(ctx context.Context, mailID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, Key(mailID), time.Now().UTC().Format(time.RFC3339Nano), g.claimTTL).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", mailID, err)
	}
	return ok, nil
}

// Confirm turns a claim into a processed marker that lives for the dedupe window.
func (g *Guard) Confirm(ctx context.Context, mailID string) error {
	if err := g.client.Set(ctx, Key(mailID), processedMarker, g.ttl).Err(); err != nil {
		return fmt.Errorf("confirm %s: %w", mailID, err)
	}
	return nil
}

// Release drops the claim so a later delivery of the same mail can be processed.
func (g *Guard) Release(ctx context.Context, mailID string) error {
	if err := g.client.Del(ctx, Key(mailID)).Err(); err != nil {
		return fmt.Errorf("release %s: %w", mailID, err)
	}
	return nil
}

// Key is the Redis key holding the claim for mailID.
func Key(mailID string) string {
	return keyPrefix + mailID
}
