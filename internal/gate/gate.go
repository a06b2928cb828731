// Package gate implements the short-lived handshake that authorizes a
// candidate to enter (or re-enter) the running phase of a session. The
// flag is set when a session becomes running-eligible and cleared once
// its Result is attached; validity is bounded on the order of hours.
package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const gateKeyPrefix = "interview:gate:"

// ErrNotReady means no open gate exists for the token (never opened,
// expired, or already cleared after finalize)
var ErrNotReady = errors.New("session gate is not open")

// Gate is the ready-to-run handshake consulted by route protection and
// by the engine's resume path
type Gate interface {
	Open(ctx context.Context, token, sessionID string) error
	Check(ctx context.Context, token string) (string, error)
	Clear(ctx context.Context, token string) error
}

// RedisGate implements Gate on Redis with a bounded validity window
type RedisGate struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGate connects to Redis and verifies connectivity
func NewRedisGate(address, password string, db int, ttl time.Duration) (*RedisGate, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = 2 * time.Hour
	}

	return &RedisGate{client: client, ttl: ttl}, nil
}

// Open marks the token ready to run, mapping it to its session id
func (g *RedisGate) Open(ctx context.Context, token, sessionID string) error {
	if err := g.client.Set(ctx, gateKeyPrefix+token, sessionID, g.ttl).Err(); err != nil {
		return fmt.Errorf("failed to open gate: %w", err)
	}
	return nil
}

// Check returns the session id behind an open gate
func (g *RedisGate) Check(ctx context.Context, token string) (string, error) {
	id, err := g.client.Get(ctx, gateKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotReady
		}
		return "", fmt.Errorf("failed to check gate: %w", err)
	}
	return id, nil
}

// Clear closes the gate for a token
func (g *RedisGate) Clear(ctx context.Context, token string) error {
	if err := g.client.Del(ctx, gateKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to clear gate: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (g *RedisGate) Close() error {
	return g.client.Close()
}
