package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"weld-oee/backend/config"
)

// Client Redis wrapper used for the token blacklist and per-worker locks
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects and pings Redis
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken stores the JWT ID until the token would have expired
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports whether the JWT ID was revoked
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── Worker locks ──

const lockPrefix = "lock:worker:"

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by another instance is left alone.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TryLock sets the lock key if absent. The ttl bounds how long a crashed
// holder can keep other instances out.
func (c *Client) TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, lockPrefix+key, token, ttl).Result()
}

// Unlock releases a lock taken with TryLock
func (c *Client) Unlock(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, c.rdb, []string{lockPrefix + key}, token).Err()
}

// ── Rate limiting ──

const rateLimitPrefix = "rate_limit:"

// CheckRateLimit counts a hit and reports whether the key is still within
// limit. Every hit pushes the expiry back, so a client has to stay quiet for
// a whole window before the counter resets.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := rateLimitPrefix + key
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
