// Package cache provides an optional Redis read-through store for
// computed position snapshots. Snapshots are a pure function of the
// FEN string, so a cache hit and a recomputation are indistinguishable
// and the service stays stateless across replicas.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "pos:snapshot:"

// ErrMiss reports an absent cache entry.
var ErrMiss = errors.New("cache miss")

type SnapshotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New connects to Redis using a redis:// URL. The TTL applies to every
// stored snapshot.
func New(redisURL string, ttl time.Duration, logger *zap.Logger) (*SnapshotCache, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis url required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &SnapshotCache{rdb: rdb, ttl: ttl, logger: logger}, nil
}

func (c *SnapshotCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Get unmarshals the cached value for fen into dst. Returns ErrMiss
// when the key is absent.
func (c *SnapshotCache) Get(ctx context.Context, fen string, dst any) error {
	raw, err := c.rdb.Get(ctx, keyPrefix+fen).Bytes()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// Set stores the snapshot for fen. Failures are logged, not returned:
// the cache is best-effort and never affects the response.
func (c *SnapshotCache) Set(ctx context.Context, fen string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache_marshal_failed", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+fen, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache_set_failed", zap.Error(err))
	}
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "6379"
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	opts := &redis.Options{Addr: host + ":" + port, DB: db}
	if u.User != nil {
		if pw, ok := u.User.Password(); ok {
			opts.Password = pw
		}
	}
	return opts, nil
}
