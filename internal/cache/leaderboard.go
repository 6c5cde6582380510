package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	leaderboardKeyPrefix = "campusshare:leaderboard:top:"
	leaderboardGenKey    = "campusshare:leaderboard:gen"
)

// LeaderboardCache stores top-N leaderboard snapshots as JSON. Snapshots
// are keyed by a generation counter; Invalidate bumps it, so a snapshot
// loaded before an invalidation is never served after it.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

func leaderboardKey(gen int64, limit int) string {
	return leaderboardKeyPrefix + strconv.FormatInt(gen, 10) + ":" + strconv.Itoa(limit)
}

// Top returns the snapshot for limit, calling load on a miss and caching
// its result. Redis failures fall through to load.
func (c *LeaderboardCache) Top(
	ctx context.Context,
	limit int,
	load func(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error),
) ([]*model.LeaderboardEntry, error) {
	gen, err := c.client.Get(ctx, leaderboardGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen, err = 0, nil
	}
	if err != nil {
		slog.Warn("leaderboard cache unavailable", "error", err)
		return load(ctx, limit)
	}

	key := leaderboardKey(gen, limit)
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var entries []*model.LeaderboardEntry
		err = json.Unmarshal(raw, &entries)
		if err == nil {
			return entries, nil
		}
		slog.Warn("leaderboard cache entry unreadable", "error", err, "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("leaderboard cache read failed", "error", err)
	}

	entries, err := load(ctx, limit)
	if err != nil {
		return nil, err
	}

	raw, err = json.Marshal(entries)
	if err == nil {
		err = c.client.Set(ctx, key, raw, c.ttl).Err()
	}
	if err != nil {
		slog.Warn("leaderboard cache write failed", "error", err)
	}
	return entries, nil
}

// Invalidate retires every cached snapshot, whatever its size. Retired
// snapshots expire with their TTL.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, leaderboardGenKey).Err()
}
