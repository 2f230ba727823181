package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultLocalTTL  = 30 * time.Second
	DefaultRedisTTL  = 10 * time.Minute
	defaultLocalSize = 32 * 1024 * 1024
)

// Cache is a two level page cache: an in-process freecache in front of redis.
// Every key written to redis is registered in a per-week set, so that a week
// can be dropped in one go after it was re-aggregated. Local entries of other
// instances live at most localTTL past an invalidation. A localTTL under one
// second disables the local level.
type Cache struct {
	local        *freecache.Cache
	rdb          *redis.Client
	localSeconds int
	redisTTL     time.Duration
}

func NewCache(rdb *redis.Client, localTTL, redisTTL time.Duration) *Cache {
	return &Cache{
		local:        freecache.NewCache(defaultLocalSize),
		rdb:          rdb,
		localSeconds: int(localTTL.Seconds()),
		redisTTL:     redisTTL,
	}
}

func (c *Cache) setLocal(key string, val []byte) {
	// freecache treats 0 as no expiry
	if c.localSeconds <= 0 {
		return
	}
	if err := c.local.Set([]byte(key), val, c.localSeconds); err != nil {
		log.Debugf("leaderboard cache: local set %s: %s", key, err)
	}
}

func weekKeysSet(weekID string) string {
	return fmt.Sprintf("leaderboard-keys::%s", weekID)
}

// Get reports where the value was found: "local", "redis" or "miss".
func (c *Cache) Get(ctx context.Context, key string) ([]byte, string) {
	if val, err := c.local.Get([]byte(key)); err == nil {
		return val, "local"
	}

	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warnf("leaderboard cache: get %s: %s", key, err)
		}
		return nil, "miss"
	}

	c.setLocal(key, val)
	return val, "redis"
}

func (c *Cache) Set(ctx context.Context, weekID, key string, val []byte) {
	c.setLocal(key, val)

	if err := c.rdb.Set(ctx, key, val, c.redisTTL).Err(); err != nil {
		log.Warnf("leaderboard cache: set %s: %s", key, err)
		return
	}
	setKey := weekKeysSet(weekID)
	if err := c.rdb.SAdd(ctx, setKey, key).Err(); err != nil {
		log.Warnf("leaderboard cache: register %s: %s", key, err)
		return
	}
	if err := c.rdb.Expire(ctx, setKey, c.redisTTL).Err(); err != nil {
		log.Warnf("leaderboard cache: expire %s: %s", setKey, err)
	}
}

// InvalidateWeek drops every cached page of the week.
func (c *Cache) InvalidateWeek(ctx context.Context, weekID string) error {
	setKey := weekKeysSet(weekID)
	keys, err := c.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("list cached pages of %s: %w", weekID, err)
	}

	for _, key := range keys {
		c.local.Del([]byte(key))
	}

	if err := c.rdb.Del(ctx, append(keys, setKey)...).Err(); err != nil {
		return fmt.Errorf("drop cached pages of %s: %w", weekID, err)
	}
	log.Debugf("leaderboard cache: dropped %d pages of %s", len(keys), weekID)
	return nil
}
