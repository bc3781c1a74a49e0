// Package cache keeps JSON game snapshots in Redis so state requests can be
// answered for games that are no longer held in memory.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/clawbot69/clawnopoly/internal/game"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "clawnopoly:game:"

var ErrMiss = errors.New("snapshot not cached")

// Connect opens a client and pings it. An empty addr means no cache.
func Connect(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

type SnapshotCache struct {
	rdb *redis.Client
}

func NewSnapshotCache(rdb *redis.Client) *SnapshotCache {
	return &SnapshotCache{rdb: rdb}
}

func Key(gameID string) string {
	return keyPrefix + gameID
}

func (c *SnapshotCache) Set(ctx context.Context, gameID string, snap game.Snapshot, ttl time.Duration) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Key(gameID), b, ttl).Err()
}

func (c *SnapshotCache) Get(ctx context.Context, gameID string) (*game.Snapshot, error) {
	b, err := c.rdb.Get(ctx, Key(gameID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	var snap game.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *SnapshotCache) Delete(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, Key(gameID)).Err()
}

func (c *SnapshotCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
