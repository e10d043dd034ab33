package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/otog-org/otog-server/internal/scoreboard"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Redis caches snapshots as JSON under scoreboard:{contestID}, shared by all
// server instances. A load racing an Invalidate may store a stale snapshot
// until the TTL expires.
type Redis struct {
	client *redis.Client
	loader Loader
	ttl    time.Duration
	sf     singleflight.Group
}

func NewRedis(client *redis.Client, loader Loader, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		loader: loader,
		ttl:    ttl,
	}
}

func (r *Redis) key(contestID uint) string {
	return fmt.Sprintf("scoreboard:%d", contestID)
}

func (r *Redis) lookup(ctx context.Context, contestID uint) (scoreboard.Snapshot, bool) {
	var snapshot scoreboard.Snapshot
	data, err := r.client.Get(ctx, r.key(contestID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.S().Warnf("scoreboard cache read failed for contest %d: %v", contestID, err)
		}
		return snapshot, false
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		zap.S().Warnf("discarding malformed cached scoreboard for contest %d: %v", contestID, err)
		return snapshot, false
	}
	return snapshot, true
}

func (r *Redis) Get(ctx context.Context, contestID uint) (scoreboard.Snapshot, error) {
	if snapshot, ok := r.lookup(ctx, contestID); ok {
		return snapshot, nil
	}

	result, err, _ := r.sf.Do(flightKey(contestID), func() (interface{}, error) {
		// Callers share this load, so one caller giving up must not fail the rest.
		ctx := context.WithoutCancel(ctx)
		if snapshot, ok := r.lookup(ctx, contestID); ok {
			return snapshot, nil
		}

		snapshot, err := r.loader(ctx, contestID)
		if err != nil {
			return scoreboard.Snapshot{}, err
		}

		data, err := json.Marshal(snapshot)
		if err != nil {
			return scoreboard.Snapshot{}, err
		}
		if err := r.client.Set(ctx, r.key(contestID), data, r.ttl).Err(); err != nil {
			// Serve the fresh snapshot anyway.
			zap.S().Warnf("scoreboard cache write failed for contest %d: %v", contestID, err)
		}
		return snapshot, nil
	})
	if err != nil {
		return scoreboard.Snapshot{}, err
	}
	return result.(scoreboard.Snapshot), nil
}

func (r *Redis) Invalidate(ctx context.Context, contestID uint) error {
	r.sf.Forget(flightKey(contestID))
	return r.client.Del(ctx, r.key(contestID)).Err()
}
