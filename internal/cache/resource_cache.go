package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"resource-board/internal/model"
)

const (
	ResourceListKey = "board:resources:list"
	// ResourceListGenKey counts invalidations. A list is only stored if the
	// counter has not moved since the caller read it.
	ResourceListGenKey = "board:resources:gen"
)

var errGenerationChanged = errors.New("resource list generation changed")

// ResourceListCache keeps the public, unfiltered resource listing in Redis.
type ResourceListCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewResourceListCache(client *redisv9.Client, ttl time.Duration) *ResourceListCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ResourceListCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *ResourceListCache) GetList(ctx context.Context) ([]model.Resource, bool, error) {
	raw, err := c.client.Get(ctx, ResourceListKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get resource list failed: %w", err)
	}

	var resources []model.Resource
	if err := json.Unmarshal([]byte(raw), &resources); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached resource list failed: %w", err)
	}
	return resources, true, nil
}

// Generation returns the current invalidation counter. Read it before
// querying the store and hand it to SetList.
func (c *ResourceListCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, ResourceListGenKey).Int64()
	if err == redisv9.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get resource list generation failed: %w", err)
	}
	return gen, nil
}

// SetList stores resources unless an Invalidate ran after generation was
// read; then the list may predate that write and is dropped.
func (c *ResourceListCache) SetList(ctx context.Context, generation int64, resources []model.Resource) (bool, error) {
	if resources == nil {
		resources = []model.Resource{}
	}
	payload, err := json.Marshal(resources)
	if err != nil {
		return false, fmt.Errorf("marshal resource list cache failed: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redisv9.Tx) error {
		current, err := tx.Get(ctx, ResourceListGenKey).Int64()
		if err != nil && err != redisv9.Nil {
			return err
		}
		if current != generation {
			return errGenerationChanged
		}
		_, err = tx.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
			pipe.Set(ctx, ResourceListKey, payload, c.ttl)
			return nil
		})
		return err
	}, ResourceListGenKey)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errGenerationChanged), errors.Is(err, redisv9.TxFailedErr):
		return false, nil
	default:
		return false, fmt.Errorf("redis set resource list failed: %w", err)
	}
}

// Invalidate bumps the generation before dropping the list so an in-flight
// SetList cannot put it back.
func (c *ResourceListCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		pipe.Incr(ctx, ResourceListGenKey)
		pipe.Del(ctx, ResourceListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate resource list failed: %w", err)
	}
	return nil
}
