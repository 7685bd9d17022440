package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	dom "inputdash/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyListPrefix = "inputs:list:"
	keyGenPrefix  = "inputs:gen:"
)

// InputCache caches per-user input listings in Redis, one key per order.
//
// Every listing key carries the user's generation number. InvalidateUser bumps
// the generation, so a listing loaded before a write can only ever be stored
// under a generation nobody reads anymore.
type InputCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewInputCache returns a new InputCache.
func NewInputCache(rdb *redis.Client, ttl time.Duration) *InputCache {
	return &InputCache{rdb: rdb, ttl: ttl}
}

func genKey(userID int64) string {
	return keyGenPrefix + strconv.FormatInt(userID, 10)
}

func listKey(userID, gen int64, order dom.ListOrder) string {
	return keyListPrefix + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(gen, 10) + ":" + string(order)
}

// Generation returns the user's current cache generation. It must be read
// before loading the listing that is later passed to SetList.
func (c *InputCache) Generation(ctx context.Context, userID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetList returns the cached listing or nil on a miss.
func (c *InputCache) GetList(ctx context.Context, userID, gen int64, order dom.ListOrder) ([]dom.Input, error) {
	b, err := c.rdb.Get(ctx, listKey(userID, gen, order)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := []dom.Input{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores a listing under generation gen.
func (c *InputCache) SetList(ctx context.Context, userID, gen int64, order dom.ListOrder, list []dom.Input) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID, gen, order), b, c.ttl).Err()
}

// InvalidateUser retires every cached listing of the user by bumping the
// generation. Old keys expire on their own TTL.
func (c *InputCache) InvalidateUser(ctx context.Context, userID int64) error {
	return c.rdb.Incr(ctx, genKey(userID)).Err()
}
