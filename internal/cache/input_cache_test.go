package cache

import (
	"context"
	"testing"
	"time"

	dom "inputdash/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*InputCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewInputCache(rdb, time.Minute), mr
}

func sampleList(texts ...string) []dom.Input {
	out := make([]dom.Input, len(texts))
	for i, text := range texts {
		out[i] = dom.Input{ID: int64(i + 1), Text: text, Category: dom.CategoryNote, Status: dom.StatusOpen}
	}
	return out
}

func TestInputCache_MissThenHit(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	gen, err := c.Generation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	list, err := c.GetList(ctx, 1, gen, dom.OrderDashboard)
	require.NoError(t, err)
	assert.Nil(t, list)

	require.NoError(t, c.SetList(ctx, 1, gen, dom.OrderDashboard, sampleList("a", "b")))
	list, err = c.GetList(ctx, 1, gen, dom.OrderDashboard)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Text)

	other, err := c.GetList(ctx, 1, gen, dom.OrderCategory)
	require.NoError(t, err)
	assert.Nil(t, other, "orders are cached separately")

	assert.Equal(t, time.Minute, mr.TTL(listKey(1, gen, dom.OrderDashboard)))
}

func TestInputCache_InvalidateUser(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.SetList(ctx, 1, 0, dom.OrderDashboard, sampleList("mine")))
	require.NoError(t, c.SetList(ctx, 2, 0, dom.OrderDashboard, sampleList("theirs")))

	require.NoError(t, c.InvalidateUser(ctx, 1))

	gen, err := c.Generation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	list, err := c.GetList(ctx, 1, gen, dom.OrderDashboard)
	require.NoError(t, err)
	assert.Nil(t, list)

	otherGen, err := c.Generation(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), otherGen)
	list, err = c.GetList(ctx, 2, otherGen, dom.OrderDashboard)
	require.NoError(t, err)
	require.Len(t, list, 1, "other users keep their cache")
	assert.Equal(t, "theirs", list[0].Text)
}

func TestInputCache_StaleWriteAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	gen, err := c.Generation(ctx, 1)
	require.NoError(t, err)

	// A write lands while a reader is still loading with the old generation.
	require.NoError(t, c.InvalidateUser(ctx, 1))
	require.NoError(t, c.SetList(ctx, 1, gen, dom.OrderDashboard, sampleList("stale")))

	current, err := c.Generation(ctx, 1)
	require.NoError(t, err)
	list, err := c.GetList(ctx, 1, current, dom.OrderDashboard)
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestInputCache_RedisDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	_, err := c.Generation(ctx, 1)
	assert.Error(t, err)
	assert.Error(t, c.InvalidateUser(ctx, 1))
}
