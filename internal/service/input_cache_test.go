package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"inputdash/internal/cache"
	"inputdash/internal/classify"
	dom "inputdash/internal/domain"
	"inputdash/internal/repo"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRepo counts List calls and can hold the next one until released.
type countingRepo struct {
	repo.InputRepo
	lists atomic.Int32

	mu      sync.Mutex
	hold    chan struct{}
	entered chan struct{}
}

func (r *countingRepo) List(ctx context.Context, userID int64, order dom.ListOrder) ([]dom.Input, error) {
	r.lists.Add(1)
	list, err := r.InputRepo.List(ctx, userID, order)

	r.mu.Lock()
	hold, entered := r.hold, r.entered
	r.hold, r.entered = nil, nil
	r.mu.Unlock()
	if hold != nil {
		close(entered)
		<-hold
	}
	return list, err
}

// holdNextList makes the next List call block after loading its rows.
func (r *countingRepo) holdNextList() (entered <-chan struct{}, release func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hold = make(chan struct{})
	r.entered = make(chan struct{})
	hold := r.hold
	return r.entered, func() { close(hold) }
}

type cachedFixture struct {
	svc    *InputService
	repo   *countingRepo
	userID int64
	other  int64
}

func newCachedFixture(t *testing.T) cachedFixture {
	t.Helper()
	db, err := repo.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	users := NewUserService(repo.NewSQLiteUserRepo(db))
	owner, err := users.Register(context.Background(), "owner@example.com", "password123")
	require.NoError(t, err)
	other, err := users.Register(context.Background(), "other@example.com", "password123")
	require.NoError(t, err)

	r := &countingRepo{InputRepo: repo.NewSQLiteInputRepo(db)}
	return cachedFixture{
		svc:    NewInputService(r, cache.NewInputCache(rdb, time.Minute), classify.Keyword{}, nil),
		repo:   r,
		userID: owner.ID,
		other:  other.ID,
	}
}

func TestInputService_CachedList(t *testing.T) {
	ctx := context.Background()
	f := newCachedFixture(t)

	_, err := f.svc.Create(ctx, f.userID, "sev1 outage")
	require.NoError(t, err)

	first, err := f.svc.List(ctx, f.userID, dom.OrderDashboard)
	require.NoError(t, err)
	second, err := f.svc.List(ctx, f.userID, dom.OrderDashboard)
	require.NoError(t, err)
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].Text, second[0].Text)
	assert.Equal(t, int32(1), f.repo.lists.Load(), "second read is served from cache")

	_, err = f.svc.List(ctx, f.userID, dom.OrderCategory)
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.repo.lists.Load())
}

func TestInputService_WritesInvalidateCache(t *testing.T) {
	ctx := context.Background()
	f := newCachedFixture(t)

	list := func(userID int64) []dom.Input {
		t.Helper()
		out, err := f.svc.List(ctx, userID, dom.OrderDashboard)
		require.NoError(t, err)
		return out
	}

	in, err := f.svc.Create(ctx, f.userID, "meeting notes")
	require.NoError(t, err)
	require.Len(t, list(f.userID), 1)

	_, err = f.svc.Create(ctx, f.userID, "release tonight")
	require.NoError(t, err)
	require.Len(t, list(f.userID), 2, "create invalidates")

	_, err = f.svc.Update(ctx, f.userID, in.ID, dom.InputPatch{Status: ptr(dom.StatusDone)})
	require.NoError(t, err)
	for _, got := range list(f.userID) {
		if got.ID == in.ID {
			assert.Equal(t, dom.StatusDone, got.Status, "update invalidates")
		}
	}

	require.NoError(t, f.svc.Delete(ctx, f.userID, in.ID))
	require.Len(t, list(f.userID), 1, "delete invalidates")

	_, err = f.svc.Create(ctx, f.other, "their note")
	require.NoError(t, err)
	before := f.repo.lists.Load()
	require.Len(t, list(f.userID), 1)
	assert.Equal(t, before, f.repo.lists.Load(), "another user's write leaves this cache alone")
}

func TestInputService_WriteDuringCacheFill(t *testing.T) {
	ctx := context.Background()
	f := newCachedFixture(t)

	entered, release := f.repo.holdNextList()
	done := make(chan []dom.Input)
	go func() {
		list, err := f.svc.List(ctx, f.userID, dom.OrderDashboard)
		assert.NoError(t, err)
		done <- list
	}()
	<-entered

	_, err := f.svc.Create(ctx, f.userID, "new outage")
	require.NoError(t, err)
	release()
	assert.Empty(t, <-done, "in-flight read saw the rows from before the write")

	list, err := f.svc.List(ctx, f.userID, dom.OrderDashboard)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new outage", list[0].Text)
}
