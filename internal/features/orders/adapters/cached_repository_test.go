package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/internal/core/cache"
	"restaurant-orders/internal/features/orders/domain"
)

func newCachedFixture(t *testing.T) (*CachedOrderRepository, *SQLiteOrderRepository, *miniredis.Miniredis) {
	t.Helper()
	inner := newTestRepository(t)

	mr := miniredis.RunT(t)
	adapter, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return NewCachedOrderRepository(inner, adapter, 5*time.Minute), inner, mr
}

// TestCachedOrderRepository_ReadThrough verifies a miss populates the cache
// and a hit is served without touching the inner repository.
func TestCachedOrderRepository_ReadThrough(t *testing.T) {
	repo, inner, mr := newCachedFixture(t)
	ctx := context.Background()

	order := domain.NewOrder(uuid.New(), []domain.OrderItem{newStoredItem(t, "Margherita", 2, 10.0)}, nil, "")
	_, err := inner.Save(ctx, order)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, mr.Exists(orderCacheKey(order.ID)))

	// Remove the row behind the cache's back; the hit must still be served.
	require.NoError(t, inner.Delete(ctx, order.ID))

	cached, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, order.ID, cached.ID)
	assert.InDelta(t, 22.0, cached.Total.Total, 1e-9)
}

// TestCachedOrderRepository_FindByID_Unknown verifies misses on both layers
// return nil without caching anything.
func TestCachedOrderRepository_FindByID_Unknown(t *testing.T) {
	repo, _, mr := newCachedFixture(t)

	unknown := uuid.New()
	found, err := repo.FindByID(context.Background(), unknown)

	require.NoError(t, err)
	assert.Nil(t, found)
	assert.False(t, mr.Exists(orderCacheKey(unknown)))
}

// TestCachedOrderRepository_UpdateInvalidates verifies writes evict the
// cached snapshot so the next read sees fresh state.
func TestCachedOrderRepository_UpdateInvalidates(t *testing.T) {
	repo, inner, mr := newCachedFixture(t)
	ctx := context.Background()

	order := domain.NewOrder(uuid.New(), nil, nil, "")
	_, err := inner.Save(ctx, order)
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(orderCacheKey(order.ID)))

	require.NoError(t, order.Transition(domain.OrderStatusPending))
	_, err = repo.Update(ctx, order)
	require.NoError(t, err)
	assert.False(t, mr.Exists(orderCacheKey(order.ID)))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
}

// TestCachedOrderRepository_DeleteInvalidates verifies deletion evicts the entry.
func TestCachedOrderRepository_DeleteInvalidates(t *testing.T) {
	repo, inner, mr := newCachedFixture(t)
	ctx := context.Background()

	order := domain.NewOrder(uuid.New(), nil, nil, "")
	_, err := inner.Save(ctx, order)
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(orderCacheKey(order.ID)))

	require.NoError(t, repo.Delete(ctx, order.ID))
	assert.False(t, mr.Exists(orderCacheKey(order.ID)))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

// TestCachedOrderRepository_CorruptEntry verifies a corrupt cached value
// falls back to the inner repository instead of failing the read.
func TestCachedOrderRepository_CorruptEntry(t *testing.T) {
	repo, inner, mr := newCachedFixture(t)
	ctx := context.Background()

	order := domain.NewOrder(uuid.New(), nil, nil, "")
	_, err := inner.Save(ctx, order)
	require.NoError(t, err)

	require.NoError(t, mr.Set(orderCacheKey(order.ID), "{not json"))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, order.ID, found.ID)
}

// TestCachedOrderRepository_CacheDown verifies reads still work when the
// cache server is unreachable.
func TestCachedOrderRepository_CacheDown(t *testing.T) {
	repo, inner, mr := newCachedFixture(t)
	ctx := context.Background()

	order := domain.NewOrder(uuid.New(), nil, nil, "")
	_, err := inner.Save(ctx, order)
	require.NoError(t, err)

	mr.Close()

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, order.ID, found.ID)
}

// TestCachedOrderRepository_ListQueriesBypassCache verifies list queries
// always hit the inner repository.
func TestCachedOrderRepository_ListQueriesBypassCache(t *testing.T) {
	repo, inner, _ := newCachedFixture(t)
	ctx := context.Background()

	order := domain.NewOrder(uuid.New(), nil, nil, "")
	_, err := inner.Save(ctx, order)
	require.NoError(t, err)

	byCustomer, err := repo.FindByCustomerID(ctx, order.CustomerID)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)

	byStatus, err := repo.FindByStatus(ctx, domain.OrderStatusCreated)
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	byRange, err := repo.FindByDateRange(ctx, order.CreatedAt.Add(-time.Minute), order.CreatedAt.Add(time.Minute), nil)
	require.NoError(t, err)
	assert.Len(t, byRange, 1)
}
