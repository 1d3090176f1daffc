package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"restaurant-orders/internal/core/cache"
	"restaurant-orders/internal/core/logger"
	"restaurant-orders/internal/features/orders/domain"
	"restaurant-orders/internal/features/orders/ports"
)

const orderCacheKeyPrefix = "order:"

// CachedOrderRepository decorates an OrderRepository with a read-through
// cache on the FindByID path. Every write invalidates the cached snapshot.
// Cache failures degrade to the inner repository and never fail the request.
type CachedOrderRepository struct {
	inner ports.OrderRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedOrderRepository wraps a repository with the given cache and TTL.
func NewCachedOrderRepository(inner ports.OrderRepository, c cache.Cache, ttl time.Duration) *CachedOrderRepository {
	return &CachedOrderRepository{
		inner: inner,
		cache: c,
		ttl:   ttl,
	}
}

func orderCacheKey(orderID uuid.UUID) string {
	return orderCacheKeyPrefix + orderID.String()
}

// Save persists through the inner repository and invalidates the cache entry.
func (r *CachedOrderRepository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	saved, err := r.inner.Save(ctx, order)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, saved.ID)
	return saved, nil
}

// FindByID serves from the cache when possible, falling back to the inner
// repository and populating the cache on a miss.
func (r *CachedOrderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	key := orderCacheKey(orderID)

	if data, err := r.cache.Get(ctx, key); err == nil {
		var order domain.Order
		if err := json.Unmarshal(data, &order); err == nil {
			return &order, nil
		}
		logger.Get().Warn("Discarding corrupt cached order", zap.String("key", key))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Get().Warn("Order cache read failed", zap.String("key", key), zap.Error(err))
	}

	order, err := r.inner.FindByID(ctx, orderID)
	if err != nil || order == nil {
		return order, err
	}

	if data, err := json.Marshal(order); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			logger.Get().Warn("Order cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return order, nil
}

// FindByCustomerID delegates to the inner repository. List queries are not cached.
func (r *CachedOrderRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	return r.inner.FindByCustomerID(ctx, customerID)
}

// FindByStatus delegates to the inner repository.
func (r *CachedOrderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return r.inner.FindByStatus(ctx, status)
}

// FindByDateRange delegates to the inner repository.
func (r *CachedOrderRepository) FindByDateRange(ctx context.Context, start, end time.Time, status *domain.OrderStatus) ([]*domain.Order, error) {
	return r.inner.FindByDateRange(ctx, start, end, status)
}

// Update persists through the inner repository and invalidates the cache entry.
func (r *CachedOrderRepository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	updated, err := r.inner.Update(ctx, order)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, updated.ID)
	return updated, nil
}

// Delete removes the order and its cache entry.
func (r *CachedOrderRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	if err := r.inner.Delete(ctx, orderID); err != nil {
		return err
	}
	r.invalidate(ctx, orderID)
	return nil
}

func (r *CachedOrderRepository) invalidate(ctx context.Context, orderID uuid.UUID) {
	if err := r.cache.Delete(ctx, orderCacheKey(orderID)); err != nil {
		logger.Get().Warn("Order cache invalidation failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
	}
}
