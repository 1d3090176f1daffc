package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"restaurant-orders/internal/features/orders/domain"
	"restaurant-orders/internal/features/orders/ports"
)

// OrderQueryService exposes read-only projections over the order repository.
// No mutation, no side effects.
type OrderQueryService struct {
	// repo is the order repository.
	repo ports.OrderRepository
}

// NewOrderQueryService creates a new OrderQueryService.
func NewOrderQueryService(repo ports.OrderRepository) *OrderQueryService {
	return &OrderQueryService{
		repo: repo,
	}
}

// GetOrderByID returns the order with the given id, or a not-found error.
func (s *OrderQueryService) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	return order, nil
}

// GetOrdersByCustomerID returns all orders for a customer.
// Returns an empty slice when none exist.
func (s *OrderQueryService) GetOrdersByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	return s.repo.FindByCustomerID(ctx, customerID)
}

// GetOrdersByStatus returns all orders with the given status.
// Returns an empty slice when none exist.
func (s *OrderQueryService) GetOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return s.repo.FindByStatus(ctx, status)
}

// GetOrdersByDateRange returns all orders created within the inclusive
// [start, end] range, optionally filtered by status.
func (s *OrderQueryService) GetOrdersByDateRange(ctx context.Context, start, end time.Time, status *domain.OrderStatus) ([]*domain.Order, error) {
	return s.repo.FindByDateRange(ctx, start, end, status)
}
