package adapters

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/internal/features/orders/domain"
)

func newTestRepository(t *testing.T) *SQLiteOrderRepository {
	t.Helper()
	repo, err := NewSQLiteOrderRepository(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newStoredItem(t *testing.T, name string, quantity int, unitPrice float64) domain.OrderItem {
	t.Helper()
	item, err := domain.NewOrderItem(uuid.New(), name, quantity, unitPrice, "no onions")
	require.NoError(t, err)
	return *item
}

// TestSQLiteOrderRepository_SaveAndFind verifies a full round trip including
// items, address, and totals.
func TestSQLiteOrderRepository_SaveAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	addr := &domain.DeliveryAddress{
		Street: "123 Main St", City: "Springfield", State: "IL",
		PostalCode: "62704", Country: "USA", Apartment: "4B",
	}
	first := newStoredItem(t, "Margherita", 2, 10.0)
	second := newStoredItem(t, "Tiramisu", 1, 5.0)
	order := domain.NewOrder(uuid.New(), []domain.OrderItem{first, second}, addr, "ring twice")

	_, err := repo.Save(ctx, order)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, order.CustomerID, found.CustomerID)
	assert.Equal(t, domain.OrderStatusCreated, found.Status)
	assert.Equal(t, "ring twice", found.Notes)
	assert.InDelta(t, 27.5, found.Total.Total, 1e-9)
	require.NotNil(t, found.DeliveryAddress)
	assert.Equal(t, *addr, *found.DeliveryAddress)

	// Insertion order is preserved for display.
	require.Len(t, found.Items, 2)
	assert.Equal(t, first.ID, found.Items[0].ID)
	assert.Equal(t, second.ID, found.Items[1].ID)
	assert.Equal(t, "no onions", found.Items[0].Notes)
}

// TestSQLiteOrderRepository_FindByID_Unknown verifies absence returns nil, nil.
func TestSQLiteOrderRepository_FindByID_Unknown(t *testing.T) {
	repo := newTestRepository(t)

	found, err := repo.FindByID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, found)
}

// TestSQLiteOrderRepository_FindByCustomerID verifies customer filtering.
func TestSQLiteOrderRepository_FindByCustomerID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	customerID := uuid.New()
	mine := domain.NewOrder(customerID, []domain.OrderItem{newStoredItem(t, "Margherita", 1, 10.0)}, nil, "")
	other := domain.NewOrder(uuid.New(), nil, nil, "")
	_, err := repo.Save(ctx, mine)
	require.NoError(t, err)
	_, err = repo.Save(ctx, other)
	require.NoError(t, err)

	orders, err := repo.FindByCustomerID(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)
	assert.Len(t, orders[0].Items, 1)

	none, err := repo.FindByCustomerID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

// TestSQLiteOrderRepository_FindByStatus verifies status filtering.
func TestSQLiteOrderRepository_FindByStatus(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created := domain.NewOrder(uuid.New(), nil, nil, "")
	cancelled := domain.NewOrder(uuid.New(), nil, nil, "")
	require.NoError(t, cancelled.Cancel())
	_, err := repo.Save(ctx, created)
	require.NoError(t, err)
	_, err = repo.Save(ctx, cancelled)
	require.NoError(t, err)

	orders, err := repo.FindByStatus(ctx, domain.OrderStatusCancelled)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, cancelled.ID, orders[0].ID)
}

// TestSQLiteOrderRepository_FindByDateRange verifies inclusive bounds and the
// optional status filter.
func TestSQLiteOrderRepository_FindByDateRange(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	order := domain.NewOrder(uuid.New(), nil, nil, "")
	_, err := repo.Save(ctx, order)
	require.NoError(t, err)

	start := order.CreatedAt.Add(-time.Hour)
	end := order.CreatedAt.Add(time.Hour)

	orders, err := repo.FindByDateRange(ctx, start, end, nil)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	// Inclusive lower bound.
	exact, err := repo.FindByDateRange(ctx, order.CreatedAt, end, nil)
	require.NoError(t, err)
	assert.Len(t, exact, 1)

	// Range before the order.
	before, err := repo.FindByDateRange(ctx, start.Add(-2*time.Hour), start, nil)
	require.NoError(t, err)
	assert.Empty(t, before)

	// Status filter excludes.
	status := domain.OrderStatusDelivered
	filtered, err := repo.FindByDateRange(ctx, start, end, &status)
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

// TestSQLiteOrderRepository_Update verifies the revision bump and item replacement.
func TestSQLiteOrderRepository_Update(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	order := domain.NewOrder(uuid.New(), []domain.OrderItem{newStoredItem(t, "Margherita", 1, 10.0)}, nil, "")
	_, err := repo.Save(ctx, order)
	require.NoError(t, err)

	require.NoError(t, order.AddItem(newStoredItem(t, "Tiramisu", 1, 5.0)))
	require.NoError(t, order.Transition(domain.OrderStatusPending))

	updated, err := repo.Update(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Revision)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
	assert.Len(t, found.Items, 2)
	assert.Equal(t, int64(1), found.Revision)
	assert.InDelta(t, 16.5, found.Total.Total, 1e-9)
	require.NotNil(t, found.UpdatedAt)
}

// TestSQLiteOrderRepository_Update_Conflict verifies stale revisions are rejected.
func TestSQLiteOrderRepository_Update_Conflict(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	order := domain.NewOrder(uuid.New(), []domain.OrderItem{newStoredItem(t, "Margherita", 1, 10.0)}, nil, "")
	_, err := repo.Save(ctx, order)
	require.NoError(t, err)

	// Two readers load the same revision.
	first, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	require.NoError(t, first.Transition(domain.OrderStatusPending))
	_, err = repo.Update(ctx, first)
	require.NoError(t, err)

	require.NoError(t, second.Cancel())
	_, err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, domain.ErrOrderConflict)

	// The winner's write is intact.
	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
}

// TestSQLiteOrderRepository_Update_Unknown verifies unknown ids report not-found.
func TestSQLiteOrderRepository_Update_Unknown(t *testing.T) {
	repo := newTestRepository(t)

	order := domain.NewOrder(uuid.New(), nil, nil, "")
	_, err := repo.Update(context.Background(), order)

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

// TestSQLiteOrderRepository_Delete verifies removal and the unknown-id no-op.
func TestSQLiteOrderRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	order := domain.NewOrder(uuid.New(), []domain.OrderItem{newStoredItem(t, "Margherita", 1, 10.0)}, nil, "")
	_, err := repo.Save(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, order.ID))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// Deleting again is a no-op.
	assert.NoError(t, repo.Delete(ctx, order.ID))
}
