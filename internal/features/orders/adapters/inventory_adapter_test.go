package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/internal/core/config"
	"restaurant-orders/internal/features/orders/domain"
)

func newInventoryAdapter(url string) *HTTPInventoryAdapter {
	return NewHTTPInventoryAdapter(config.InventoryConfig{URL: url, TimeoutSeconds: 2})
}

// TestHTTPInventoryAdapter_ValidateItemsAvailability verifies the happy path:
// request shape, response decoding, and the default-false rule for items the
// service does not mention.
func TestHTTPInventoryAdapter_ValidateItemsAvailability(t *testing.T) {
	available := uuid.New()
	unavailable := uuid.New()
	unmentioned := uuid.New()

	var captured validateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/inventory/validate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := validateResponse{Availability: map[string]bool{
			available.String():   true,
			unavailable.String(): false,
		}}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	adapter := newInventoryAdapter(server.URL)
	items := []domain.OrderItem{
		{ProductID: available, Quantity: 2},
		{ProductID: unavailable, Quantity: 1},
		{ProductID: unmentioned, Quantity: 1},
	}

	result, err := adapter.ValidateItemsAvailability(context.Background(), items)

	require.NoError(t, err)
	assert.True(t, result[available])
	assert.False(t, result[unavailable])
	assert.False(t, result[unmentioned])

	require.Len(t, captured.Items, 3)
	assert.Equal(t, available.String(), captured.Items[0].ProductID)
	assert.Equal(t, 2, captured.Items[0].Quantity)
}

// TestHTTPInventoryAdapter_ServiceError verifies non-200 responses surface
// the service's message as an InventoryError.
func TestHTTPInventoryAdapter_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(validateResponse{Message: "inventory database unavailable"})
	}))
	defer server.Close()

	adapter := newInventoryAdapter(server.URL)
	_, err := adapter.ValidateItemsAvailability(context.Background(), []domain.OrderItem{{ProductID: uuid.New(), Quantity: 1}})

	require.Error(t, err)
	var invErr *domain.InventoryError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "inventory database unavailable", invErr.Message)
	assert.ErrorIs(t, err, domain.ErrItemsUnavailable)
}

// TestHTTPInventoryAdapter_ServiceErrorWithoutMessage verifies the fallback
// message when the error body is not parseable.
func TestHTTPInventoryAdapter_ServiceErrorWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	}))
	defer server.Close()

	adapter := newInventoryAdapter(server.URL)
	_, err := adapter.ValidateItemsAvailability(context.Background(), []domain.OrderItem{{ProductID: uuid.New(), Quantity: 1}})

	var invErr *domain.InventoryError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "error validating inventory", invErr.Message)
}

// TestHTTPInventoryAdapter_ConnectionFailure verifies network errors are
// wrapped rather than returned raw.
func TestHTTPInventoryAdapter_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	adapter := newInventoryAdapter(server.URL)
	_, err := adapter.ValidateItemsAvailability(context.Background(), []domain.OrderItem{{ProductID: uuid.New(), Quantity: 1}})

	var invErr *domain.InventoryError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "error connecting to inventory service", invErr.Message)
	assert.NotNil(t, invErr.Cause)
}

// TestHTTPInventoryAdapter_MalformedResponse verifies a 200 with a broken
// body is rejected.
func TestHTTPInventoryAdapter_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	adapter := newInventoryAdapter(server.URL)
	_, err := adapter.ValidateItemsAvailability(context.Background(), []domain.OrderItem{{ProductID: uuid.New(), Quantity: 1}})

	var invErr *domain.InventoryError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "invalid inventory service response", invErr.Message)
}

// TestHTTPInventoryAdapter_HealthCheck covers both outcomes of the probe.
func TestHTTPInventoryAdapter_HealthCheck(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(validateResponse{Availability: map[string]bool{}})
	}))
	defer healthy.Close()

	assert.NoError(t, newInventoryAdapter(healthy.URL).HealthCheck(context.Background()))

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	assert.Error(t, newInventoryAdapter(unhealthy.URL).HealthCheck(context.Background()))
}
