package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"restaurant-orders/internal/core/config"
	"restaurant-orders/internal/core/httpclient"
	"restaurant-orders/internal/features/orders/domain"
)

// HTTPInventoryAdapter implements the InventoryValidator interface against the
// inventory service's REST API. The check is advisory: it never reserves stock.
type HTTPInventoryAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the inventory service connection details.
	config config.InventoryConfig
}

// NewHTTPInventoryAdapter creates a new instance of HTTPInventoryAdapter.
func NewHTTPInventoryAdapter(cfg config.InventoryConfig) *HTTPInventoryAdapter {
	return &HTTPInventoryAdapter{
		client: httpclient.NewClient(time.Duration(cfg.TimeoutSeconds) * time.Second),
		config: cfg,
	}
}

// validateRequest is the wire shape of the availability check request.
type validateRequest struct {
	Items []validateRequestItem `json:"items"`
}

type validateRequestItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// validateResponse is the wire shape of the availability check response.
type validateResponse struct {
	Availability map[string]bool `json:"availability"`
	Message      string          `json:"message,omitempty"`
}

// ValidateItemsAvailability posts the item list to the inventory service and
// returns an availability entry for every submitted item. Items the service
// does not mention come back unavailable.
func (a *HTTPInventoryAdapter) ValidateItemsAvailability(ctx context.Context, items []domain.OrderItem) (map[uuid.UUID]bool, error) {
	payload := validateRequest{Items: make([]validateRequestItem, 0, len(items))}
	for _, item := range items {
		payload.Items = append(payload.Items, validateRequestItem{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inventory request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/inventory/validate", a.config.URL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &domain.InventoryError{
			Message: "error connecting to inventory service",
			Cause:   err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := "error validating inventory"
		var errResp validateResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			msg = errResp.Message
		}
		return nil, &domain.InventoryError{
			Message: msg,
			Cause:   fmt.Errorf("inventory service returned status %d", resp.StatusCode),
		}
	}

	var result validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &domain.InventoryError{
			Message: "invalid inventory service response",
			Cause:   err,
		}
	}

	availability := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		availability[item.ProductID] = result.Availability[item.ProductID.String()]
	}
	return availability, nil
}

// HealthCheck verifies that the inventory service is reachable.
func (a *HTTPInventoryAdapter) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/v1/inventory/validate", a.config.URL)

	body, _ := json.Marshal(validateRequest{Items: []validateRequestItem{}})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("health check failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	return nil
}
