package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"restaurant-orders/internal/core/logger"
	"restaurant-orders/internal/features/orders/domain"
	"restaurant-orders/internal/features/orders/service"
)

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	// service drives the order lifecycle.
	service *service.OrderService
	// queries serves the read side.
	queries *service.OrderQueryService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s *service.OrderService, q *service.OrderQueryService) *OrderHandler {
	return &OrderHandler{
		service: s,
		queries: q,
	}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// CreateOrder handles the request to place a new order.
// @Summary Create Order
// @Description Validates item availability and creates a new order in CREATED status.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "Order to create"
// @Success 201 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return badRequest(c, "invalid customer_id")
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		item, err := itemReq.toDomainItem()
		if err != nil {
			return badRequest(c, err.Error())
		}
		items = append(items, *item)
	}

	order, err := h.service.CreateOrder(c.UserContext(), customerID, items, req.DeliveryAddress.toDomainAddress(), req.Notes)
	if err != nil {
		return h.respondError(c, "Failed to create order", err)
	}

	return c.Status(http.StatusCreated).JSON(order)
}

// GetOrder handles the request to retrieve a single order.
// @Summary Get Order by ID
// @Description Fetch order details using the order ID.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	order, err := h.queries.GetOrderByID(c.UserContext(), orderID)
	if err != nil {
		return h.respondError(c, "Failed to fetch order", err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// ListOrders handles the request to list orders by customer, status, or
// creation date range.
// @Summary List Orders
// @Description Lists orders filtered by customer_id, status, or a start/end date range. Exactly one filter dimension is required.
// @Tags orders
// @Produce json
// @Param customer_id query string false "Customer ID"
// @Param status query string false "Order status"
// @Param start query string false "Range start (RFC 3339)"
// @Param end query string false "Range end (RFC 3339)"
// @Success 200 {array} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if customerParam := c.Query("customer_id"); customerParam != "" {
		customerID, err := uuid.Parse(customerParam)
		if err != nil {
			return badRequest(c, "invalid customer_id")
		}
		orders, err := h.queries.GetOrdersByCustomerID(ctx, customerID)
		if err != nil {
			return h.respondError(c, "Failed to list orders", err)
		}
		return c.Status(http.StatusOK).JSON(orders)
	}

	if startParam := c.Query("start"); startParam != "" {
		start, err := time.Parse(time.RFC3339, startParam)
		if err != nil {
			return badRequest(c, "invalid start timestamp")
		}
		end, err := time.Parse(time.RFC3339, c.Query("end"))
		if err != nil {
			return badRequest(c, "invalid end timestamp")
		}
		var status *domain.OrderStatus
		if statusParam := c.Query("status"); statusParam != "" {
			parsed, err := domain.ParseOrderStatus(statusParam)
			if err != nil {
				return badRequest(c, "invalid status")
			}
			status = &parsed
		}
		orders, err := h.queries.GetOrdersByDateRange(ctx, start, end, status)
		if err != nil {
			return h.respondError(c, "Failed to list orders", err)
		}
		return c.Status(http.StatusOK).JSON(orders)
	}

	if statusParam := c.Query("status"); statusParam != "" {
		status, err := domain.ParseOrderStatus(statusParam)
		if err != nil {
			return badRequest(c, "invalid status")
		}
		orders, err := h.queries.GetOrdersByStatus(ctx, status)
		if err != nil {
			return h.respondError(c, "Failed to list orders", err)
		}
		return c.Status(http.StatusOK).JSON(orders)
	}

	return badRequest(c, "customer_id, status, or start/end query parameter is required")
}

// AddItem handles the request to add an item to an open order.
// @Summary Add Item to Order
// @Description Adds an item to an order still in CREATED or PENDING status.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param item body OrderItemRequest true "Item to add"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /orders/{id}/items [post]
func (h *OrderHandler) AddItem(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	var req OrderItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := req.toDomainItem()
	if err != nil {
		return badRequest(c, err.Error())
	}

	order, err := h.service.AddItemToOrder(c.UserContext(), orderID, *item)
	if err != nil {
		return h.respondError(c, "Failed to add item", err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// RemoveItem handles the request to remove an item from an open order.
// @Summary Remove Item from Order
// @Description Removes an item from an order still in CREATED or PENDING status. Removing an absent item is a no-op.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/items/{itemId} [delete]
func (h *OrderHandler) RemoveItem(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}
	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return badRequest(c, "invalid item id")
	}

	order, err := h.service.RemoveItemFromOrder(c.UserContext(), orderID, itemID)
	if err != nil {
		return h.respondError(c, "Failed to remove item", err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// UpdateStatus handles the request to advance an order along the lifecycle.
// @Summary Update Order Status
// @Description Transitions the order to the given status. Only transitions allowed by the lifecycle are accepted.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body UpdateStatusRequest true "Target status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, status, err := parseStatusRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), orderID, status)
	if err != nil {
		return h.respondError(c, "Failed to update order status", err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// OverrideStatus handles the administrative request to force a status.
// @Summary Override Order Status
// @Description Sets the order status without lifecycle checks. Administrative escape hatch for support tooling.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body UpdateStatusRequest true "Target status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/status/override [post]
func (h *OrderHandler) OverrideStatus(c *fiber.Ctx) error {
	orderID, status, err := parseStatusRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	order, err := h.service.OverrideOrderStatus(c.UserContext(), orderID, status)
	if err != nil {
		return h.respondError(c, "Failed to override order status", err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// ConfirmOrder handles the request to confirm an order.
// @Summary Confirm Order
// @Description Re-validates availability of every item and moves the order to CONFIRMED.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /orders/{id}/confirm [post]
func (h *OrderHandler) ConfirmOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	order, err := h.service.ConfirmOrder(c.UserContext(), orderID)
	if err != nil {
		return h.respondError(c, "Failed to confirm order", err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// CancelOrder handles the request to cancel an order.
// @Summary Cancel Order
// @Description Cancels the order from any non-delivered status, with an optional reason.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body CancelOrderRequest false "Cancellation reason"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	var req CancelOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	order, err := h.service.CancelOrder(c.UserContext(), orderID, req.Reason)
	if err != nil {
		return h.respondError(c, "Failed to cancel order", err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// parseStatusRequest reads the order id and target status shared by the
// status endpoints.
func parseStatusRequest(c *fiber.Ctx) (uuid.UUID, domain.OrderStatus, error) {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, "", errors.New("invalid order id")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return uuid.Nil, "", errors.New("invalid request body")
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		return uuid.Nil, "", err
	}
	return orderID, status, nil
}

// respondError maps service errors to HTTP statuses and logs the failure.
func (h *OrderHandler) respondError(c *fiber.Ctx, what string, err error) error {
	rid := rayID(c)

	logger.Get().Error(what,
		zap.String("path", c.Path()),
		zap.String("ray_id", rid),
		zap.Error(err),
	)

	status := http.StatusInternalServerError
	var invErr *domain.InventoryError

	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrCustomerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidOrderState),
		errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrInvalidItem):
		status = http.StatusBadRequest
	case errors.As(err, &invErr), errors.Is(err, domain.ErrItemsUnavailable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrOrderConflict):
		status = http.StatusConflict
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: err.Error(),
		RayID:   rid,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID(c),
	})
}

func rayID(c *fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok {
		return rid
	}
	return "unknown"
}
