package handlers

import (
	"fmt"

	"roti/internal/middleware"
	"roti/internal/models"
	"roti/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the customer order routes behind auth and the
// status update on admin.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler, admin fiber.Router) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)

	admin.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)
}

// CreateOrderRequest represents the request body for placing an order.
type CreateOrderRequest struct {
	Items []services.OrderLine `json:"items" validate:"required,min=1,dive"`
}

// HandleGetOrders lists the orders of the authenticated user.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrdersForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve orders", err)
	}
	return success(c, fiber.StatusOK, "Orders retrieved", orders)
}

// HandleGetOrderByID retrieves a single order. Customers only see their own
// orders; other orders are reported as missing.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(c.UserContext(), orderID)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve order", err)
	}
	if role, _ := c.Locals(middleware.LocalRole).(string); order.UserID != middleware.UserID(c) && role != models.RoleAdmin {
		return respondError(c, h.logger, "Could not retrieve order", fmt.Errorf("order %s: %w", orderID, services.ErrOrderNotFound))
	}
	return success(c, fiber.StatusOK, "Order retrieved", order)
}

// HandleCreateOrder places an order for the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, "Could not create order", err)
	}

	order, err := h.service.CreateOrder(c.UserContext(), middleware.UserID(c), req.Items)
	if err != nil {
		return respondError(c, h.logger, "Could not create order", err)
	}
	return success(c, fiber.StatusCreated, "Order created", order)
}

// UpdateOrderStatusRequest represents the request body for a status change.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req UpdateOrderStatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.logger, "Could not update order status", err)
	}

	if err := h.service.UpdateOrderStatus(c.UserContext(), orderID, req.Status); err != nil {
		return respondError(c, h.logger, "Could not update order status", err)
	}
	return success(c, fiber.StatusOK, fmt.Sprintf("Order %s status updated successfully to %s", orderID, req.Status), nil)
}
