package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roti/internal/models"
	"roti/internal/pricing"
	"roti/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderLine is one requested line of a new order. An empty SizeID orders the
// product's default size.
type OrderLine struct {
	ProductID string `json:"product_id" validate:"required"`
	SizeID    string `json:"size_id"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	sizeRepo    repositories.ProductSizeRepository
	publisher   EventPublisher
	logger      *zap.Logger
	timeout     time.Duration
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	sizeRepo repositories.ProductSizeRepository,
	publisher EventPublisher,
	logger *zap.Logger,
	timeout time.Duration,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		sizeRepo:    sizeRepo,
		publisher:   publisher,
		logger:      logger,
		timeout:     timeout,
	}
}

// GetOrdersForUser retrieves the orders a user placed.
func (s *OrderService) GetOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return withRetry(ctx, s.timeout, func(ctx context.Context) ([]models.Order, error) {
		return s.orderRepo.ListByUser(ctx, userID)
	})
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order, err := withRetry(ctx, s.timeout, func(ctx context.Context) (*models.Order, error) {
		return s.orderRepo.GetByID(ctx, id)
	})
	return order, translate(err, repositories.ErrNotFound, ErrOrderNotFound)
}

// CreateOrder prices every line with the current product and size prices,
// stores the order and publishes an order.created event.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, lines []OrderLine) (*models.Order, error) {
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		unitPrice, sizeID, err := s.priceLine(ctx, line)
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			SizeID:    sizeID,
			Quantity:  line.Quantity,
			Price:     unitPrice,
		})
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &models.Order{
		ID:          uuid.New().String(),
		UserID:      userID,
		Items:       items,
		TotalAmount: total,
		Status:      models.OrderStatusPending,
	}
	attempts := 0
	err := execWithRetry(ctx, s.timeout, func(ctx context.Context) error {
		attempts++
		err := s.orderRepo.Create(ctx, order)
		if attempts > 1 && errors.Is(err, repositories.ErrDuplicate) {
			// The order ID is ours, so a duplicate means an earlier attempt committed.
			if _, getErr := s.orderRepo.GetByID(ctx, order.ID); getErr == nil {
				return nil
			}
		}
		return err
	})
	if err != nil {
		return nil, translate(err, repositories.ErrInsufficientStock, ErrInsufficientStock)
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("total", total.String()))
	publishJSON(s.publisher, s.logger, RoutingKeyOrderCreated, OrderCreatedEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
		Total:   order.TotalAmount,
		Items:   order.Items,
	})
	return order, nil
}

// priceLine resolves the unit price of a line from fresh store data, never
// from the configuration cache.
func (s *OrderService) priceLine(ctx context.Context, line OrderLine) (decimal.Decimal, *string, error) {
	product, err := withRetry(ctx, s.timeout, func(ctx context.Context) (*models.Product, error) {
		return s.productRepo.GetByID(ctx, line.ProductID)
	})
	if err != nil {
		return decimal.Zero, nil, translate(err, repositories.ErrNotFound, ErrProductNotFound)
	}
	if product.Stock < line.Quantity {
		return decimal.Zero, nil, fmt.Errorf("%w for product %s (requested: %d, available: %d)",
			ErrInsufficientStock, product.Name, line.Quantity, product.Stock)
	}

	options, err := withRetry(ctx, s.timeout, func(ctx context.Context) ([]models.ProductSize, error) {
		return s.sizeRepo.ListByProduct(ctx, line.ProductID)
	})
	if err != nil {
		return decimal.Zero, nil, err
	}

	in := pricing.InputsFor(product, options)
	if line.SizeID == "" {
		selection := pricing.ResolveInitialSelection(in)
		return selection.TotalPrice, selection.SizeID, nil
	}
	selection, err := pricing.SelectSize(in, line.SizeID)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("product %s: %w", line.ProductID, err)
	}
	return selection.TotalPrice, selection.SizeID, nil
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: %s", ErrInvalidOrderStatus, status)
	}

	err := execWithRetry(ctx, s.timeout, func(ctx context.Context) error {
		return s.orderRepo.UpdateStatus(ctx, id, status)
	})
	if err != nil {
		return translate(err, repositories.ErrNotFound, ErrOrderNotFound)
	}
	s.logger.Info("Order status updated", zap.String("order_id", id), zap.String("status", status))
	return nil
}
