package repositories

import (
	"context"

	"roti/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// Create stores the order and takes its quantities out of product stock
	// atomically.
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, status string) error
}
