package repositories

import (
	"context"

	"roti/internal/models"
)

// SizeRepository defines the interface for size catalog data access.
type SizeRepository interface {
	GetAll(ctx context.Context) ([]models.Size, error)
	GetByID(ctx context.Context, id string) (*models.Size, error)
	Create(ctx context.Context, size *models.Size) error
	Update(ctx context.Context, size *models.Size) error
	Delete(ctx context.Context, id string) error
}
