package repositories

import (
	"context"

	"roti/internal/models"
)

// ProductSizeRepository stores the sizes attached to each product.
//
// Implementations keep two invariants at every committed state: a product has
// at most one default option, and a size is attached to a product at most
// once. Listing returns options joined with their Size, in position order.
type ProductSizeRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]models.ProductSize, error)
	Get(ctx context.Context, productID, sizeID string) (*models.ProductSize, error)
	// Attach inserts option at the end of the product's sequence. A default
	// option clears the previous default in the same transaction.
	Attach(ctx context.Context, option *models.ProductSize) error
	// SetDefault flags sizeID as the product's only default.
	SetDefault(ctx context.Context, productID, sizeID string) (*models.ProductSize, error)
	// ReplaceAll swaps the product's whole option set for sizeIDs, in order.
	ReplaceAll(ctx context.Context, productID string, sizeIDs []string, defaultSizeID string) ([]models.ProductSize, error)
	Detach(ctx context.Context, productID, sizeID string) error
	CountDefaults(ctx context.Context, productID string) (int64, error)
}
