package repositories

import (
	"context"
	"fmt"

	"roti/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products ordered by name.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error; err != nil {
		return nil, storeError("failed to get all products", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, storeError(fmt.Sprintf("failed to get product %s", id), err)
	}
	return &product, nil
}

// Create creates a new product.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return storeError("failed to create product", err)
	}
	return nil
}

// Update updates an existing product. Every column is written, including
// zero values such as a cleared offer.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Select("*").Omit("id", "created_at").Updates(product)
	if res.Error != nil {
		return storeError("failed to update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s not found for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product together with its size options.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductSize{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return storeError("failed to delete product", err)
	}
	return nil
}
