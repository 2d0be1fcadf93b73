package repositories

import (
	"context"
	"fmt"

	"roti/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMSizeRepository is a GORM implementation of SizeRepository.
type GORMSizeRepository struct {
	db *gorm.DB
}

// NewGORMSizeRepository creates a new instance of GORMSizeRepository.
func NewGORMSizeRepository(db *gorm.DB) *GORMSizeRepository {
	return &GORMSizeRepository{db: db}
}

// GetAll lists the size catalog, smallest first.
func (r *GORMSizeRepository) GetAll(ctx context.Context) ([]models.Size, error) {
	var sizes []models.Size
	if err := r.db.WithContext(ctx).Order("person_capacity ASC, name ASC").Find(&sizes).Error; err != nil {
		return nil, storeError("failed to get all sizes", err)
	}
	return sizes, nil
}

func (r *GORMSizeRepository) GetByID(ctx context.Context, id string) (*models.Size, error) {
	var size models.Size
	if err := r.db.WithContext(ctx).First(&size, "id = ?", id).Error; err != nil {
		return nil, storeError(fmt.Sprintf("failed to get size %s", id), err)
	}
	return &size, nil
}

func (r *GORMSizeRepository) Create(ctx context.Context, size *models.Size) error {
	if size.ID == "" {
		size.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(size).Error; err != nil {
		return storeError("failed to create size", err)
	}
	return nil
}

func (r *GORMSizeRepository) Update(ctx context.Context, size *models.Size) error {
	res := r.db.WithContext(ctx).Model(&models.Size{}).Where("id = ?", size.ID).Select("*").Omit("id", "created_at").Updates(size)
	if res.Error != nil {
		return storeError("failed to update size", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("size %s not found for update: %w", size.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a size that no product references any more.
func (r *GORMSizeRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.ProductSize{}).Where("size_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return fmt.Errorf("size %s is attached to %d products: %w", id, inUse, ErrInUse)
		}
		res := tx.Delete(&models.Size{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("size %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return storeError("failed to delete size", err)
	}
	return nil
}
