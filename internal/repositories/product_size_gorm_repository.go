package repositories

import (
	"context"
	"fmt"

	"roti/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductSizeRepository is a GORM implementation of ProductSizeRepository.
type GORMProductSizeRepository struct {
	db *gorm.DB
}

// NewGORMProductSizeRepository creates a new instance of GORMProductSizeRepository.
func NewGORMProductSizeRepository(db *gorm.DB) *GORMProductSizeRepository {
	return &GORMProductSizeRepository{db: db}
}

func (r *GORMProductSizeRepository) ListByProduct(ctx context.Context, productID string) ([]models.ProductSize, error) {
	options, err := listOptions(r.db.WithContext(ctx), productID)
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to list sizes of product %s", productID), err)
	}
	return options, nil
}

func (r *GORMProductSizeRepository) Get(ctx context.Context, productID, sizeID string) (*models.ProductSize, error) {
	var option models.ProductSize
	err := r.db.WithContext(ctx).Preload("Size").
		Where("product_id = ? AND size_id = ?", productID, sizeID).
		First(&option).Error
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to get size %s of product %s", sizeID, productID), err)
	}
	return &option, nil
}

func (r *GORMProductSizeRepository) Attach(ctx context.Context, option *models.ProductSize) error {
	if option.ID == "" {
		option.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		row := tx.Model(&models.ProductSize{}).
			Where("product_id = ?", option.ProductID).
			Select("COALESCE(MAX(position), -1) + 1").
			Row()
		if err := row.Scan(&next); err != nil {
			return err
		}
		option.Position = next

		if option.IsDefault {
			if err := clearDefault(tx, option.ProductID); err != nil {
				return err
			}
		}
		if err := tx.Omit("Size").Create(option).Error; err != nil {
			return err
		}
		return tx.Preload("Size").First(option, "id = ?", option.ID).Error
	})
	if err != nil {
		return storeError(fmt.Sprintf("failed to attach size %s to product %s", option.SizeID, option.ProductID), err)
	}
	return nil
}

// SetDefault runs the clear-and-set as a single UPDATE inside a transaction,
// so no reader observes zero or two defaults.
func (r *GORMProductSizeRepository) SetDefault(ctx context.Context, productID, sizeID string) (*models.ProductSize, error) {
	var option models.ProductSize
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ? AND size_id = ?", productID, sizeID).First(&option).Error; err != nil {
			return err
		}
		err := tx.Model(&models.ProductSize{}).
			Where("product_id = ?", productID).
			Update("is_default", gorm.Expr("size_id = ?", sizeID)).Error
		if err != nil {
			return err
		}
		return tx.Preload("Size").First(&option, "id = ?", option.ID).Error
	})
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to set default size %s of product %s", sizeID, productID), err)
	}
	return &option, nil
}

func (r *GORMProductSizeRepository) ReplaceAll(ctx context.Context, productID string, sizeIDs []string, defaultSizeID string) ([]models.ProductSize, error) {
	var options []models.ProductSize
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductSize{}).Error; err != nil {
			return err
		}
		if len(sizeIDs) > 0 {
			rows := make([]models.ProductSize, 0, len(sizeIDs))
			for i, sizeID := range sizeIDs {
				rows = append(rows, models.ProductSize{
					ID:        uuid.New().String(),
					ProductID: productID,
					SizeID:    sizeID,
					IsDefault: sizeID == defaultSizeID,
					Position:  i,
				})
			}
			if err := tx.Omit("Size").Create(&rows).Error; err != nil {
				return err
			}
		}
		var err error
		options, err = listOptions(tx, productID)
		return err
	})
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to replace sizes of product %s", productID), err)
	}
	return options, nil
}

func (r *GORMProductSizeRepository) Detach(ctx context.Context, productID, sizeID string) error {
	res := r.db.WithContext(ctx).
		Where("product_id = ? AND size_id = ?", productID, sizeID).
		Delete(&models.ProductSize{})
	if res.Error != nil {
		return storeError(fmt.Sprintf("failed to detach size %s from product %s", sizeID, productID), res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("size %s is not attached to product %s: %w", sizeID, productID, ErrNotFound)
	}
	return nil
}

func (r *GORMProductSizeRepository) CountDefaults(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductSize{}).
		Where("product_id = ? AND is_default = ?", productID, true).
		Count(&count).Error
	if err != nil {
		return 0, storeError(fmt.Sprintf("failed to count default sizes of product %s", productID), err)
	}
	return count, nil
}

func listOptions(db *gorm.DB, productID string) ([]models.ProductSize, error) {
	var options []models.ProductSize
	err := db.Preload("Size").
		Where("product_id = ?", productID).
		Order("position ASC, created_at ASC").
		Find(&options).Error
	return options, err
}

func clearDefault(tx *gorm.DB, productID string) error {
	return tx.Model(&models.ProductSize{}).
		Where("product_id = ? AND is_default = ?", productID, true).
		Update("is_default", false).Error
}
