package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roti/internal/models"
	"roti/internal/repositories"

	"go.uber.org/zap"
)

// ProductSizeService assigns catalog sizes to products and maintains which
// one is the product's default.
type ProductSizeService struct {
	repo        repositories.ProductSizeRepository
	sizes       repositories.SizeRepository
	products    repositories.ProductRepository
	invalidator ConfigurationInvalidator
	logger      *zap.Logger
	timeout     time.Duration
}

// NewProductSizeService creates a new ProductSizeService.
func NewProductSizeService(
	repo repositories.ProductSizeRepository,
	sizes repositories.SizeRepository,
	products repositories.ProductRepository,
	invalidator ConfigurationInvalidator,
	logger *zap.Logger,
	timeout time.Duration,
) *ProductSizeService {
	return &ProductSizeService{
		repo:        repo,
		sizes:       sizes,
		products:    products,
		invalidator: invalidator,
		logger:      logger,
		timeout:     timeout,
	}
}

// ListSizes returns the sizes attached to a product in display order.
func (s *ProductSizeService) ListSizes(ctx context.Context, productID string) ([]models.ProductSize, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	return withRetry(ctx, s.timeout, func(ctx context.Context) ([]models.ProductSize, error) {
		return s.repo.ListByProduct(ctx, productID)
	})
}

// AttachSize attaches sizeID to a product. Attaching as default takes the
// default flag away from the previous default.
func (s *ProductSizeService) AttachSize(ctx context.Context, productID, sizeID string, isDefault bool) (*models.ProductSize, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.ensureSize(ctx, sizeID); err != nil {
		return nil, err
	}

	attempts := 0
	option, err := withRetry(ctx, s.timeout, func(ctx context.Context) (*models.ProductSize, error) {
		attempts++
		option := &models.ProductSize{ProductID: productID, SizeID: sizeID, IsDefault: isDefault}
		err := s.repo.Attach(ctx, option)
		if attempts > 1 && errors.Is(err, repositories.ErrDuplicate) {
			// The failed attempt may have committed before its error surfaced.
			if existing, getErr := s.repo.Get(ctx, productID, sizeID); getErr == nil && existing.IsDefault == isDefault {
				return existing, nil
			}
		}
		return option, err
	})
	if err != nil {
		// A size deleted after ensureSize fails the foreign key.
		err = translate(err, repositories.ErrInUse, ErrSizeNotFound)
		return nil, translate(err, repositories.ErrDuplicate, ErrDuplicateVariant)
	}

	s.logger.Info("Size attached to product",
		zap.String("product_id", productID),
		zap.String("size_id", sizeID),
		zap.Bool("is_default", isDefault))
	s.afterMutation(ctx, productID)
	return option, nil
}

// SetDefaultSize makes sizeID the product's only default.
func (s *ProductSizeService) SetDefaultSize(ctx context.Context, productID, sizeID string) (*models.ProductSize, error) {
	option, err := withRetry(ctx, s.timeout, func(ctx context.Context) (*models.ProductSize, error) {
		return s.repo.SetDefault(ctx, productID, sizeID)
	})
	if err != nil {
		return nil, translate(err, repositories.ErrNotFound, ErrVariantNotFound)
	}

	s.logger.Info("Default size changed", zap.String("product_id", productID), zap.String("size_id", sizeID))
	s.afterMutation(ctx, productID)
	return option, nil
}

// ReplaceAllSizes swaps the product's sizes for sizeIDs, in order, flagging
// defaultSizeID as default. A defaultSizeID outside sizeIDs leaves the
// product without a default and the storefront falls back to the first size.
func (s *ProductSizeService) ReplaceAllSizes(ctx context.Context, productID string, sizeIDs []string, defaultSizeID string) ([]models.ProductSize, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(sizeIDs))
	for _, sizeID := range sizeIDs {
		if seen[sizeID] {
			return nil, fmt.Errorf("size %s listed twice: %w", sizeID, ErrDuplicateVariant)
		}
		seen[sizeID] = true
		if err := s.ensureSize(ctx, sizeID); err != nil {
			return nil, err
		}
	}
	if len(sizeIDs) > 0 && !seen[defaultSizeID] {
		s.logger.Warn("Default size is not among the replacement sizes, product will have no default",
			zap.String("product_id", productID),
			zap.String("default_size_id", defaultSizeID))
	}

	options, err := withRetry(ctx, s.timeout, func(ctx context.Context) ([]models.ProductSize, error) {
		return s.repo.ReplaceAll(ctx, productID, sizeIDs, defaultSizeID)
	})
	if err != nil {
		err = translate(err, repositories.ErrInUse, ErrSizeNotFound)
		return nil, translate(err, repositories.ErrDuplicate, ErrDuplicateVariant)
	}

	s.logger.Info("Product sizes replaced", zap.String("product_id", productID), zap.Strings("size_ids", sizeIDs))
	s.afterMutation(ctx, productID)
	return options, nil
}

// DetachSize removes sizeID from a product. Detaching the default leaves the
// product without one.
func (s *ProductSizeService) DetachSize(ctx context.Context, productID, sizeID string) error {
	err := execWithRetry(ctx, s.timeout, func(ctx context.Context) error {
		return s.repo.Detach(ctx, productID, sizeID)
	})
	if err != nil {
		return translate(err, repositories.ErrNotFound, ErrVariantNotFound)
	}

	s.logger.Info("Size detached from product", zap.String("product_id", productID), zap.String("size_id", sizeID))
	s.afterMutation(ctx, productID)
	return nil
}

// afterMutation invalidates the product's cached configuration and reports a
// broken default invariant. Neither outcome changes the committed result.
func (s *ProductSizeService) afterMutation(ctx context.Context, productID string) {
	s.invalidator.Invalidate(productID)

	defaults, err := withRetry(ctx, s.timeout, func(ctx context.Context) (int64, error) {
		return s.repo.CountDefaults(ctx, productID)
	})
	if err != nil {
		s.logger.Warn("Could not verify default size", zap.String("product_id", productID), zap.Error(err))
		return
	}
	if defaults > 1 {
		s.logger.Error("Product has more than one default size",
			zap.String("product_id", productID),
			zap.Int64("defaults", defaults))
	}
}

func (s *ProductSizeService) ensureProduct(ctx context.Context, productID string) error {
	_, err := withRetry(ctx, s.timeout, func(ctx context.Context) (*models.Product, error) {
		return s.products.GetByID(ctx, productID)
	})
	return translate(err, repositories.ErrNotFound, ErrProductNotFound)
}

func (s *ProductSizeService) ensureSize(ctx context.Context, sizeID string) error {
	_, err := withRetry(ctx, s.timeout, func(ctx context.Context) (*models.Size, error) {
		return s.sizes.GetByID(ctx, sizeID)
	})
	return translate(err, repositories.ErrNotFound, ErrSizeNotFound)
}
