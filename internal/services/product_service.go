package services

import (
	"context"
	"fmt"
	"time"

	"roti/internal/models"
	"roti/internal/repositories"

	"go.uber.org/zap"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo        repositories.ProductRepository
	invalidator ConfigurationInvalidator
	logger      *zap.Logger
	timeout     time.Duration
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, invalidator ConfigurationInvalidator, logger *zap.Logger, timeout time.Duration) *ProductService {
	return &ProductService{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
		timeout:     timeout,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return withRetry(ctx, s.timeout, s.repo.GetAll)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := withRetry(ctx, s.timeout, func(ctx context.Context) (*models.Product, error) {
		return s.repo.GetByID(ctx, id)
	})
	return product, translate(err, repositories.ErrNotFound, ErrProductNotFound)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validatePrices(product); err != nil {
		return err
	}
	return execWithRetry(ctx, s.timeout, func(ctx context.Context) error {
		return s.repo.Create(ctx, product)
	})
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := validatePrices(product); err != nil {
		return err
	}
	err := execWithRetry(ctx, s.timeout, func(ctx context.Context) error {
		return s.repo.Update(ctx, product)
	})
	if err != nil {
		return translate(err, repositories.ErrNotFound, ErrProductNotFound)
	}
	s.invalidator.Invalidate(product.ID)
	return nil
}

// DeleteProduct deletes a product and its size assignments.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	err := execWithRetry(ctx, s.timeout, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return translate(err, repositories.ErrNotFound, ErrProductNotFound)
	}
	s.logger.Info("Product deleted", zap.String("product_id", id))
	s.invalidator.Invalidate(id)
	return nil
}

func validatePrices(product *models.Product) error {
	if product.Price.IsNegative() {
		return fmt.Errorf("%w: price %s", ErrInvalidPrice, product.Price)
	}
	if product.OfferPrice != nil && product.OfferPrice.IsNegative() {
		return fmt.Errorf("%w: offer price %s", ErrInvalidPrice, product.OfferPrice)
	}
	return nil
}
