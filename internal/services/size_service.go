package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roti/internal/models"
	"roti/internal/repositories"

	"go.uber.org/zap"
)

// SizeService manages the size catalog.
type SizeService struct {
	repo        repositories.SizeRepository
	invalidator ConfigurationInvalidator
	logger      *zap.Logger
	timeout     time.Duration
}

// NewSizeService creates a new SizeService.
func NewSizeService(repo repositories.SizeRepository, invalidator ConfigurationInvalidator, logger *zap.Logger, timeout time.Duration) *SizeService {
	return &SizeService{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
		timeout:     timeout,
	}
}

// GetAllSizes lists the catalog, smallest first.
func (s *SizeService) GetAllSizes(ctx context.Context) ([]models.Size, error) {
	return withRetry(ctx, s.timeout, s.repo.GetAll)
}

// GetSizeByID retrieves a single size.
func (s *SizeService) GetSizeByID(ctx context.Context, id string) (*models.Size, error) {
	size, err := withRetry(ctx, s.timeout, func(ctx context.Context) (*models.Size, error) {
		return s.repo.GetByID(ctx, id)
	})
	return size, translate(err, repositories.ErrNotFound, ErrSizeNotFound)
}

// CreateSize adds a size to the catalog.
func (s *SizeService) CreateSize(ctx context.Context, size *models.Size) error {
	if err := validateSize(size); err != nil {
		return err
	}
	return execWithRetry(ctx, s.timeout, func(ctx context.Context) error {
		return s.repo.Create(ctx, size)
	})
}

// UpdateSize changes a size. Every product configuration may carry the old
// additional price, so all of them are invalidated.
func (s *SizeService) UpdateSize(ctx context.Context, size *models.Size) error {
	if err := validateSize(size); err != nil {
		return err
	}
	err := execWithRetry(ctx, s.timeout, func(ctx context.Context) error {
		return s.repo.Update(ctx, size)
	})
	if err != nil {
		return translate(err, repositories.ErrNotFound, ErrSizeNotFound)
	}
	s.invalidator.InvalidateAll()
	return nil
}

// DeleteSize removes a size no product uses any more.
func (s *SizeService) DeleteSize(ctx context.Context, id string) error {
	err := execWithRetry(ctx, s.timeout, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		err = translate(err, repositories.ErrInUse, ErrSizeInUse)
		return translate(err, repositories.ErrNotFound, ErrSizeNotFound)
	}
	s.logger.Info("Size deleted", zap.String("size_id", id))
	return nil
}

func validateSize(size *models.Size) error {
	switch {
	case strings.TrimSpace(size.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidSize)
	case size.PersonCapacity <= 0:
		return fmt.Errorf("%w: person capacity must be positive", ErrInvalidSize)
	case size.AdditionalPrice.IsNegative():
		return fmt.Errorf("%w: additional price %s", ErrInvalidPrice, size.AdditionalPrice)
	}
	return nil
}
