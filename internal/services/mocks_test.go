package services_test

import (
	"context"

	"roti/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockSizeRepository is a mock implementation of repositories.SizeRepository
type MockSizeRepository struct {
	mock.Mock
}

func (m *MockSizeRepository) GetAll(ctx context.Context) ([]models.Size, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Size), args.Error(1)
}

func (m *MockSizeRepository) GetByID(ctx context.Context, id string) (*models.Size, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Size), args.Error(1)
}

func (m *MockSizeRepository) Create(ctx context.Context, size *models.Size) error {
	return m.Called(ctx, size).Error(0)
}

func (m *MockSizeRepository) Update(ctx context.Context, size *models.Size) error {
	return m.Called(ctx, size).Error(0)
}

func (m *MockSizeRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockProductSizeRepository is a mock implementation of repositories.ProductSizeRepository
type MockProductSizeRepository struct {
	mock.Mock
}

func (m *MockProductSizeRepository) ListByProduct(ctx context.Context, productID string) ([]models.ProductSize, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductSize), args.Error(1)
}

func (m *MockProductSizeRepository) Get(ctx context.Context, productID, sizeID string) (*models.ProductSize, error) {
	args := m.Called(ctx, productID, sizeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductSize), args.Error(1)
}

func (m *MockProductSizeRepository) Attach(ctx context.Context, option *models.ProductSize) error {
	return m.Called(ctx, option).Error(0)
}

func (m *MockProductSizeRepository) SetDefault(ctx context.Context, productID, sizeID string) (*models.ProductSize, error) {
	args := m.Called(ctx, productID, sizeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductSize), args.Error(1)
}

func (m *MockProductSizeRepository) ReplaceAll(ctx context.Context, productID string, sizeIDs []string, defaultSizeID string) ([]models.ProductSize, error) {
	args := m.Called(ctx, productID, sizeIDs, defaultSizeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductSize), args.Error(1)
}

func (m *MockProductSizeRepository) Detach(ctx context.Context, productID, sizeID string) error {
	return m.Called(ctx, productID, sizeID).Error(0)
}

func (m *MockProductSizeRepository) CountDefaults(ctx context.Context, productID string) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockInvalidator records configuration invalidations.
type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(productID string) {
	m.Called(productID)
}

func (m *MockInvalidator) InvalidateAll() {
	m.Called()
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	return m.Called(routingKey, body).Error(0)
}
