package repositories_test

import (
	"context"
	"testing"

	"roti/internal/models"
	"roti/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the production schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repositories.AutoMigrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, repositories.NewGORMProductRepository(db).Create(context.Background(), product))
	return product
}

func seedSize(t *testing.T, db *gorm.DB, name string, capacity int, surcharge string) *models.Size {
	t.Helper()
	size := &models.Size{Name: name, PersonCapacity: capacity, AdditionalPrice: decimal.RequireFromString(surcharge)}
	require.NoError(t, repositories.NewGORMSizeRepository(db).Create(context.Background(), size))
	return size
}
