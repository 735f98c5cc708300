package services

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/models/migrations"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database per test. The shared
// cache keeps it alive across gorm's pooled connections.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrations.AutoMigrate(db))

	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:           name,
		Slug:           fmt.Sprintf("%s-%s", t.Name(), name),
		Price:          decimal.NewFromFloat(price),
		Stock:          stock,
		TrackInventory: true,
		IsActive:       true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createTestCart(t *testing.T, db *gorm.DB) *models.Cart {
	t.Helper()

	sessionKey := "session-" + t.Name()
	cart := &models.Cart{SessionKey: &sessionKey}
	require.NoError(t, db.Create(cart).Error)
	return cart
}
