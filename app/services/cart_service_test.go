package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCartService(db *gorm.DB) *CartService {
	return NewCartService(
		repositories.NewCartRepository(db),
		repositories.NewCartItemRepository(db),
		repositories.NewProductRepository(db),
	)
}

func TestCartServiceAddItem(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "grumpy-cat", 4.99, 10)
	cart := createTestCart(t, db)

	updated, err := svc.AddItem(ctx, cart.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, updated.CartItems, 1)
	assert.Equal(t, 2, updated.CartItems[0].Quantity)
	assert.True(t, updated.Subtotal().Equal(decimal.NewFromFloat(9.98)), "got %s", updated.Subtotal())
}

func TestCartServiceAddSameProductIncrements(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "cosmic-potato", 3.49, 10)
	cart := createTestCart(t, db)

	_, err := svc.AddItem(ctx, cart.ID, product.ID, 1)
	require.NoError(t, err)
	updated, err := svc.AddItem(ctx, cart.ID, product.ID, 2)
	require.NoError(t, err)

	require.Len(t, updated.CartItems, 1, "re-adding must not create a second row")
	assert.Equal(t, 3, updated.CartItems[0].Quantity)
}

func TestCartServiceAddItemInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "tiny-dino", 2.99, 3)
	cart := createTestCart(t, db)

	_, err := svc.AddItem(ctx, cart.ID, product.ID, 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Cumulative quantity across calls is what gets checked.
	_, err = svc.AddItem(ctx, cart.ID, product.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cart.ID, product.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartServiceAddItemIgnoresUntrackedStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "print-on-demand", 5.99, 0)
	product.TrackInventory = false
	require.NoError(t, db.Save(product).Error)
	cart := createTestCart(t, db)

	updated, err := svc.AddItem(ctx, cart.ID, product.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, updated.CartItems[0].Quantity)
}

func TestCartServiceUpdateQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "disco-frog", 4.99, 10)
	cart := createTestCart(t, db)

	updated, err := svc.AddItem(ctx, cart.ID, product.ID, 1)
	require.NoError(t, err)
	itemID := updated.CartItems[0].ID

	updated, err = svc.UpdateQuantity(ctx, cart.ID, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.CartItems[0].Quantity)

	_, err = svc.UpdateQuantity(ctx, cart.ID, itemID, 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartServiceUpdateQuantityZeroRemoves(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "pixel-heart", 1.99, 10)
	cart := createTestCart(t, db)

	updated, err := svc.AddItem(ctx, cart.ID, product.ID, 2)
	require.NoError(t, err)
	itemID := updated.CartItems[0].ID

	updated, err = svc.UpdateQuantity(ctx, cart.ID, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, updated.CartItems)
}

func TestCartServiceUpdateQuantityWrongCart(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "lofi-raccoon", 4.49, 10)
	cart := createTestCart(t, db)

	otherKey := "other-session-" + t.Name()
	otherCart, err := repositories.NewCartRepository(db).GetOrCreateBySessionKey(ctx, otherKey)
	require.NoError(t, err)

	updated, err := svc.AddItem(ctx, cart.ID, product.ID, 1)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, otherCart.ID, updated.CartItems[0].ID, 3)
	assert.Error(t, err)
}

func TestCartServiceRemoveItem(t *testing.T) {
	db := setupTestDB(t)
	svc := newCartService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "sleepy-sloth", 3.99, 10)
	cart := createTestCart(t, db)

	updated, err := svc.AddItem(ctx, cart.ID, product.ID, 1)
	require.NoError(t, err)

	updated, err = svc.RemoveItem(ctx, cart.ID, updated.CartItems[0].ID)
	require.NoError(t, err)
	assert.Empty(t, updated.CartItems)
}
