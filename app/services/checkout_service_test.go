package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/utils/calc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCheckoutService(db *gorm.DB) *CheckoutService {
	return NewCheckoutService(
		db,
		repositories.NewProductRepository(db),
		repositories.NewOrderRepository(db),
		repositories.NewOrderItemRepository(db),
	)
}

func testShippingDetails() ShippingDetails {
	return ShippingDetails{
		Name:    "Pat Tester",
		Address: "123 Spud Lane",
		City:    "Boise",
		State:   "ID",
		Zip:     "83701",
		Email:   "pat@example.com",
	}
}

func loadCartWithItems(t *testing.T, db *gorm.DB, cartID string) *models.Cart {
	t.Helper()
	cart, err := repositories.NewCartRepository(db).GetCartWithItems(context.Background(), cartID)
	require.NoError(t, err)
	require.NotNil(t, cart)
	return cart
}

func TestCreateOrderTotals(t *testing.T) {
	calc.SetTaxPercent(decimal.NewFromFloat(8.25))
	calc.SetShippingRates(decimal.NewFromFloat(5.00), decimal.NewFromFloat(50.00))
	defer calc.SetTaxPercent(decimal.Zero)

	db := setupTestDB(t)
	cartSvc := newCartService(db)
	svc := newCheckoutService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "grumpy-cat", 4.99, 10)
	cart := createTestCart(t, db)
	_, err := cartSvc.AddItem(ctx, cart.ID, product.ID, 2)
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, loadCartWithItems(t, db, cart.ID), testShippingDetails())
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.NewFromFloat(9.98)), "subtotal %s", order.Subtotal)
	assert.True(t, order.ShippingCost.Equal(decimal.NewFromFloat(5.00)), "shipping %s", order.ShippingCost)
	assert.True(t, order.Tax.Equal(decimal.NewFromFloat(0.82)), "tax %s", order.Tax)
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.ShippingCost).Add(order.Tax)), "total %s", order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, cart.ID, order.CartID)
}

func TestCreateOrderNumberFormat(t *testing.T) {
	db := setupTestDB(t)
	cartSvc := newCartService(db)
	svc := newCheckoutService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "pixel-heart", 1.99, 10)
	cart := createTestCart(t, db)
	_, err := cartSvc.AddItem(ctx, cart.ID, product.ID, 1)
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, loadCartWithItems(t, db, cart.ID), testShippingDetails())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^SP-\d{8}-\d{4}$`), order.OrderNumber)
}

func TestCreateOrderSnapshotsSurviveProductEdits(t *testing.T) {
	calc.SetShippingRates(decimal.NewFromFloat(5.00), decimal.NewFromFloat(50.00))

	db := setupTestDB(t)
	cartSvc := newCartService(db)
	svc := newCheckoutService(db)
	orderRepo := repositories.NewOrderRepository(db)
	ctx := context.Background()

	sticker := createTestProduct(t, db, "grumpy-cat", 4.99, 10)
	holo := createTestProduct(t, db, "cosmic-potato", 4.49, 10)
	cart := createTestCart(t, db)
	_, err := cartSvc.AddItem(ctx, cart.ID, sticker.ID, 1)
	require.NoError(t, err)
	_, err = cartSvc.AddItem(ctx, cart.ID, holo.ID, 2)
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, loadCartWithItems(t, db, cart.ID), testShippingDetails())
	require.NoError(t, err)
	require.True(t, order.Subtotal.Equal(decimal.NewFromFloat(13.97)), "subtotal %s", order.Subtotal)

	// Reprice and rename the products after the order exists.
	sticker.Price = decimal.NewFromFloat(9.99)
	sticker.Name = "Renamed Sticker"
	require.NoError(t, db.Save(sticker).Error)
	require.NoError(t, db.Delete(holo).Error)

	reloaded, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)

	assert.True(t, reloaded.Subtotal.Equal(decimal.NewFromFloat(13.97)), "subtotal changed to %s", reloaded.Subtotal)
	require.Len(t, reloaded.OrderItems, 2)
	for _, item := range reloaded.OrderItems {
		switch item.ProductName {
		case "grumpy-cat":
			assert.True(t, item.ProductPrice.Equal(decimal.NewFromFloat(4.99)))
		case "cosmic-potato":
			assert.True(t, item.ProductPrice.Equal(decimal.NewFromFloat(4.49)))
			assert.Equal(t, 2, item.Quantity)
		default:
			t.Fatalf("unexpected snapshot name %q", item.ProductName)
		}
	}
}

func TestCreateOrderRejectsOverStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newCheckoutService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "tiny-dino", 2.99, 2)
	cart := createTestCart(t, db)

	// Seed the line directly so the cart holds more than is in stock.
	item := &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 5}
	require.NoError(t, db.Create(item).Error)

	_, err := svc.CreateOrder(ctx, loadCartWithItems(t, db, cart.ID), testShippingDetails())
	assert.ErrorIs(t, err, ErrStockUnavailable)
	assert.Contains(t, err.Error(), "tiny-dino")

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "no order row may exist after a stock failure")
}

func TestCreateOrderLeavesStockAndCartAlone(t *testing.T) {
	db := setupTestDB(t)
	cartSvc := newCartService(db)
	svc := newCheckoutService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "moody-mushroom", 3.49, 8)
	cart := createTestCart(t, db)
	_, err := cartSvc.AddItem(ctx, cart.ID, product.ID, 3)
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, loadCartWithItems(t, db, cart.ID), testShippingDetails())
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 8, reloaded.Stock, "stock must not move until payment confirms")

	assert.Len(t, loadCartWithItems(t, db, cart.ID).CartItems, 1, "cart must survive checkout submission")
}

func TestCreateOrderEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	svc := newCheckoutService(db)

	_, err := svc.CreateOrder(context.Background(), nil, testShippingDetails())
	assert.Error(t, err)

	cart := createTestCart(t, db)
	_, err = svc.CreateOrder(context.Background(), loadCartWithItems(t, db, cart.ID), testShippingDetails())
	assert.Error(t, err)
}

func TestDeletePendingOrder(t *testing.T) {
	db := setupTestDB(t)
	cartSvc := newCartService(db)
	svc := newCheckoutService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "rainy-cloud", 2.49, 10)
	cart := createTestCart(t, db)
	_, err := cartSvc.AddItem(ctx, cart.ID, product.ID, 1)
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, loadCartWithItems(t, db, cart.ID), testShippingDetails())
	require.NoError(t, err)

	require.NoError(t, svc.DeletePendingOrder(ctx, order.ID))

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount, "cancelled pending order must leave no row")
	assert.Zero(t, itemCount)
}

func TestDeletePendingOrderRefusesFulfilled(t *testing.T) {
	db := setupTestDB(t)
	cartSvc := newCartService(db)
	svc := newCheckoutService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "synthwave-sunset", 6.99, 10)
	cart := createTestCart(t, db)
	_, err := cartSvc.AddItem(ctx, cart.ID, product.ID, 1)
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, loadCartWithItems(t, db, cart.ID), testShippingDetails())
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderStatusProcessing).Error)

	assert.Error(t, svc.DeletePendingOrder(ctx, order.ID))
}

func TestCreateOrderSubtotalWithoutPreloadedProducts(t *testing.T) {
	db := setupTestDB(t)
	svc := newCheckoutService(db)
	ctx := context.Background()

	productA := createTestProduct(t, db, "grumpy-cat", 3.99, 10)
	productB := createTestProduct(t, db, "happy-toast", 5.99, 10)
	cart := createTestCart(t, db)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.ID, ProductID: productA.ID, Quantity: 2}).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.ID, ProductID: productB.ID, Quantity: 1}).Error)

	// Items fetched without their Product association: the subtotal
	// must come from the per-item snapshots, not the cart's own sum.
	var bare models.Cart
	require.NoError(t, db.Preload("CartItems").First(&bare, "id = ?", cart.ID).Error)
	require.Nil(t, bare.CartItems[0].Product)

	order, err := svc.CreateOrder(ctx, &bare, testShippingDetails())
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.NewFromFloat(13.97)), "subtotal %s", order.Subtotal)
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.ShippingCost).Add(order.Tax)), "total %s", order.Total)
}
