package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/models/migrations"
	"github.com/soggypotatoes/shop/app/payments"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/services"
	"github.com/soggypotatoes/shop/app/utils/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type checkoutTestEnv struct {
	db              *gorm.DB
	cartHandler     *CartHandler
	checkoutHandler *CheckoutHandler
	cookies         []*http.Cookie
}

func setupCheckoutTest(t *testing.T) *checkoutTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrations.AutoMigrate(db))

	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)

	gateway := payments.NewAutoConfirmGateway()
	cartSvc := services.NewCartService(cartRepo, cartItemRepo, productRepo)
	checkoutSvc := services.NewCheckoutService(db, productRepo, orderRepo, orderItemRepo)
	fulfillmentSvc := services.NewFulfillmentService(db, orderRepo, productRepo, cartItemRepo, gateway, nil)

	render := renderer.New()
	cartHandler := NewCartHandler(cartRepo, productRepo, cartSvc, render)
	checkoutHandler := NewCheckoutHandler(cartHandler, cartRepo, checkoutSvc, fulfillmentSvc, gateway, render, "http://shop.test")

	return &checkoutTestEnv{
		db:              db,
		cartHandler:     cartHandler,
		checkoutHandler: checkoutHandler,
	}
}

// resolveCart runs one request through the cart handler to mint the
// session cookie, keeping it for the requests that follow.
func (e *checkoutTestEnv) resolveCart(t *testing.T) *models.Cart {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()

	cart, err := e.cartHandler.ResolveCart(rec, req)
	require.NoError(t, err)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return cart
}

func (e *checkoutTestEnv) postCheckout(t *testing.T, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.checkoutHandler.Checkout(rec, req)
	return rec
}

func checkoutForm() url.Values {
	return url.Values{
		"name":    {"Pat Tester"},
		"email":   {"pat@example.com"},
		"address": {"123 Spud Lane"},
		"city":    {"Boise"},
		"state":   {"ID"},
		"zip":     {"83701"},
	}
}

func TestCheckoutAutoConfirmFulfilsInOneRequest(t *testing.T) {
	env := setupCheckoutTest(t)

	product := &models.Product{
		Name:           "Grumpy Cat Vinyl Sticker",
		Slug:           "grumpy-cat-vinyl",
		Price:          decimal.NewFromFloat(4.99),
		Stock:          10,
		TrackInventory: true,
		IsActive:       true,
	}
	require.NoError(t, env.db.Create(product).Error)

	cart := env.resolveCart(t)
	item := &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, env.db.Create(item).Error)

	rec := env.postCheckout(t, checkoutForm())
	require.Equal(t, http.StatusSeeOther, rec.Code, "body: %s", rec.Body.String())

	location := rec.Header().Get("Location")
	assert.Contains(t, location, "/orders/SP-")
	assert.Contains(t, location, "status=success")

	var order models.Order
	require.NoError(t, env.db.Preload("OrderItems").First(&order).Error)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.NotNil(t, order.PaidAt)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, 2, order.OrderItems[0].Quantity)

	var reloaded models.Product
	require.NoError(t, env.db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 8, reloaded.Stock)

	var itemCount int64
	require.NoError(t, env.db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount, "cart must be emptied by inline fulfilment")
}

func TestCheckoutRejectsInvalidForm(t *testing.T) {
	env := setupCheckoutTest(t)

	product := &models.Product{
		Name:     "Pixel Heart Sticker",
		Slug:     "pixel-heart",
		Price:    decimal.NewFromFloat(1.99),
		IsActive: true,
	}
	require.NoError(t, env.db.Create(product).Error)

	cart := env.resolveCart(t)
	item := &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, env.db.Create(item).Error)

	form := checkoutForm()
	form.Set("email", "not-an-email")

	rec := env.postCheckout(t, form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/checkout?status=error")

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckoutOverStockCreatesNoOrder(t *testing.T) {
	env := setupCheckoutTest(t)

	product := &models.Product{
		Name:           "Tiny Dinosaur Sticker",
		Slug:           "tiny-dino",
		Price:          decimal.NewFromFloat(2.99),
		Stock:          1,
		TrackInventory: true,
		IsActive:       true,
	}
	require.NoError(t, env.db.Create(product).Error)

	cart := env.resolveCart(t)
	item := &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 5}
	require.NoError(t, env.db.Create(item).Error)

	rec := env.postCheckout(t, checkoutForm())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/cart?status=error")

	var count int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}
