package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/utils/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOrderForCart(t *testing.T, env *checkoutTestEnv, cart *models.Cart) *models.Order {
	t.Helper()

	order := &models.Order{
		UserID:          cart.UserID,
		CartID:          cart.ID,
		OrderNumber:     helpers.GenerateOrderNumber(),
		Status:          models.OrderStatusPending,
		ShippingName:    "Pat Tester",
		ShippingAddress: "123 Spud Lane",
		ShippingCity:    "Boise",
		ShippingState:   "ID",
		ShippingZip:     "83701",
		ShippingCountry: "United States",
		Email:           "pat@example.com",
		Subtotal:        decimal.NewFromFloat(4.99),
		Total:           decimal.NewFromFloat(4.99),
	}
	require.NoError(t, env.db.Create(order).Error)
	return order
}

func (e *checkoutTestEnv) getOrderDetail(t *testing.T, h *OrderHandler, orderNumber string, withCookies bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/orders/"+orderNumber, nil)
	req = mux.SetURLVars(req, map[string]string{"orderNumber": orderNumber})
	if withCookies {
		for _, c := range e.cookies {
			req.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	h.OrderDetail(rec, req)
	return rec
}

func TestOrderDetailHidesForeignOrders(t *testing.T) {
	env := setupCheckoutTest(t)
	orderRepo := repositories.NewOrderRepository(env.db)
	orderHandler := NewOrderHandler(env.cartHandler, orderRepo, renderer.New())

	cart := env.resolveCart(t)
	order := createOrderForCart(t, env, cart)

	// A request without the owner's session cookie resolves a fresh
	// cart and must not see the order, even with the exact number.
	rec := env.getOrderDetail(t, orderHandler, order.OrderNumber, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.getOrderDetail(t, orderHandler, order.OrderNumber, true)
	assert.NotEqual(t, http.StatusNotFound, rec.Code)
}

func TestOrderDetailUnknownNumber(t *testing.T) {
	env := setupCheckoutTest(t)
	orderRepo := repositories.NewOrderRepository(env.db)
	orderHandler := NewOrderHandler(env.cartHandler, orderRepo, renderer.New())

	env.resolveCart(t)
	rec := env.getOrderDetail(t, orderHandler, "SP-20260831-0000", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
