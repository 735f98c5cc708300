package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductCurrentPrice(t *testing.T) {
	product := Product{Price: decimal.NewFromFloat(4.99)}
	assert.True(t, product.CurrentPrice().Equal(decimal.NewFromFloat(4.99)))
	assert.False(t, product.IsOnSale())

	product.SalePrice = decimal.NullDecimal{Decimal: decimal.NewFromFloat(3.49), Valid: true}
	assert.True(t, product.CurrentPrice().Equal(decimal.NewFromFloat(3.49)))
	assert.True(t, product.IsOnSale())

	// A "sale" price at or above the regular price is ignored.
	product.SalePrice = decimal.NullDecimal{Decimal: decimal.NewFromFloat(6.00), Valid: true}
	assert.True(t, product.CurrentPrice().Equal(decimal.NewFromFloat(4.99)))
	assert.False(t, product.IsOnSale())
}

func TestProductInStock(t *testing.T) {
	tracked := Product{TrackInventory: true, Stock: 0}
	assert.False(t, tracked.InStock())

	tracked.Stock = 3
	assert.True(t, tracked.InStock())

	untracked := Product{TrackInventory: false, Stock: 0}
	assert.True(t, untracked.InStock())
}

func TestCartSubtotalUsesCurrentPrices(t *testing.T) {
	sticker := &Product{
		Name:  "Grumpy Cat Vinyl Sticker",
		Price: decimal.NewFromFloat(4.99),
	}

	cart := Cart{
		CartItems: []CartItem{
			{Product: sticker, Quantity: 2},
		},
	}

	assert.True(t, cart.Subtotal().Equal(decimal.NewFromFloat(9.98)), "got %s", cart.Subtotal())
	assert.Equal(t, 2, cart.TotalItems())

	sticker.SalePrice = decimal.NullDecimal{Decimal: decimal.NewFromFloat(3.99), Valid: true}
	assert.True(t, cart.Subtotal().Equal(decimal.NewFromFloat(7.98)), "got %s", cart.Subtotal())
}

func TestCartItemTotalPriceWithoutProduct(t *testing.T) {
	item := CartItem{Quantity: 5}
	assert.True(t, item.TotalPrice().IsZero())
}

func TestOrderItemTotalPrice(t *testing.T) {
	item := OrderItem{ProductPrice: decimal.NewFromFloat(3.49), Quantity: 4}
	assert.True(t, item.TotalPrice().Equal(decimal.NewFromFloat(13.96)))
}
