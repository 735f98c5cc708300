package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart belongs to a logged-in user or to an anonymous browser session,
// never neither (check constraint below).
type Cart struct {
	ID         string  `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID     *string `gorm:"size:36;index"`
	User       *User   `gorm:"foreignKey:UserID"`
	SessionKey *string `gorm:"size:40;index;check:chk_cart_owner,user_id IS NOT NULL OR session_key IS NOT NULL"`
	CartItems  []CartItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c *Cart) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.CartItems {
		total += item.Quantity
	}
	return total
}

// Subtotal is recomputed from current product prices on every read,
// so sale-price changes are reflected immediately. Requires
// CartItems.Product to be preloaded.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.CartItems {
		subtotal = subtotal.Add(item.TotalPrice())
	}
	return subtotal
}
