package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem holds one product per cart; re-adding the same product
// increments Quantity instead of inserting a second row.
type CartItem struct {
	ID        string   `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CartID    string   `gorm:"size:36;not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	Cart      *Cart    `gorm:"foreignKey:CartID"`
	ProductID string   `gorm:"size:36;not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int      `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ci.ID == "" {
		ci.ID = uuid.New().String()
	}
	return
}

// TotalPrice is quantity times the product's current price. Requires
// Product to be preloaded.
func (ci *CartItem) TotalPrice() decimal.Decimal {
	if ci.Product == nil {
		return decimal.Zero
	}
	return ci.Product.CurrentPrice().Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
