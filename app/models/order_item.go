package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is an immutable snapshot of a cart line at order-creation
// time. ProductName and ProductPrice survive later product edits and
// deletions (ProductID goes NULL when the product is removed).
type OrderItem struct {
	ID           string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID      string          `gorm:"size:36;not null;index" json:"order_id"`
	Order        *Order          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ProductID    *string         `gorm:"size:36;index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	ProductName  string          `gorm:"size:200;not null" json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"product_price"`
	Quantity     int             `gorm:"not null;default:1" json:"quantity"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}

func (oi *OrderItem) TotalPrice() decimal.Decimal {
	return oi.ProductPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
