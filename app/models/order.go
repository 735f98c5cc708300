package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is created in pending state at checkout submission. Cancelled
// pending orders are deleted outright, so there is no soft delete here.
type Order struct {
	ID     string  `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID *string `gorm:"size:36;index"`
	User   *User   `gorm:"foreignKey:UserID"`

	// CartID records the originating cart so webhook-path fulfilment can
	// clear anonymous session carts without a request cookie.
	CartID string `gorm:"size:36;index"`

	OrderNumber string      `gorm:"size:20;not null;uniqueIndex" json:"order_number"`
	Status      OrderStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	ShippingName    string `gorm:"size:100;not null"`
	ShippingAddress string `gorm:"type:text;not null"`
	ShippingCity    string `gorm:"size:100;not null"`
	ShippingState   string `gorm:"size:100;not null"`
	ShippingZip     string `gorm:"size:20;not null"`
	ShippingCountry string `gorm:"size:100;not null;default:'United States'"`

	Email string `gorm:"size:100;not null"`
	Phone string `gorm:"size:20"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Tax          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	StripeCheckoutSessionID string `gorm:"size:100;index"`
	StripePaymentIntentID   string `gorm:"size:100;index"`
	PaidAt                  *time.Time

	OrderItems []OrderItem

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}
