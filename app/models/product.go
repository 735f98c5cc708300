package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	CategoryID  *string   `gorm:"size:36;index"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Name        string    `gorm:"size:200;not null"`
	Slug        string    `gorm:"size:200;not null;uniqueIndex"`
	Description string    `gorm:"type:text"`

	Price     decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	SalePrice decimal.NullDecimal `gorm:"type:decimal(10,2)"`

	// Stock is only enforced while TrackInventory is set; it may go negative
	// when a confirmed payment fulfils an oversold order.
	Stock          int  `gorm:"not null;default:0"`
	TrackInventory bool `gorm:"not null;default:false"`

	IsActive   bool `gorm:"not null;default:true"`
	IsFeatured bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// CurrentPrice returns the sale price while it undercuts the regular price.
func (p *Product) CurrentPrice() decimal.Decimal {
	if p.SalePrice.Valid && p.SalePrice.Decimal.LessThan(p.Price) {
		return p.SalePrice.Decimal
	}
	return p.Price
}

func (p *Product) IsOnSale() bool {
	return p.SalePrice.Valid && p.SalePrice.Decimal.LessThan(p.Price)
}

// InStock always reports true for products that do not track inventory.
func (p *Product) InStock() bool {
	if !p.TrackInventory {
		return true
	}
	return p.Stock > 0
}
