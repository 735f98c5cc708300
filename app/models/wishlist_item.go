package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistItem holds one product per wishlist; toggling an already
// saved product removes the row instead of duplicating it.
type WishlistItem struct {
	ID         string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	WishlistID string    `gorm:"size:36;not null;uniqueIndex:idx_wishlist_product"`
	Wishlist   *Wishlist `gorm:"foreignKey:WishlistID"`
	ProductID  string    `gorm:"size:36;not null;uniqueIndex:idx_wishlist_product"`
	Product    *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
}

func (wi *WishlistItem) BeforeCreate(tx *gorm.DB) (err error) {
	if wi.ID == "" {
		wi.ID = uuid.New().String()
	}
	return
}
