package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Wishlist has the same ownership rule as Cart: a logged-in user or an
// anonymous browser session, never neither.
type Wishlist struct {
	ID            string  `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID        *string `gorm:"size:36;index"`
	User          *User   `gorm:"foreignKey:UserID"`
	SessionKey    *string `gorm:"size:40;index;check:chk_wishlist_owner,user_id IS NOT NULL OR session_key IS NOT NULL"`
	WishlistItems []WishlistItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (wl *Wishlist) BeforeCreate(tx *gorm.DB) (err error) {
	if wl.ID == "" {
		wl.ID = uuid.New().String()
	}
	return
}

func (wl *Wishlist) Count() int {
	return len(wl.WishlistItems)
}
