package migrations

import (
	"github.com/soggypotatoes/shop/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}, &models.Cart{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{}, &models.Wishlist{}, &models.WishlistItem{}, &models.Review{})
}
