package repositories

import (
	"context"

	"github.com/soggypotatoes/shop/app/models"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error
	PurchasedByCart(ctx context.Context, cartID, productID string) (bool, error)
}

type OrderItemRepositoryImpl struct {
	DB *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &OrderItemRepositoryImpl{DB: db}
}

func (r *OrderItemRepositoryImpl) BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

// PurchasedByCart reports whether the cart has a confirmed order
// containing the product. Pending and cancelled orders do not count.
func (r *OrderItemRepositoryImpl) PurchasedByCart(ctx context.Context, cartID, productID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.cart_id = ? AND order_items.product_id = ?", cartID, productID).
		Where("orders.status IN ?", []models.OrderStatus{
			models.OrderStatusProcessing,
			models.OrderStatusShipped,
			models.OrderStatusDelivered,
		}).
		Count(&count).Error
	return count > 0, err
}
