package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/soggypotatoes/shop/app/models"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindByCheckoutSessionID(ctx context.Context, sessionID string) (*models.Order, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error)
	FindPendingByCartID(ctx context.Context, cartID string) (*models.Order, error)
	FindByCartID(ctx context.Context, cartID string) ([]models.Order, error)
	SetCheckoutSession(ctx context.Context, orderID, sessionID string) error
	MarkProcessing(ctx context.Context, tx *gorm.DB, orderID, paymentIntentID string, paidAt time.Time) (bool, error)
	MarkCancelled(ctx context.Context, orderID string) (bool, error)
	DeleteWithItems(ctx context.Context, tx *gorm.DB, orderID string) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *gormOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return r.findOne(ctx, "order_number = ?", orderNumber)
}

func (r *gormOrderRepository) FindByCheckoutSessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	return r.findOne(ctx, "stripe_checkout_session_id = ?", sessionID)
}

func (r *gormOrderRepository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	return r.findOne(ctx, "stripe_payment_intent_id = ?", paymentIntentID)
}

func (r *gormOrderRepository) FindPendingByCartID(ctx context.Context, cartID string) (*models.Order, error) {
	return r.findOne(ctx, "cart_id = ? AND status = ?", cartID, models.OrderStatusPending)
}

func (r *gormOrderRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where(query, args...).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByCartID(ctx context.Context, cartID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("cart_id = ?", cartID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) SetCheckoutSession(ctx context.Context, orderID, sessionID string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"stripe_checkout_session_id": sessionID,
		"updated_at":                 time.Now(),
	}).Error
}

// MarkProcessing is the compare-and-swap that makes confirm-and-fulfil
// idempotent: only the caller that actually flips pending to processing
// gets true back. Concurrent redirect and webhook triggers race on this
// single conditional update rather than on a read-then-write check.
func (r *gormOrderRepository) MarkProcessing(ctx context.Context, tx *gorm.DB, orderID, paymentIntentID string, paidAt time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     models.OrderStatusProcessing,
		"paid_at":    paidAt,
		"updated_at": time.Now(),
	}
	if paymentIntentID != "" {
		updates["stripe_payment_intent_id"] = paymentIntentID
	}

	result := tx.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkCancelled only cancels orders still pending, so a payment-failure
// event arriving after fulfilment can never regress a processed order.
func (r *gormOrderRepository) MarkCancelled(ctx context.Context, orderID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":     models.OrderStatusCancelled,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormOrderRepository) DeleteWithItems(ctx context.Context, tx *gorm.DB, orderID string) error {
	if err := tx.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Where("id = ?", orderID).Delete(&models.Order{}).Error
}
