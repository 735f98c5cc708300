package repositories

import (
	"context"
	"errors"

	"github.com/soggypotatoes/shop/app/models"
	"gorm.io/gorm"
)

type WishlistRepositoryImpl interface {
	GetWithItems(ctx context.Context, wishlistID string) (*models.Wishlist, error)
	GetOrCreateByUserID(ctx context.Context, userID string) (*models.Wishlist, error)
	GetOrCreateBySessionKey(ctx context.Context, sessionKey string) (*models.Wishlist, error)
	HasProduct(ctx context.Context, wishlistID, productID string) (bool, error)
	AddProduct(ctx context.Context, wishlistID, productID string) error
	RemoveProduct(ctx context.Context, wishlistID, productID string) error
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepositoryImpl {
	return &wishlistRepository{db}
}

func (r *wishlistRepository) GetWithItems(ctx context.Context, wishlistID string) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := r.db.WithContext(ctx).
		Preload("WishlistItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("wishlist_items.created_at ASC")
		}).
		Preload("WishlistItems.Product").
		Where("id = ?", wishlistID).
		First(&wishlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wishlist, nil
}

func (r *wishlistRepository) GetOrCreateByUserID(ctx context.Context, userID string) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wishlist).Error
	if err == nil {
		return &wishlist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wishlist = models.Wishlist{UserID: &userID}
	if err := r.db.WithContext(ctx).Create(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func (r *wishlistRepository) GetOrCreateBySessionKey(ctx context.Context, sessionKey string) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := r.db.WithContext(ctx).Where("session_key = ?", sessionKey).First(&wishlist).Error
	if err == nil {
		return &wishlist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wishlist = models.Wishlist{SessionKey: &sessionKey}
	if err := r.db.WithContext(ctx).Create(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func (r *wishlistRepository) HasProduct(ctx context.Context, wishlistID, productID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *wishlistRepository) AddProduct(ctx context.Context, wishlistID, productID string) error {
	item := models.WishlistItem{WishlistID: wishlistID, ProductID: productID}
	return r.db.WithContext(ctx).Create(&item).Error
}

func (r *wishlistRepository) RemoveProduct(ctx context.Context, wishlistID, productID string) error {
	return r.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&models.WishlistItem{}).Error
}
