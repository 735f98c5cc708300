package repositories

import (
	"context"
	"errors"

	"github.com/soggypotatoes/shop/app/models"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindApprovedByProduct(ctx context.Context, productID string) ([]models.Review, error)
	FindByProductAndUser(ctx context.Context, productID, userID string) (*models.Review, error)
	FindByProductAndSessionKey(ctx context.Context, productID, sessionKey string) (*models.Review, error)
}

type gormReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &gormReviewRepository{db: db}
}

func (r *gormReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *gormReviewRepository) FindApprovedByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *gormReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID string) (*models.Review, error) {
	return r.findOne(ctx, "product_id = ? AND user_id = ?", productID, userID)
}

func (r *gormReviewRepository) FindByProductAndSessionKey(ctx context.Context, productID, sessionKey string) (*models.Review, error) {
	return r.findOne(ctx, "product_id = ? AND session_key = ?", productID, sessionKey)
}

func (r *gormReviewRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Where(query, args...).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}
