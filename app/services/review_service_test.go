package services

import (
	"context"
	"testing"

	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewService(db *gorm.DB) *ReviewService {
	return NewReviewService(
		repositories.NewReviewRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewOrderItemRepository(db),
	)
}

func testReviewInput() ReviewInput {
	return ReviewInput{
		ReviewerName: "Pat Tester",
		Rating:       5,
		Title:        "Great sticker!",
		Comment:      "Love this sticker, very cute!",
	}
}

func TestAddReview(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "grumpy-cat", 4.99, 10)
	cart := createTestCart(t, db)

	review, err := svc.AddReview(ctx, cart, product.ID, testReviewInput())
	require.NoError(t, err)

	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "Great sticker!", review.Title)
	assert.Equal(t, "Pat Tester", review.ReviewerName)
	assert.False(t, review.IsVerifiedPurchase)
	assert.True(t, review.IsApproved)
	assert.Equal(t, cart.SessionKey, review.SessionKey)
}

func TestAddReviewRejectsSecondReview(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "pixel-heart", 1.99, 10)
	cart := createTestCart(t, db)

	_, err := svc.AddReview(ctx, cart, product.ID, testReviewInput())
	require.NoError(t, err)

	second := testReviewInput()
	second.Rating = 4
	second.Title = "Still good"
	_, err = svc.AddReview(ctx, cart, product.ID, second)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddReviewRejectsOutOfRangeRating(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "tiny-dino", 2.99, 10)
	cart := createTestCart(t, db)

	for _, rating := range []int{0, -1, 6} {
		in := testReviewInput()
		in.Rating = rating
		_, err := svc.AddReview(ctx, cart, product.ID, in)
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}
}

func TestAddReviewMarksVerifiedPurchase(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "synthwave-sunset", 6.99, 10)
	cart := createTestCart(t, db)

	order := &models.Order{
		CartID:      cart.ID,
		OrderNumber: helpers.GenerateOrderNumber(),
		Status:      models.OrderStatusProcessing,
		Email:       "pat@example.com",
	}
	require.NoError(t, db.Create(order).Error)
	productID := product.ID
	item := &models.OrderItem{
		OrderID:      order.ID,
		ProductID:    &productID,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		Quantity:     1,
	}
	require.NoError(t, db.Create(item).Error)

	review, err := svc.AddReview(ctx, cart, product.ID, testReviewInput())
	require.NoError(t, err)
	assert.True(t, review.IsVerifiedPurchase)
}

func TestAddReviewPendingOrderIsNotVerified(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "rainy-cloud", 2.49, 10)
	cart := createTestCart(t, db)

	order := &models.Order{
		CartID:      cart.ID,
		OrderNumber: helpers.GenerateOrderNumber(),
		Status:      models.OrderStatusPending,
		Email:       "pat@example.com",
	}
	require.NoError(t, db.Create(order).Error)
	productID := product.ID
	item := &models.OrderItem{
		OrderID:      order.ID,
		ProductID:    &productID,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		Quantity:     1,
	}
	require.NoError(t, db.Create(item).Error)

	review, err := svc.AddReview(ctx, cart, product.ID, testReviewInput())
	require.NoError(t, err)
	assert.False(t, review.IsVerifiedPurchase)
}

func TestAddReviewDefaultsAnonymousName(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "happy-toast", 5.99, 10)
	cart := createTestCart(t, db)

	in := testReviewInput()
	in.ReviewerName = "  "
	review, err := svc.AddReview(ctx, cart, product.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", review.ReviewerName)
}

func TestListForProductAverage(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "grumpy-cat", 4.99, 10)

	for i, rating := range []int{5, 3} {
		key := "reviewer-" + string(rune('a'+i)) + "-" + t.Name()
		cart := &models.Cart{SessionKey: &key}
		require.NoError(t, db.Create(cart).Error)
		in := testReviewInput()
		in.Rating = rating
		_, err := svc.AddReview(ctx, cart, product.ID, in)
		require.NoError(t, err)
	}

	reviews, avg, err := svc.ListForProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.InDelta(t, 4.0, avg, 0.001)
}

func TestListForProductHidesUnapproved(t *testing.T) {
	db := setupTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "pixel-heart", 1.99, 10)
	cart := createTestCart(t, db)

	review, err := svc.AddReview(ctx, cart, product.ID, testReviewInput())
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Review{}).Where("id = ?", review.ID).Update("is_approved", false).Error)

	reviews, avg, err := svc.ListForProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Zero(t, avg)
}
