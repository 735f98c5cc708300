package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/repositories"
)

var (
	ErrAlreadyReviewed = errors.New("product already reviewed")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// ReviewInput is the review form payload.
type ReviewInput struct {
	ReviewerName string
	Rating       int
	Title        string
	Comment      string
}

type ReviewService struct {
	reviewRepo    repositories.ReviewRepository
	productRepo   repositories.ProductRepositoryImpl
	orderItemRepo repositories.OrderItemRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	productRepo repositories.ProductRepositoryImpl,
	orderItemRepo repositories.OrderItemRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		productRepo:   productRepo,
		orderItemRepo: orderItemRepo,
	}
}

// AddReview records one review per reviewer per product. The reviewer
// identity comes from the cart's owner, and the verified-purchase flag
// is set when that cart has a confirmed order containing the product.
func (s *ReviewService) AddReview(ctx context.Context, cart *models.Cart, productID string, in ReviewInput) (*models.Review, error) {
	if in.Rating < models.ReviewRatingMin || in.Rating > models.ReviewRatingMax {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRating, in.Rating)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	if product == nil || !product.IsActive {
		return nil, fmt.Errorf("product %s not found", productID)
	}

	var existing *models.Review
	switch {
	case cart.UserID != nil:
		existing, err = s.reviewRepo.FindByProductAndUser(ctx, productID, *cart.UserID)
	case cart.SessionKey != nil:
		existing, err = s.reviewRepo.FindByProductAndSessionKey(ctx, productID, *cart.SessionKey)
	default:
		return nil, errors.New("cart has no owner")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: product %q", ErrAlreadyReviewed, product.Name)
	}

	verified, err := s.orderItemRepo.PurchasedByCart(ctx, cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check purchase history: %w", err)
	}

	name := strings.TrimSpace(in.ReviewerName)
	if name == "" {
		name = "Anonymous"
	}

	review := &models.Review{
		ProductID:          productID,
		UserID:             cart.UserID,
		SessionKey:         cart.SessionKey,
		ReviewerName:       name,
		Rating:             in.Rating,
		Title:              in.Title,
		Comment:            in.Comment,
		IsVerifiedPurchase: verified,
		IsApproved:         true,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	log.Printf("INFO: ReviewService: %d-star review added for product %q (verified=%t)", review.Rating, product.Name, verified)
	return review, nil
}

// ListForProduct returns the approved reviews, newest first, with the
// average rating across them.
func (s *ReviewService) ListForProduct(ctx context.Context, productID string) ([]models.Review, float64, error) {
	reviews, err := s.reviewRepo.FindApprovedByProduct(ctx, productID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load reviews for product %s: %w", productID, err)
	}
	if len(reviews) == 0 {
		return reviews, 0, nil
	}

	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
	}
	return reviews, float64(sum) / float64(len(reviews)), nil
}
