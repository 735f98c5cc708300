package services

import (
	"context"
	"fmt"

	"github.com/soggypotatoes/shop/app/repositories"
)

type WishlistService struct {
	wishlistRepo repositories.WishlistRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
}

func NewWishlistService(wishlistRepo repositories.WishlistRepositoryImpl, productRepo repositories.ProductRepositoryImpl) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

// Toggle saves the product when it is not on the wishlist and removes
// it when it is. Returns whether the product ended up saved.
func (s *WishlistService) Toggle(ctx context.Context, wishlistID, productID string) (bool, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	if product == nil || !product.IsActive {
		return false, fmt.Errorf("product %s not found", productID)
	}

	has, err := s.wishlistRepo.HasProduct(ctx, wishlistID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist %s: %w", wishlistID, err)
	}

	if has {
		if err := s.wishlistRepo.RemoveProduct(ctx, wishlistID, productID); err != nil {
			return false, fmt.Errorf("failed to remove product from wishlist: %w", err)
		}
		return false, nil
	}

	if err := s.wishlistRepo.AddProduct(ctx, wishlistID, productID); err != nil {
		return false, fmt.Errorf("failed to add product to wishlist: %w", err)
	}
	return true, nil
}
