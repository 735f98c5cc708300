package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/repositories"
	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient product stock")

type CartService struct {
	cartRepo     repositories.CartRepositoryImpl
	cartItemRepo repositories.CartItemRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
}

func NewCartService(cartRepo repositories.CartRepositoryImpl, cartItemRepo repositories.CartItemRepositoryImpl, productRepo repositories.ProductRepositoryImpl) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// AddItem adds qty of a product to the cart, incrementing the existing
// row when the product is already there. The stock check covers the
// cumulative quantity and is skipped for products that do not track
// inventory.
func (s *CartService) AddItem(ctx context.Context, cartID, productID string, qty int) (*models.Cart, error) {
	if qty < 1 {
		qty = 1
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	if product == nil || !product.IsActive {
		return nil, fmt.Errorf("product %s not found", productID)
	}

	existingItem, err := s.cartItemRepo.GetCartAndProduct(ctx, cartID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing cart item: %w", err)
	}

	newQty := qty
	if existingItem != nil {
		newQty = existingItem.Quantity + qty
	}

	if product.TrackInventory && product.Stock < newQty {
		return nil, fmt.Errorf("%w: only %d of %q available, %d requested", ErrInsufficientStock, product.Stock, product.Name, newQty)
	}

	if existingItem != nil {
		existingItem.Quantity = newQty
		if err := s.cartItemRepo.Update(ctx, existingItem); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	} else {
		item := &models.CartItem{
			CartID:    cartID,
			ProductID: productID,
			Quantity:  qty,
		}
		if err := s.cartItemRepo.Add(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	}

	return s.cartRepo.GetCartWithItems(ctx, cartID)
}

// UpdateQuantity sets an item's quantity; zero or less removes the item.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, itemID string, qty int) (*models.Cart, error) {
	if qty <= 0 {
		return s.RemoveItem(ctx, cartID, itemID)
	}

	item, err := s.cartItemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item not found")
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	if item.CartID != cartID {
		return nil, fmt.Errorf("cart item not found")
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil || product == nil {
		return nil, fmt.Errorf("product not found for cart item")
	}

	if product.TrackInventory && product.Stock < qty {
		return nil, fmt.Errorf("%w: only %d of %q available, %d requested", ErrInsufficientStock, product.Stock, product.Name, qty)
	}

	item.Quantity = qty
	if err := s.cartItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	return s.cartRepo.GetCartWithItems(ctx, cartID)
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID string) (*models.Cart, error) {
	if err := s.cartItemRepo.Delete(ctx, cartID, itemID); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.cartRepo.GetCartWithItems(ctx, cartID)
}
