package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/utils/calc"
	"gorm.io/gorm"
)

var ErrStockUnavailable = errors.New("requested quantity exceeds available stock")

// ShippingDetails is the checkout form snapshot copied onto the order.
type ShippingDetails struct {
	Name    string
	Address string
	City    string
	State   string
	Zip     string
	Country string
	Email   string
	Phone   string
}

type CheckoutService struct {
	db            *gorm.DB
	productRepo   repositories.ProductRepositoryImpl
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
}

func NewCheckoutService(
	db *gorm.DB,
	productRepo repositories.ProductRepositoryImpl,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
) *CheckoutService {
	return &CheckoutService{
		db:            db,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
	}
}

// CreateOrder turns a cart into a pending order with immutable item
// snapshots taken at the current product price and name. It validates
// stock but does not decrement it, and does not clear the cart: both
// happen at payment confirmation, so a failed gateway step can simply
// delete the pending order.
func (s *CheckoutService) CreateOrder(ctx context.Context, cart *models.Cart, info ShippingDetails) (*models.Order, error) {
	if cart == nil || len(cart.CartItems) == 0 {
		return nil, errors.New("cart is empty or not found")
	}

	orderItems := make([]models.OrderItem, 0, len(cart.CartItems))

	for _, cartItem := range cart.CartItems {
		product := cartItem.Product
		if product == nil {
			var err error
			product, err = s.productRepo.GetByID(ctx, cartItem.ProductID)
			if err != nil {
				return nil, fmt.Errorf("failed to get product %s: %w", cartItem.ProductID, err)
			}
		}
		if product == nil {
			return nil, fmt.Errorf("product %s not found", cartItem.ProductID)
		}

		if product.TrackInventory && product.Stock < cartItem.Quantity {
			return nil, fmt.Errorf("%w: product %q has %d in stock, %d requested", ErrStockUnavailable, product.Name, product.Stock, cartItem.Quantity)
		}

		productID := product.ID
		orderItems = append(orderItems, models.OrderItem{
			ProductID:    &productID,
			ProductName:  product.Name,
			ProductPrice: product.CurrentPrice(),
			Quantity:     cartItem.Quantity,
		})
	}

	// Summed from the snapshots, not cart.Subtotal(): the snapshot
	// prices are authoritative and do not depend on preloaded
	// associations.
	subtotal := decimal.Zero
	for i := range orderItems {
		subtotal = subtotal.Add(orderItems[i].TotalPrice())
	}
	shippingCost := calc.CalculateShipping(subtotal)
	tax := calc.CalculateTax(subtotal)
	total := subtotal.Add(shippingCost).Add(tax)

	country := info.Country
	if country == "" {
		country = "United States"
	}

	order := &models.Order{
		UserID:          cart.UserID,
		CartID:          cart.ID,
		OrderNumber:     helpers.GenerateOrderNumber(),
		Status:          models.OrderStatusPending,
		ShippingName:    info.Name,
		ShippingAddress: info.Address,
		ShippingCity:    info.City,
		ShippingState:   info.State,
		ShippingZip:     info.Zip,
		ShippingCountry: country,
		Email:           info.Email,
		Phone:           info.Phone,
		Subtotal:        subtotal,
		ShippingCost:    shippingCost,
		Tax:             tax,
		Total:           total,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := s.orderItemRepo.BulkCreate(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.OrderItems = orderItems
	log.Printf("INFO: CheckoutService: Order %s created with %d items, total %s", order.OrderNumber, len(orderItems), order.Total.String())
	return order, nil
}

// AttachCheckoutSession records the gateway session id on the order so
// redirect and webhook lookups can find it.
func (s *CheckoutService) AttachCheckoutSession(ctx context.Context, orderID, sessionID string) error {
	if err := s.orderRepo.SetCheckoutSession(ctx, orderID, sessionID); err != nil {
		return fmt.Errorf("failed to attach checkout session to order %s: %w", orderID, err)
	}
	return nil
}

// DeletePendingOrder removes a pending order and its items outright,
// used when gateway session creation fails or the buyer cancels before
// paying. Orders past pending are never deleted here.
func (s *CheckoutService) DeletePendingOrder(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order == nil {
		return nil
	}
	if order.Status != models.OrderStatusPending {
		return fmt.Errorf("order %s is %s, only pending orders can be deleted", order.OrderNumber, order.Status)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.DeleteWithItems(ctx, tx, orderID); err != nil {
			return fmt.Errorf("failed to delete pending order %s: %w", orderID, err)
		}
		return nil
	})
}
