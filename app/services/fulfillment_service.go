package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/payments"
	"github.com/soggypotatoes/shop/app/repositories"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrPaymentPending = errors.New("payment has not completed")
)

// OrderMailer is what FulfillmentService needs from the mailer. Tests
// swap in a recording implementation.
type OrderMailer interface {
	SendOrderConfirmation(order *models.Order) error
}

// FulfillmentService confirms payment and fulfils orders. Confirmation
// can arrive twice for the same order, once from the buyer's success
// redirect and once from the gateway webhook, in either order, so
// every path funnels through the ConfirmAndFulfill compare-and-swap.
type FulfillmentService struct {
	db           *gorm.DB
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepositoryImpl
	cartItemRepo repositories.CartItemRepositoryImpl
	gateway      payments.Gateway
	mailer       OrderMailer
}

func NewFulfillmentService(
	db *gorm.DB,
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepositoryImpl,
	cartItemRepo repositories.CartItemRepositoryImpl,
	gateway payments.Gateway,
	mailer OrderMailer,
) *FulfillmentService {
	return &FulfillmentService{
		db:           db,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		cartItemRepo: cartItemRepo,
		gateway:      gateway,
		mailer:       mailer,
	}
}

// ConfirmAndFulfill moves a pending order to processing, decrements
// stock and clears the source cart. Exactly one caller wins the status
// swap; every other caller sees the already-fulfilled order and
// returns it unchanged, so stock is decremented and the confirmation
// email sent at most once per order.
func (s *FulfillmentService) ConfirmAndFulfill(ctx context.Context, orderID, paymentIntentID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	// The transition table rules out anything but pending here; the
	// conditional update below is what settles concurrent winners.
	if _, terr := order.Status.Transition(models.EventPaymentConfirmed); terr != nil {
		log.Printf("DEBUG: FulfillmentService: Order %s is %s, confirmation is a no-op", order.OrderNumber, order.Status)
		return order, nil
	}

	claimed := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		claimed, err = s.orderRepo.MarkProcessing(ctx, tx, order.ID, paymentIntentID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to mark order %s processing: %w", order.OrderNumber, err)
		}
		if !claimed {
			return nil
		}

		for _, item := range order.OrderItems {
			if item.ProductID == nil {
				continue
			}
			if err := s.productRepo.DecrementStock(ctx, tx, *item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", *item.ProductID, err)
			}
		}

		if err := s.cartItemRepo.ClearCartItems(ctx, tx, order.CartID); err != nil {
			return fmt.Errorf("failed to clear cart %s: %w", order.CartID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !claimed {
		log.Printf("DEBUG: FulfillmentService: Order %s already past pending, skipping fulfilment", order.OrderNumber)
		return s.orderRepo.GetByID(ctx, orderID)
	}

	log.Printf("INFO: FulfillmentService: Order %s confirmed and fulfilled", order.OrderNumber)

	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(order); err != nil {
			log.Printf("ERROR: FulfillmentService: failed to send confirmation for order %s: %v", order.OrderNumber, err)
		}
	}

	return s.orderRepo.GetByID(ctx, orderID)
}

// HandleSuccessRedirect resolves the buyer's return from the gateway.
// It re-retrieves the checkout session rather than trusting the query
// string, and only fulfils when the gateway says the session is paid.
func (s *FulfillmentService) HandleSuccessRedirect(ctx context.Context, sessionID string) (*models.Order, error) {
	session, err := s.gateway.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session %s: %w", sessionID, err)
	}

	order, err := s.orderRepo.FindByCheckoutSessionID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order for session %s: %w", session.ID, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if session.PaymentStatus != payments.PaymentStatusPaid {
		log.Printf("WARNING: FulfillmentService: Session %s for order %s is %s, not fulfilling", session.ID, order.OrderNumber, session.PaymentStatus)
		return order, ErrPaymentPending
	}

	return s.ConfirmAndFulfill(ctx, order.ID, session.PaymentIntentID)
}

// HandleWebhookEvent dispatches a verified gateway event. Unhandled
// event types are acknowledged without action.
func (s *FulfillmentService) HandleWebhookEvent(ctx context.Context, event *payments.WebhookEvent) error {
	switch event.Type {
	case payments.EventCheckoutSessionCompleted:
		order, err := s.lookupOrder(ctx, event)
		if err != nil {
			return err
		}
		if event.PaymentStatus != payments.PaymentStatusPaid {
			log.Printf("INFO: FulfillmentService: Session %s completed unpaid for order %s, leaving pending", event.CheckoutSessionID, order.OrderNumber)
			return nil
		}
		_, err = s.ConfirmAndFulfill(ctx, order.ID, event.PaymentIntentID)
		return err

	case payments.EventPaymentIntentFailed:
		order, err := s.lookupOrder(ctx, event)
		if err != nil {
			return err
		}
		if _, terr := order.Status.Transition(models.EventPaymentFailed); terr != nil {
			log.Printf("DEBUG: FulfillmentService: Payment failure for order %s ignored, status is %s", order.OrderNumber, order.Status)
			return nil
		}
		cancelled, err := s.orderRepo.MarkCancelled(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to cancel order %s: %w", order.OrderNumber, err)
		}
		if cancelled {
			log.Printf("INFO: FulfillmentService: Order %s cancelled after payment failure", order.OrderNumber)
		} else {
			log.Printf("DEBUG: FulfillmentService: Order %s left pending state before the failure event landed", order.OrderNumber)
		}
		return nil

	default:
		log.Printf("DEBUG: FulfillmentService: Ignoring webhook event type %s", event.Type)
		return nil
	}
}

// CancelPending deletes the cart's pending order outright, used when
// the buyer abandons the gateway page. Orders past pending are left
// alone.
func (s *FulfillmentService) CancelPending(ctx context.Context, cartID string) error {
	order, err := s.orderRepo.FindPendingByCartID(ctx, cartID)
	if err != nil {
		return fmt.Errorf("failed to find pending order for cart %s: %w", cartID, err)
	}
	if order == nil {
		return nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.DeleteWithItems(ctx, tx, order.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete pending order %s: %w", order.OrderNumber, err)
	}

	log.Printf("INFO: FulfillmentService: Pending order %s deleted after checkout cancel", order.OrderNumber)
	return nil
}

func (s *FulfillmentService) lookupOrder(ctx context.Context, event *payments.WebhookEvent) (*models.Order, error) {
	var (
		order *models.Order
		err   error
	)
	switch {
	case event.OrderID != "":
		order, err = s.orderRepo.GetByID(ctx, event.OrderID)
	case event.CheckoutSessionID != "":
		order, err = s.orderRepo.FindByCheckoutSessionID(ctx, event.CheckoutSessionID)
	case event.PaymentIntentID != "":
		order, err = s.orderRepo.FindByPaymentIntentID(ctx, event.PaymentIntentID)
	default:
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up order for webhook event: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
