package models

import (
	"errors"
	"fmt"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type OrderEvent string

const (
	EventPaymentConfirmed OrderEvent = "payment_confirmed"
	EventPaymentFailed    OrderEvent = "payment_failed"
	EventShip             OrderEvent = "ship"
	EventDeliver          OrderEvent = "deliver"
	EventCancel           OrderEvent = "cancel"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// orderTransitions is the full transition table. A (status, event) pair
// that is absent here is rejected, never silently ignored.
var orderTransitions = map[OrderStatus]map[OrderEvent]OrderStatus{
	OrderStatusPending: {
		EventPaymentConfirmed: OrderStatusProcessing,
		EventPaymentFailed:    OrderStatusCancelled,
		EventCancel:           OrderStatusCancelled,
	},
	OrderStatusProcessing: {
		EventShip:    OrderStatusShipped,
		EventDeliver: OrderStatusDelivered,
		EventCancel:  OrderStatusCancelled,
	},
	OrderStatusShipped: {
		EventDeliver: OrderStatusDelivered,
	},
}

// Transition returns the status reached by applying event to s.
func (s OrderStatus) Transition(event OrderEvent) (OrderStatus, error) {
	next, ok := orderTransitions[s][event]
	if !ok {
		return s, fmt.Errorf("%w: %s cannot accept %s", ErrInvalidTransition, s, event)
	}
	return next, nil
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
