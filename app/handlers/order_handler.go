package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/utils/format"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	cartHandler *CartHandler
	orderRepo   repositories.OrderRepository
	render      *render.Render
}

func NewOrderHandler(cartHandler *CartHandler, orderRepo repositories.OrderRepository, render *render.Render) *OrderHandler {
	return &OrderHandler{
		cartHandler: cartHandler,
		orderRepo:   orderRepo,
		render:      render,
	}
}

// Orders lists the current cart's order history. Anonymous buyers see
// the orders placed under their session cart.
func (h *OrderHandler) Orders(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartHandler.ResolveCart(w, r)
	if err != nil {
		log.Printf("ERROR: OrderHandler.Orders: failed to resolve cart: %v", err)
		http.Error(w, "Failed to load orders", http.StatusInternalServerError)
		return
	}

	orders, err := h.orderRepo.FindByCartID(r.Context(), cart.ID)
	if err != nil {
		log.Printf("ERROR: OrderHandler.Orders: failed to load orders for cart %s: %v", cart.ID, err)
		http.Error(w, "Failed to load orders", http.StatusInternalServerError)
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title":  "Your Orders",
		"Orders": orders,
	}

	datas := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "orders", datas)
}

func (h *OrderHandler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	orderNumber := mux.Vars(r)["orderNumber"]
	if orderNumber == "" {
		http.NotFound(w, r)
		return
	}

	order, err := h.orderRepo.FindByNumber(r.Context(), orderNumber)
	if err != nil {
		log.Printf("ERROR: OrderHandler.OrderDetail: failed to load order %s: %v", orderNumber, err)
		http.Error(w, "Failed to load order", http.StatusInternalServerError)
		return
	}
	if order == nil {
		http.NotFound(w, r)
		return
	}

	cart, err := h.cartHandler.ResolveCart(w, r)
	if err != nil {
		log.Printf("ERROR: OrderHandler.OrderDetail: failed to resolve cart: %v", err)
		http.Error(w, "Failed to load order", http.StatusInternalServerError)
		return
	}
	if !orderBelongsTo(order, cart, r) {
		log.Printf("WARNING: OrderHandler.OrderDetail: order %s requested from foreign session", order.OrderNumber)
		http.NotFound(w, r)
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title":        "Order " + order.OrderNumber,
		"Order":        order,
		"Subtotal":     format.USD(order.Subtotal),
		"ShippingCost": format.USD(order.ShippingCost),
		"Tax":          format.USD(order.Tax),
		"Total":        format.USD(order.Total),
	}

	datas := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "order", datas)
}

// orderBelongsTo ties an order to the requester: same cart as the
// current session, or the logged-in user who placed it. Order numbers
// are short enough to guess, so non-owners get a plain 404.
func orderBelongsTo(order *models.Order, cart *models.Cart, r *http.Request) bool {
	if order.CartID == cart.ID {
		return true
	}
	userID, ok := r.Context().Value(helpers.ContextKeyUserID).(string)
	return ok && userID != "" && order.UserID != nil && *order.UserID == userID
}
