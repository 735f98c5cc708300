package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/services"
	"github.com/soggypotatoes/shop/app/utils/format"
	"github.com/soggypotatoes/shop/app/utils/sessions"
	"github.com/unrolled/render"
)

type CartHandler struct {
	cartRepo    repositories.CartRepositoryImpl
	productRepo repositories.ProductRepositoryImpl
	cartSvc     *services.CartService
	render      *render.Render
}

func NewCartHandler(
	cartRepo repositories.CartRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	cartSvc *services.CartService,
	render *render.Render,
) *CartHandler {
	return &CartHandler{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		cartSvc:     cartSvc,
		render:      render,
	}
}

// ResolveCart finds or creates the request's cart: the logged-in user's
// cart when a user is in context, the session cookie's cart otherwise.
func (h *CartHandler) ResolveCart(w http.ResponseWriter, r *http.Request) (*models.Cart, error) {
	ctx := r.Context()

	if userID, ok := ctx.Value(helpers.ContextKeyUserID).(string); ok && userID != "" {
		return h.cartRepo.GetOrCreateByUserID(ctx, userID)
	}

	sessionKey, err := sessions.GetCartSessionKey(w, r)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart session: %w", err)
	}
	return h.cartRepo.GetOrCreateBySessionKey(ctx, sessionKey)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.ResolveCart(w, r)
	if err != nil {
		log.Printf("ERROR: CartHandler.GetCart: failed to resolve cart: %v", err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	cart, err = h.cartRepo.GetCartWithItems(r.Context(), cart.ID)
	if err != nil {
		log.Printf("ERROR: CartHandler.GetCart: failed to load cart items: %v", err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	h.renderCart(w, r, cart)
}

func (h *CartHandler) renderCart(w http.ResponseWriter, r *http.Request, cart *models.Cart) {
	subtotal := cart.Subtotal()

	pageSpecificData := map[string]interface{}{
		"Title":         "Your Cart",
		"Cart":          cart,
		"Subtotal":      subtotal,
		"SubtotalLabel": format.USD(subtotal),
	}

	datas := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "cart", datas)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	if productID == "" {
		http.Error(w, "Invalid product", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to read form data", http.StatusBadRequest)
		return
	}

	qty, err := strconv.Atoi(r.FormValue("qty"))
	if err != nil || qty < 1 {
		qty = 1
	}

	cart, err := h.ResolveCart(w, r)
	if err != nil {
		log.Printf("ERROR: CartHandler.AddItem: failed to resolve cart: %v", err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	_, err = h.cartSvc.AddItem(r.Context(), cart.ID, productID, qty)
	if err != nil {
		log.Printf("WARNING: CartHandler.AddItem: failed to add product %s: %v", productID, err)
		if errors.Is(err, services.ErrInsufficientStock) {
			h.redirectBack(w, r, productID, "Not enough stock for that quantity.", "error")
			return
		}
		h.redirectBack(w, r, productID, "Could not add item to cart.", "error")
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/cart?status=success&message=%s", url.QueryEscape("Item added to cart!")), http.StatusSeeOther)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemID"]

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to read form data", http.StatusBadRequest)
		return
	}

	qty, err := strconv.Atoi(r.FormValue("qty"))
	if err != nil {
		http.Redirect(w, r, fmt.Sprintf("/cart?status=error&message=%s", url.QueryEscape("Invalid quantity.")), http.StatusSeeOther)
		return
	}

	cart, err := h.ResolveCart(w, r)
	if err != nil {
		log.Printf("ERROR: CartHandler.UpdateItem: failed to resolve cart: %v", err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	_, err = h.cartSvc.UpdateQuantity(r.Context(), cart.ID, itemID, qty)
	if err != nil {
		log.Printf("WARNING: CartHandler.UpdateItem: failed to update item %s: %v", itemID, err)
		if errors.Is(err, services.ErrInsufficientStock) {
			http.Redirect(w, r, fmt.Sprintf("/cart?status=error&message=%s", url.QueryEscape("Not enough stock for that quantity.")), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/cart?status=error&message=%s", url.QueryEscape("Could not update cart item.")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/cart?status=success&message=%s", url.QueryEscape("Cart updated!")), http.StatusSeeOther)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemID"]
	if itemID == "" {
		http.Error(w, "Invalid cart item", http.StatusBadRequest)
		return
	}

	cart, err := h.ResolveCart(w, r)
	if err != nil {
		log.Printf("ERROR: CartHandler.RemoveItem: failed to resolve cart: %v", err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	_, err = h.cartSvc.RemoveItem(r.Context(), cart.ID, itemID)
	if err != nil {
		log.Printf("WARNING: CartHandler.RemoveItem: failed to remove item %s: %v", itemID, err)
		http.Redirect(w, r, fmt.Sprintf("/cart?status=error&message=%s", url.QueryEscape("Could not remove cart item.")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/cart?status=success&message=%s", url.QueryEscape("Item removed from cart.")), http.StatusSeeOther)
}

func (h *CartHandler) redirectBack(w http.ResponseWriter, r *http.Request, productID, msg, status string) {
	if productID != "" {
		product, err := h.productRepo.GetByID(r.Context(), productID)
		if err == nil && product != nil {
			http.Redirect(w, r, fmt.Sprintf("/shop/product/%s?status=%s&message=%s", product.Slug, status, url.QueryEscape(msg)), http.StatusSeeOther)
			return
		}
	}
	http.Redirect(w, r, fmt.Sprintf("/shop?status=%s&message=%s", status, url.QueryEscape(msg)), http.StatusSeeOther)
}
