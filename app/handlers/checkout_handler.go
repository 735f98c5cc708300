package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/payments"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/services"
	"github.com/soggypotatoes/shop/app/utils/calc"
	"github.com/soggypotatoes/shop/app/utils/format"
	"github.com/unrolled/render"
)

type CheckoutForm struct {
	Name    string `validate:"required,min=2,max=100"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"omitempty,max=30"`
	Address string `validate:"required,min=5,max=255"`
	City    string `validate:"required,max=100"`
	State   string `validate:"required,max=100"`
	Zip     string `validate:"required,min=3,max=20"`
	Country string `validate:"omitempty,max=100"`
}

type CheckoutHandler struct {
	cartHandler    *CartHandler
	cartRepo       repositories.CartRepositoryImpl
	checkoutSvc    *services.CheckoutService
	fulfillmentSvc *services.FulfillmentService
	gateway        payments.Gateway
	render         *render.Render
	validate       *validator.Validate
	appURL         string
}

func NewCheckoutHandler(
	cartHandler *CartHandler,
	cartRepo repositories.CartRepositoryImpl,
	checkoutSvc *services.CheckoutService,
	fulfillmentSvc *services.FulfillmentService,
	gateway payments.Gateway,
	render *render.Render,
	appURL string,
) *CheckoutHandler {
	return &CheckoutHandler{
		cartHandler:    cartHandler,
		cartRepo:       cartRepo,
		checkoutSvc:    checkoutSvc,
		fulfillmentSvc: fulfillmentSvc,
		gateway:        gateway,
		render:         render,
		validate:       validator.New(),
		appURL:         appURL,
	}
}

func (h *CheckoutHandler) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartHandler.ResolveCart(w, r)
	if err != nil {
		log.Printf("ERROR: CheckoutHandler.CheckoutPage: failed to resolve cart: %v", err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	cart, err = h.cartRepo.GetCartWithItems(r.Context(), cart.ID)
	if err != nil {
		log.Printf("ERROR: CheckoutHandler.CheckoutPage: failed to load cart items: %v", err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	if cart == nil || len(cart.CartItems) == 0 {
		http.Redirect(w, r, fmt.Sprintf("/cart?status=info&message=%s", url.QueryEscape("Your cart is empty.")), http.StatusSeeOther)
		return
	}

	subtotal := cart.Subtotal()
	shippingCost := calc.CalculateShipping(subtotal)
	tax := calc.CalculateTax(subtotal)
	total := subtotal.Add(shippingCost).Add(tax)

	pageSpecificData := map[string]interface{}{
		"Title":        "Checkout",
		"Cart":         cart,
		"Subtotal":     format.USD(subtotal),
		"ShippingCost": format.USD(shippingCost),
		"Tax":          format.USD(tax),
		"Total":        format.USD(total),
	}

	datas := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "checkout", datas)
}

// Checkout creates the pending order and sends the buyer to the payment
// gateway. When no real gateway is configured the order is confirmed
// inline and the buyer lands straight on the order page.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to read form data", http.StatusBadRequest)
		return
	}

	form := CheckoutForm{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Address: r.FormValue("address"),
		City:    r.FormValue("city"),
		State:   r.FormValue("state"),
		Zip:     r.FormValue("zip"),
		Country: r.FormValue("country"),
	}

	if err := h.validate.Struct(form); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			msgs := helpers.FormatValidationErrors(validationErrs)
			for _, msg := range msgs {
				http.Redirect(w, r, fmt.Sprintf("/checkout?status=error&message=%s", url.QueryEscape(msg)), http.StatusSeeOther)
				return
			}
		}
		http.Redirect(w, r, fmt.Sprintf("/checkout?status=error&message=%s", url.QueryEscape("Invalid checkout details.")), http.StatusSeeOther)
		return
	}

	cart, err := h.cartHandler.ResolveCart(w, r)
	if err != nil {
		log.Printf("ERROR: CheckoutHandler.Checkout: failed to resolve cart: %v", err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	cart, err = h.cartRepo.GetCartWithItems(ctx, cart.ID)
	if err != nil || cart == nil {
		log.Printf("ERROR: CheckoutHandler.Checkout: failed to load cart items: %v", err)
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	order, err := h.checkoutSvc.CreateOrder(ctx, cart, services.ShippingDetails{
		Name:    form.Name,
		Address: form.Address,
		City:    form.City,
		State:   form.State,
		Zip:     form.Zip,
		Country: form.Country,
		Email:   form.Email,
		Phone:   form.Phone,
	})
	if err != nil {
		log.Printf("WARNING: CheckoutHandler.Checkout: failed to create order: %v", err)
		if errors.Is(err, services.ErrStockUnavailable) {
			http.Redirect(w, r, fmt.Sprintf("/cart?status=error&message=%s", url.QueryEscape("Some items in your cart are no longer in stock.")), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/checkout?status=error&message=%s", url.QueryEscape("Could not place your order.")), http.StatusSeeOther)
		return
	}

	successURL := h.appURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := h.appURL + "/checkout/cancel"

	session, err := h.gateway.CreateCheckoutSession(ctx, order, successURL, cancelURL)
	if err != nil {
		log.Printf("ERROR: CheckoutHandler.Checkout: gateway session failed for order %s: %v", order.OrderNumber, err)
		if delErr := h.checkoutSvc.DeletePendingOrder(ctx, order.ID); delErr != nil {
			log.Printf("ERROR: CheckoutHandler.Checkout: failed to delete order %s after gateway error: %v", order.OrderNumber, delErr)
		}
		http.Redirect(w, r, fmt.Sprintf("/checkout?status=error&message=%s", url.QueryEscape("Payment could not be started. Please try again.")), http.StatusSeeOther)
		return
	}

	if err := h.checkoutSvc.AttachCheckoutSession(ctx, order.ID, session.ID); err != nil {
		log.Printf("ERROR: CheckoutHandler.Checkout: failed to store session for order %s: %v", order.OrderNumber, err)
		http.Error(w, "Failed to start payment", http.StatusInternalServerError)
		return
	}

	if h.gateway.AutoConfirms() {
		fulfilled, err := h.fulfillmentSvc.ConfirmAndFulfill(ctx, order.ID, session.PaymentIntentID)
		if err != nil {
			log.Printf("ERROR: CheckoutHandler.Checkout: inline fulfilment failed for order %s: %v", order.OrderNumber, err)
			http.Error(w, "Failed to complete order", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/orders/%s?status=success&message=%s", fulfilled.OrderNumber, url.QueryEscape("Order placed!")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, session.URL, http.StatusSeeOther)
}

func (h *CheckoutHandler) Success(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Redirect(w, r, "/cart?status=error&message="+url.QueryEscape("Missing payment session."), http.StatusSeeOther)
		return
	}

	order, err := h.fulfillmentSvc.HandleSuccessRedirect(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentPending):
			http.Redirect(w, r, fmt.Sprintf("/orders/%s?status=info&message=%s", order.OrderNumber, url.QueryEscape("Your payment is still processing.")), http.StatusSeeOther)
		case errors.Is(err, services.ErrOrderNotFound):
			http.NotFound(w, r)
		default:
			log.Printf("ERROR: CheckoutHandler.Success: failed to handle redirect for session %s: %v", sessionID, err)
			http.Error(w, "Failed to confirm payment", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/orders/%s?status=success&message=%s", order.OrderNumber, url.QueryEscape("Thanks for your order!")), http.StatusSeeOther)
}

// Cancel handles the buyer backing out of the gateway page. The pending
// order for their cart is deleted so stock math never sees it.
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartHandler.ResolveCart(w, r)
	if err != nil {
		log.Printf("ERROR: CheckoutHandler.Cancel: failed to resolve cart: %v", err)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	if err := h.fulfillmentSvc.CancelPending(r.Context(), cart.ID); err != nil {
		log.Printf("WARNING: CheckoutHandler.Cancel: failed to remove pending order for cart %s: %v", cart.ID, err)
	}

	http.Redirect(w, r, "/cart?status=info&message="+url.QueryEscape("Checkout cancelled. Your cart is untouched."), http.StatusSeeOther)
}
