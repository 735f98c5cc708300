package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/soggypotatoes/shop/app/payments"
	"github.com/soggypotatoes/shop/app/services"
)

// maxWebhookBody caps the payload read from the gateway. Stripe events
// are well under this.
const maxWebhookBody = 65536

type WebhookHandler struct {
	gateway        payments.Gateway
	fulfillmentSvc *services.FulfillmentService
}

func NewWebhookHandler(gateway payments.Gateway, fulfillmentSvc *services.FulfillmentService) *WebhookHandler {
	return &WebhookHandler{
		gateway:        gateway,
		fulfillmentSvc: fulfillmentSvc,
	}
}

// HandleStripeWebhook verifies the event signature and dispatches it.
// Events for orders this shop does not know are acknowledged with 200
// so the gateway stops retrying them.
func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		log.Printf("WARNING: WebhookHandler: failed to read payload: %v", err)
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	event, err := h.gateway.ConstructWebhookEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidSignature):
			log.Printf("WARNING: WebhookHandler: signature verification failed: %v", err)
			http.Error(w, "Invalid signature", http.StatusBadRequest)
		case errors.Is(err, payments.ErrMalformedPayload):
			log.Printf("WARNING: WebhookHandler: malformed payload: %v", err)
			http.Error(w, "Malformed payload", http.StatusBadRequest)
		default:
			log.Printf("ERROR: WebhookHandler: failed to construct event: %v", err)
			http.Error(w, "Failed to process event", http.StatusInternalServerError)
		}
		return
	}

	if err := h.fulfillmentSvc.HandleWebhookEvent(r.Context(), event); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			log.Printf("ERROR: WebhookHandler: no order matches event %s (session %s, intent %s)", event.Type, event.CheckoutSessionID, event.PaymentIntentID)
			w.WriteHeader(http.StatusOK)
			return
		}
		log.Printf("ERROR: WebhookHandler: failed to handle event %s: %v", event.Type, err)
		http.Error(w, "Failed to process event", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
