package routes

import (
	"log"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/soggypotatoes/shop/app/configs"
	"github.com/soggypotatoes/shop/app/handlers"
	"github.com/soggypotatoes/shop/app/middlewares"
	"github.com/soggypotatoes/shop/app/payments"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/services"
	"github.com/soggypotatoes/shop/app/utils/calc"
	"github.com/soggypotatoes/shop/app/utils/renderer"
	"gorm.io/gorm"
)

const stripeWebhookPath = "/webhooks/stripe"

func NewRouter(db *gorm.DB) *mux.Router {
	env := configs.LoadENV

	if pct, err := decimal.NewFromString(env.TaxPercent); err == nil {
		calc.SetTaxPercent(pct)
	}
	flatRate, flatErr := decimal.NewFromString(env.ShippingFlatRate)
	freeThreshold, freeErr := decimal.NewFromString(env.FreeShippingThreshold)
	if flatErr == nil && freeErr == nil {
		calc.SetShippingRates(flatRate, freeThreshold)
	}

	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)
	wishlistRepo := repositories.NewWishlistRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	render := renderer.New()

	mailer := services.NewMailer(services.MailerConfig{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	})

	// The gateway is chosen once here: real Stripe when a secret key is
	// configured, auto-confirm otherwise so local checkouts complete in
	// one request.
	var gateway payments.Gateway
	if env.StripeSecretKey != "" {
		gateway = payments.NewStripeGateway(env.StripeSecretKey, env.StripeWebhookSecret)
		log.Println("INFO: Routes: Stripe gateway configured")
	} else {
		gateway = payments.NewAutoConfirmGateway()
		log.Println("WARNING: Routes: No STRIPE_SECRET_KEY set, orders will auto-confirm without payment")
	}

	cartSvc := services.NewCartService(cartRepo, cartItemRepo, productRepo)
	checkoutSvc := services.NewCheckoutService(db, productRepo, orderRepo, orderItemRepo)
	fulfillmentSvc := services.NewFulfillmentService(db, orderRepo, productRepo, cartItemRepo, gateway, mailer)
	wishlistSvc := services.NewWishlistService(wishlistRepo, productRepo)
	reviewSvc := services.NewReviewService(reviewRepo, productRepo, orderItemRepo)

	homeHandler := handlers.NewHomeHandler(productRepo, categoryRepo, render)
	productHandler := handlers.NewProductHandler(productRepo, categoryRepo, reviewSvc, render)
	cartHandler := handlers.NewCartHandler(cartRepo, productRepo, cartSvc, render)
	checkoutHandler := handlers.NewCheckoutHandler(cartHandler, cartRepo, checkoutSvc, fulfillmentSvc, gateway, render, env.AppURL)
	orderHandler := handlers.NewOrderHandler(cartHandler, orderRepo, render)
	webhookHandler := handlers.NewWebhookHandler(gateway, fulfillmentSvc)
	wishlistHandler := handlers.NewWishlistHandler(wishlistRepo, productRepo, wishlistSvc, render)
	reviewHandler := handlers.NewReviewHandler(cartHandler, productRepo, reviewSvc)

	router := mux.NewRouter()

	router.Use(middlewares.LoggingMiddleware)
	router.Use(skipCSRFForWebhooks)
	if keys, err := configs.LoadSessionKeysFromEnv(); err != nil {
		log.Printf("WARNING: Routes: CSRF protection disabled, session keys unavailable: %v", err)
	} else {
		router.Use(csrf.Protect(keys.AuthKey, csrf.Secure(env.AppEnv == "production")))
	}
	router.Use(middlewares.CartCountMiddleware(cartRepo))

	router.HandleFunc("/", homeHandler.Home).Methods("GET")
	router.HandleFunc("/shop", productHandler.Products).Methods("GET")
	router.HandleFunc("/shop/category/{slug}", productHandler.Products).Methods("GET")
	router.HandleFunc("/shop/product/{slug}", productHandler.ProductDetail).Methods("GET")

	router.HandleFunc("/cart", cartHandler.GetCart).Methods("GET")
	router.HandleFunc("/cart/add/{productID}", cartHandler.AddItem).Methods("POST")
	router.HandleFunc("/cart/update/{itemID}", cartHandler.UpdateItem).Methods("POST")
	router.HandleFunc("/cart/remove/{itemID}", cartHandler.RemoveItem).Methods("POST")

	router.HandleFunc("/wishlist", wishlistHandler.GetWishlist).Methods("GET")
	router.HandleFunc("/wishlist/toggle/{productID}", wishlistHandler.Toggle).Methods("POST")

	router.HandleFunc("/review/add/{productID}", reviewHandler.AddReview).Methods("POST")

	router.HandleFunc("/checkout", checkoutHandler.CheckoutPage).Methods("GET")
	router.HandleFunc("/checkout", checkoutHandler.Checkout).Methods("POST")
	router.HandleFunc("/checkout/success", checkoutHandler.Success).Methods("GET")
	router.HandleFunc("/checkout/cancel", checkoutHandler.Cancel).Methods("GET")

	router.HandleFunc(stripeWebhookPath, webhookHandler.HandleStripeWebhook).Methods("POST")

	router.HandleFunc("/orders", orderHandler.Orders).Methods("GET")
	router.HandleFunc("/orders/{orderNumber}", orderHandler.OrderDetail).Methods("GET")

	fs := http.FileServer(http.Dir("./assets"))
	router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", fs))

	return router
}

// skipCSRFForWebhooks exempts the gateway callback: Stripe signs its
// posts with its own HMAC header and cannot carry a CSRF token.
func skipCSRFForWebhooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == stripeWebhookPath {
			r = csrf.UnsafeSkipCheck(r)
		}
		next.ServeHTTP(w, r)
	})
}
