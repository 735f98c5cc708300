package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/utils/sessions"
)

// CartCountMiddleware puts the session cart's item count into the
// request context so every page can show the cart badge.
func CartCountMiddleware(cartRepo repositories.CartRepositoryImpl) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionKey, err := sessions.GetCartSessionKey(w, r)
			if err != nil {
				log.Printf("WARNING: CartCountMiddleware: failed to get cart session: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			count := 0
			cart, err := cartRepo.GetOrCreateBySessionKey(r.Context(), sessionKey)
			if err != nil {
				log.Printf("WARNING: CartCountMiddleware: failed to resolve cart for session: %v", err)
			} else if cart != nil {
				count, err = cartRepo.GetCartItemCount(r.Context(), cart.ID)
				if err != nil {
					log.Printf("WARNING: CartCountMiddleware: failed to count cart items for cart %s: %v", cart.ID, err)
					count = 0
				}
			}

			ctx := context.WithValue(r.Context(), helpers.CartCountKey, count)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("DEBUG: %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
