package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/services"
	"github.com/soggypotatoes/shop/app/utils/sessions"
	"github.com/unrolled/render"
)

type WishlistHandler struct {
	wishlistRepo repositories.WishlistRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	wishlistSvc  *services.WishlistService
	render       *render.Render
}

func NewWishlistHandler(
	wishlistRepo repositories.WishlistRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	wishlistSvc *services.WishlistService,
	render *render.Render,
) *WishlistHandler {
	return &WishlistHandler{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		wishlistSvc:  wishlistSvc,
		render:       render,
	}
}

// ResolveWishlist finds or creates the request's wishlist under the
// same identity the cart uses: the logged-in user when one is in
// context, the session cookie otherwise.
func (h *WishlistHandler) ResolveWishlist(w http.ResponseWriter, r *http.Request) (*models.Wishlist, error) {
	ctx := r.Context()

	if userID, ok := ctx.Value(helpers.ContextKeyUserID).(string); ok && userID != "" {
		return h.wishlistRepo.GetOrCreateByUserID(ctx, userID)
	}

	sessionKey, err := sessions.GetCartSessionKey(w, r)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve wishlist session: %w", err)
	}
	return h.wishlistRepo.GetOrCreateBySessionKey(ctx, sessionKey)
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	wishlist, err := h.ResolveWishlist(w, r)
	if err != nil {
		log.Printf("ERROR: WishlistHandler.GetWishlist: failed to resolve wishlist: %v", err)
		http.Error(w, "Failed to load wishlist", http.StatusInternalServerError)
		return
	}

	wishlist, err = h.wishlistRepo.GetWithItems(r.Context(), wishlist.ID)
	if err != nil {
		log.Printf("ERROR: WishlistHandler.GetWishlist: failed to load wishlist items: %v", err)
		http.Error(w, "Failed to load wishlist", http.StatusInternalServerError)
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title":    "Your Wishlist",
		"Wishlist": wishlist,
	}

	datas := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "wishlist", datas)
}

// Toggle flips a product in or out of the wishlist and bounces the
// buyer back to the product page.
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	if productID == "" {
		http.Error(w, "Invalid product", http.StatusBadRequest)
		return
	}

	wishlist, err := h.ResolveWishlist(w, r)
	if err != nil {
		log.Printf("ERROR: WishlistHandler.Toggle: failed to resolve wishlist: %v", err)
		http.Error(w, "Failed to load wishlist", http.StatusInternalServerError)
		return
	}

	added, err := h.wishlistSvc.Toggle(r.Context(), wishlist.ID, productID)
	if err != nil {
		log.Printf("WARNING: WishlistHandler.Toggle: failed to toggle product %s: %v", productID, err)
		h.redirectToProduct(w, r, productID, "Could not update your wishlist.", "error")
		return
	}

	msg := "Removed from your wishlist."
	if added {
		msg = "Added to your wishlist!"
	}
	h.redirectToProduct(w, r, productID, msg, "success")
}

func (h *WishlistHandler) redirectToProduct(w http.ResponseWriter, r *http.Request, productID, msg, status string) {
	product, err := h.productRepo.GetByID(r.Context(), productID)
	if err == nil && product != nil {
		http.Redirect(w, r, fmt.Sprintf("/shop/product/%s?status=%s&message=%s", product.Slug, status, url.QueryEscape(msg)), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/wishlist?status=%s&message=%s", status, url.QueryEscape(msg)), http.StatusSeeOther)
}
