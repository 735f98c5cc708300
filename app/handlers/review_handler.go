package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/services"
)

type ReviewForm struct {
	ReviewerName string `validate:"omitempty,max=100"`
	Rating       int    `validate:"required,min=1,max=5"`
	Title        string `validate:"required,max=100"`
	Comment      string `validate:"required,max=2000"`
}

type ReviewHandler struct {
	cartHandler *CartHandler
	productRepo repositories.ProductRepositoryImpl
	reviewSvc   *services.ReviewService
	validate    *validator.Validate
}

func NewReviewHandler(cartHandler *CartHandler, productRepo repositories.ProductRepositoryImpl, reviewSvc *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		cartHandler: cartHandler,
		productRepo: productRepo,
		reviewSvc:   reviewSvc,
		validate:    validator.New(),
	}
}

// AddReview takes the review form and redirects back to the product
// page with a flash either way.
func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	if productID == "" {
		http.Error(w, "Invalid product", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to read form data", http.StatusBadRequest)
		return
	}

	rating, _ := strconv.Atoi(r.FormValue("rating"))
	form := ReviewForm{
		ReviewerName: r.FormValue("reviewer_name"),
		Rating:       rating,
		Title:        r.FormValue("title"),
		Comment:      r.FormValue("comment"),
	}

	if err := h.validate.Struct(form); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			msgs := helpers.FormatValidationErrors(validationErrs)
			for _, msg := range msgs {
				h.redirectToProduct(w, r, productID, msg, "error")
				return
			}
		}
		h.redirectToProduct(w, r, productID, "Invalid review details.", "error")
		return
	}

	cart, err := h.cartHandler.ResolveCart(w, r)
	if err != nil {
		log.Printf("ERROR: ReviewHandler.AddReview: failed to resolve cart: %v", err)
		http.Error(w, "Failed to save review", http.StatusInternalServerError)
		return
	}

	_, err = h.reviewSvc.AddReview(r.Context(), cart, productID, services.ReviewInput{
		ReviewerName: form.ReviewerName,
		Rating:       form.Rating,
		Title:        form.Title,
		Comment:      form.Comment,
	})
	if err != nil {
		log.Printf("WARNING: ReviewHandler.AddReview: failed to add review for product %s: %v", productID, err)
		if errors.Is(err, services.ErrAlreadyReviewed) {
			h.redirectToProduct(w, r, productID, "You have already reviewed this product.", "error")
			return
		}
		h.redirectToProduct(w, r, productID, "Could not save your review.", "error")
		return
	}

	h.redirectToProduct(w, r, productID, "Thanks for your review!", "success")
}

func (h *ReviewHandler) redirectToProduct(w http.ResponseWriter, r *http.Request, productID, msg, status string) {
	product, err := h.productRepo.GetByID(r.Context(), productID)
	if err == nil && product != nil {
		http.Redirect(w, r, fmt.Sprintf("/shop/product/%s?status=%s&message=%s", product.Slug, status, url.QueryEscape(msg)), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/shop?status=%s&message=%s", status, url.QueryEscape(msg)), http.StatusSeeOther)
}
