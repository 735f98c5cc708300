package handlers

import (
	"log"
	"net/http"

	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/unrolled/render"
)

type HomeHandler struct {
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepository
	render       *render.Render
}

func NewHomeHandler(productRepo repositories.ProductRepositoryImpl, categoryRepo repositories.CategoryRepository, render *render.Render) *HomeHandler {
	return &HomeHandler{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		render:       render,
	}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	featured, err := h.productRepo.GetFeaturedProducts(ctx, 8)
	if err != nil {
		log.Printf("ERROR: HomeHandler.Home: failed to load featured products: %v", err)
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}

	categories, err := h.categoryRepo.GetActive(ctx)
	if err != nil {
		log.Printf("ERROR: HomeHandler.Home: failed to load categories: %v", err)
		http.Error(w, "Failed to load categories", http.StatusInternalServerError)
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title":      "Soggy Potatoes - Sticker Shop",
		"Featured":   featured,
		"Categories": categories,
	}

	datas := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "home", datas)
}
