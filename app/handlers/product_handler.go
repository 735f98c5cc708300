package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/soggypotatoes/shop/app/helpers"
	"github.com/soggypotatoes/shop/app/models"
	"github.com/soggypotatoes/shop/app/repositories"
	"github.com/soggypotatoes/shop/app/services"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepository
	reviewSvc    *services.ReviewService
	render       *render.Render
}

func NewProductHandler(p repositories.ProductRepositoryImpl, c repositories.CategoryRepository, reviewSvc *services.ReviewService, r *render.Render) *ProductHandler {
	return &ProductHandler{p, c, reviewSvc, r}
}

const productsPerPage = 12

func (h *ProductHandler) Products(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categorySlug := mux.Vars(r)["slug"]
	query := r.URL.Query().Get("q")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * productsPerPage

	var (
		products []models.Product
		total    int64
		err      error
	)

	title := "Shop"
	var currentCategory *models.Category

	switch {
	case query != "":
		products, total, err = h.productRepo.SearchProductsPaginated(ctx, query, productsPerPage, offset)
		title = "Search: " + query
	case categorySlug != "":
		currentCategory, err = h.categoryRepo.GetBySlug(ctx, categorySlug)
		if err != nil {
			log.Printf("ERROR: ProductHandler.Products: failed to load category %s: %v", categorySlug, err)
			http.Error(w, "Failed to load category", http.StatusInternalServerError)
			return
		}
		if currentCategory == nil {
			http.NotFound(w, r)
			return
		}
		title = currentCategory.Name
		products, total, err = h.productRepo.GetByCategorySlugPaginated(ctx, categorySlug, productsPerPage, offset)
	default:
		products, total, err = h.productRepo.GetPaginated(ctx, productsPerPage, offset)
	}
	if err != nil {
		log.Printf("ERROR: ProductHandler.Products: failed to load products: %v", err)
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}

	categories, err := h.categoryRepo.GetActive(ctx)
	if err != nil {
		log.Printf("ERROR: ProductHandler.Products: failed to load categories: %v", err)
		http.Error(w, "Failed to load categories", http.StatusInternalServerError)
		return
	}

	dataMap := map[string]interface{}{
		"Title":       title,
		"Products":    products,
		"Categories":  categories,
		"CurrentPage": page,
		"TotalPages":  int((total + productsPerPage - 1) / productsPerPage),
		"SearchQuery": query,
	}
	if currentCategory != nil {
		dataMap["CurrentCategory"] = currentCategory
	}

	datas := helpers.GetBaseData(r, dataMap)
	_ = h.render.HTML(w, http.StatusOK, "products", datas)
}

func (h *ProductHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	productSlug := mux.Vars(r)["slug"]
	if productSlug == "" {
		http.NotFound(w, r)
		return
	}

	product, err := h.productRepo.GetBySlug(r.Context(), productSlug)
	if err != nil {
		log.Printf("ERROR: ProductHandler.ProductDetail: failed to load product %s: %v", productSlug, err)
		http.Error(w, "Failed to load product", http.StatusInternalServerError)
		return
	}
	if product == nil || !product.IsActive {
		http.NotFound(w, r)
		return
	}

	reviews, avgRating, err := h.reviewSvc.ListForProduct(r.Context(), product.ID)
	if err != nil {
		log.Printf("ERROR: ProductHandler.ProductDetail: failed to load reviews for %s: %v", productSlug, err)
		http.Error(w, "Failed to load product", http.StatusInternalServerError)
		return
	}

	dataMap := map[string]interface{}{
		"Title":         product.Name,
		"Product":       product,
		"Reviews":       reviews,
		"ReviewCount":   len(reviews),
		"AverageRating": avgRating,
	}

	datas := helpers.GetBaseData(r, dataMap)
	_ = h.render.HTML(w, http.StatusOK, "product", datas)
}
