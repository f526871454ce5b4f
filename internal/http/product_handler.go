package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fefebeatz/moungshop/internal/catalog"
	"github.com/fefebeatz/moungshop/internal/domain"
)

type ProductHandler struct {
	catalog *catalog.Service
}

func NewProductHandler(catalog *catalog.Service) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	Price       *int64 `json:"price,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Stock       *int64 `json:"stock,omitempty"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

// GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	resp := ProductsResponse{Products: make([]ProductResponse, 0, len(products))}
	for _, p := range products {
		resp.Products = append(resp.Products, convertProduct(p))
	}

	respondJSON(w, http.StatusOK, resp)
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "missing_product_id", "product_id is required")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, convertProduct(product))
}

func convertProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
	}
}
