package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fefebeatz/moungshop/internal/catalog"
	"github.com/fefebeatz/moungshop/internal/checkout"
	"github.com/fefebeatz/moungshop/internal/domain"
)

type CheckoutHandler struct {
	service *checkout.Service
}

func NewCheckoutHandler(service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

type CheckoutItemDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CheckoutRequestDTO struct {
	Items         []CheckoutItemDTO `json:"items"`
	OrderNumber   string            `json:"order_number"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	UserID        string            `json:"user_id"`
}

type CheckoutResponseDTO struct {
	URL string `json:"url"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	entries := make([]domain.BasketEntry, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "each item needs a quantity of at least 1")
			return
		}
		entries = append(entries, domain.BasketEntry{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	metadata := domain.CheckoutMetadata{
		OrderNumber:   req.OrderNumber,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		UserID:        req.UserID,
	}

	url, err := h.service.CreateSession(r.Context(), entries, metadata)
	if err != nil {
		recordOrderOperation("checkout", false)
		handleCheckoutError(w, err)
		return
	}

	recordOrderOperation("checkout", true)
	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{URL: url})
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyBasket):
		respondError(w, http.StatusBadRequest, "empty_basket", err.Error())
	case errors.Is(err, checkout.ErrMissingPrice):
		respondError(w, http.StatusBadRequest, "missing_price", err.Error())
	case errors.Is(err, checkout.ErrInvalidPrice):
		respondError(w, http.StatusBadRequest, "invalid_price", err.Error())
	case errors.Is(err, domain.ErrInvalidMetadata):
		respondError(w, http.StatusBadRequest, "invalid_metadata", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusBadRequest, "unknown_product", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "checkout_failed", "could not create checkout session")
	}
}
