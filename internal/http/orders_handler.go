package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fefebeatz/moungshop/internal/domain"
	"github.com/fefebeatz/moungshop/internal/repository"
)

type OrdersHandler struct {
	orders repository.OrderRepository
}

func NewOrdersHandler(orders repository.OrderRepository) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

type OrderItemDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type OrderResponseDTO struct {
	ID             string         `json:"id"`
	OrderNumber    string         `json:"order_number"`
	CustomerName   string         `json:"customer_name"`
	CustomerEmail  string         `json:"customer_email"`
	Currency       string         `json:"currency"`
	AmountDiscount int64          `json:"amount_discount"`
	TotalPrice     int64          `json:"total_price"`
	Status         string         `json:"status"`
	Items          []OrderItemDTO `json:"items"`
	OrderDate      string         `json:"order_date"`
}

// GET /api/v1/orders?user_id=...
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}

	orders, err := h.orders.ListOrdersByUserID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}

	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_number}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "order_number")
	if orderNumber == "" {
		respondError(w, http.StatusBadRequest, "missing_order_number", "order_number is required")
		return
	}

	order, err := h.orders.GetOrderByNumber(r.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get order")
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	return OrderResponseDTO{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		Currency:       o.Currency,
		AmountDiscount: o.AmountDiscount,
		TotalPrice:     o.TotalPrice,
		Status:         string(o.Status),
		Items:          items,
		OrderDate:      o.OrderDate.Format(time.RFC3339),
	}
}
