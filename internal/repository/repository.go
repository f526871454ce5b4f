package repository

import (
	"context"
	"errors"

	"github.com/fefebeatz/moungshop/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	// ErrDuplicateOrder is returned when an order for the same provider
	// session id already exists (unique index backstop).
	ErrDuplicateOrder = errors.New("order for this checkout session already exists")
)

// ProductRepository defines the content-store operations on products.
// Consumers define this interface, not the MongoDB implementation.
type ProductRepository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	UpsertProduct(ctx context.Context, product *domain.Product) error
	// SetProductStock overwrites the stock field with an absolute value.
	// Clamping happens in the caller; the write itself is a plain set.
	SetProductStock(ctx context.Context, id string, stock int64) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
}
