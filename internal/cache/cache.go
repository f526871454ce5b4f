package cache

import (
	"context"
	"errors"

	"github.com/fefebeatz/moungshop/internal/domain"
)

type ProductCache interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Set(ctx context.Context, productID string, product *domain.Product) error
	Delete(ctx context.Context, productID string) error
}

var ErrCacheMiss = errors.New("cache miss")
