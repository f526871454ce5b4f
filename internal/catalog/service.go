package catalog

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fefebeatz/moungshop/internal/cache"
	"github.com/fefebeatz/moungshop/internal/domain"
	"github.com/fefebeatz/moungshop/internal/repository"
	"golang.org/x/sync/singleflight"
)

var ErrProductNotFound = repository.ErrProductNotFound

// Service serves product reads for browsing and for checkout-time price
// snapshots, with a cache-aside Redis layer in front of the content store.
type Service struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo repository.ProductRepository, cache cache.ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(productID, func() (interface{}, error) {

		product, err := s.cache.Get(ctx, productID)
		if err == nil {
			return product, nil // product is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		product, errGet := s.repo.GetProduct(ctx, productID)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), productID, product)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

// ListProducts always goes to the content store; the listing is not cached.
func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

// SetStock overwrites a product's stock and invalidates its cache entry so
// the next browse sees the decremented value.
func (s *Service) SetStock(ctx context.Context, productID string, stock int64) error {
	if err := s.repo.SetProductStock(ctx, productID, stock); err != nil {
		return err
	}

	invalidateCache(s, productID)
	return nil
}

func invalidateCache(s *Service, productID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, productID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v", errInvalidate)
	}
}
