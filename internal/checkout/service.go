package checkout

import (
	"context"
	"fmt"

	"github.com/fefebeatz/moungshop/internal/domain"
	"github.com/fefebeatz/moungshop/internal/payments"
)

// ProductResolver snapshots product data at checkout time. Satisfied by the
// catalog service.
type ProductResolver interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

type Config struct {
	// BaseURL is chosen per deployment environment; the success and cancel
	// redirect targets are derived from it.
	BaseURL string
	// Currency is the storefront's fixed operating currency for line items.
	Currency string
}

// Service builds hosted checkout sessions from basket state.
type Service struct {
	products ProductResolver
	gateway  payments.Gateway
	cfg      Config
}

func NewService(products ProductResolver, gateway payments.Gateway, cfg Config) *Service {
	return &Service{
		products: products,
		gateway:  gateway,
		cfg:      cfg,
	}
}

// CreateSession validates the basket, resolves the provider customer and
// creates exactly one checkout session. It returns the session's redirect
// URL; any error from the lookup or creation calls propagates to the caller.
func (s *Service) CreateSession(ctx context.Context, entries []domain.BasketEntry, metadata domain.CheckoutMetadata) (string, error) {
	if len(entries) == 0 {
		return "", ErrEmptyBasket
	}
	if err := metadata.Validate(); err != nil {
		return "", err
	}

	items, err := s.snapshotBasket(ctx, domain.GroupEntries(entries))
	if err != nil {
		return "", err
	}

	// A single item without a valid unit price blocks the whole checkout
	// before any remote call is made.
	for _, item := range items {
		if item.Price == nil {
			return "", ErrMissingPrice
		}
		if *item.Price < 0 {
			return "", ErrInvalidPrice
		}
	}

	customerID, err := s.gateway.FindCustomerByEmail(ctx, metadata.CustomerEmail)
	if err != nil {
		return "", fmt.Errorf("customer lookup failed: %w", err)
	}

	params := payments.SessionParams{
		Metadata:   metadata,
		SuccessURL: s.successURL(metadata.OrderNumber),
		CancelURL:  s.cancelURL(),
		Currency:   s.cfg.Currency,
		LineItems:  items,
	}
	if customerID != "" {
		params.CustomerID = customerID
	} else {
		params.CustomerEmail = metadata.CustomerEmail
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		return "", fmt.Errorf("session creation failed: %w", err)
	}

	return url, nil
}

func (s *Service) snapshotBasket(ctx context.Context, entries []domain.BasketEntry) ([]domain.BasketLineItem, error) {
	items := make([]domain.BasketLineItem, 0, len(entries))
	for _, entry := range entries {
		product, err := s.products.GetProduct(ctx, entry.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product %s: %w", entry.ProductID, err)
		}

		items = append(items, domain.BasketLineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  entry.Quantity,
		})
	}
	return items, nil
}

// successURL embeds the order number and the provider-templated session id
// placeholder, resolved by the provider on redirect.
func (s *Service) successURL(orderNumber string) string {
	return fmt.Sprintf("%s/success?session_id={CHECKOUT_SESSION_ID}&orderNumber=%s", s.cfg.BaseURL, orderNumber)
}

func (s *Service) cancelURL() string {
	return fmt.Sprintf("%s/basket", s.cfg.BaseURL)
}
