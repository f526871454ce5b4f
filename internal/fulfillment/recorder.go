package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fefebeatz/moungshop/internal/domain"
	"github.com/fefebeatz/moungshop/internal/payments"
	"github.com/fefebeatz/moungshop/internal/repository"
)

// ProductStore is the slice of the catalog the recorder needs: read a
// product and overwrite its stock.
type ProductStore interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	SetStock(ctx context.Context, productID string, stock int64) error
}

// EventPublisher announces recorded orders downstream. Publishing is
// best-effort and never fails the webhook delivery.
type EventPublisher interface {
	PublishOrderRecorded(ctx context.Context, order *domain.Order) error
}

// Recorder turns a verified completed-payment session into a durable order
// record plus per-product stock adjustments.
type Recorder struct {
	gateway  payments.Gateway
	products ProductStore
	orders   repository.OrderRepository
	events   EventPublisher // optional
}

func NewRecorder(gateway payments.Gateway, products ProductStore, orders repository.OrderRepository, events EventPublisher) *Recorder {
	return &Recorder{
		gateway:  gateway,
		products: products,
		orders:   orders,
		events:   events,
	}
}

// Record creates exactly one order for the session. A redelivered session is
// detected up front (and backstopped by the unique index on session id) and
// handled as a no-op returning the already-recorded order.
func (r *Recorder) Record(ctx context.Context, session *payments.CompletedSession) (*domain.Order, error) {
	metadata, err := domain.MetadataFromMap(session.Metadata)
	if err != nil {
		return nil, err
	}

	existing, err := r.orders.GetOrderBySessionID(ctx, session.ID)
	if err == nil {
		log.Printf("order for session %s already recorded, skipping redelivery", session.ID)
		return existing, nil
	}
	if !errors.Is(err, repository.ErrOrderNotFound) {
		return nil, fmt.Errorf("failed to check for existing order: %w", err)
	}

	lineItems, err := r.gateway.SessionLineItems(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session line items: %w", err)
	}

	items := r.processLineItems(ctx, session.ID, lineItems)

	order := &domain.Order{
		OrderNumber:     metadata.OrderNumber,
		SessionID:       session.ID,
		PaymentIntentID: session.PaymentIntentID,
		CustomerID:      session.CustomerID,
		CustomerName:    metadata.CustomerName,
		CustomerEmail:   metadata.CustomerEmail,
		Email:           metadata.CustomerEmail,
		UserID:          metadata.UserID,
		Currency:        session.Currency,
		AmountDiscount:  session.AmountDiscount,
		Items:           items,
		TotalPrice:      session.AmountTotal,
		Status:          domain.OrderStatusPaid,
		OrderDate:       time.Now().UTC(),
	}

	if err := r.orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			log.Printf("order for session %s was recorded concurrently, skipping", session.ID)
			return r.orders.GetOrderBySessionID(ctx, session.ID)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if r.events != nil {
		if err := r.events.PublishOrderRecorded(ctx, order); err != nil {
			log.Printf("failed to publish order recorded event for %s: %v", order.OrderNumber, err)
		}
	}

	return order, nil
}

// processLineItems resolves each line item back to a content-store product
// and decrements its stock. A line item with no product reference is dropped
// from the order; a failed stock update is logged and isolated, it aborts
// neither the remaining items nor order creation.
func (r *Recorder) processLineItems(ctx context.Context, sessionID string, lineItems []payments.SessionLineItem) []domain.OrderLineItem {
	items := make([]domain.OrderLineItem, 0, len(lineItems))
	for _, li := range lineItems {
		if li.ProductID == "" {
			log.Printf("line item in session %s has no product reference, dropping it", sessionID)
			continue
		}

		if err := r.decrementStock(ctx, li.ProductID, li.Quantity); err != nil {
			log.Printf("stock update failed for product %s: %v", li.ProductID, err)
		}

		items = append(items, domain.OrderLineItem{
			Key:       uuid.NewString(),
			ProductID: li.ProductID,
			Quantity:  li.Quantity,
		})
	}
	return items
}

// decrementStock floors the new stock at zero. Products without a numeric
// stock field are not stock-tracked and are left untouched.
func (r *Recorder) decrementStock(ctx context.Context, productID string, quantity int64) error {
	product, err := r.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.Stock == nil {
		return nil
	}

	newStock := *product.Stock - quantity
	if newStock < 0 {
		newStock = 0
	}

	return r.products.SetStock(ctx, productID, newStock)
}
