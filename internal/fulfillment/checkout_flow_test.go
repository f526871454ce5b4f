package fulfillment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefebeatz/moungshop/internal/checkout"
	"github.com/fefebeatz/moungshop/internal/domain"
	"github.com/fefebeatz/moungshop/internal/payments"
)

// flowGateway plays both sides of the provider: it captures the session
// params the builder sends and serves them back to the recorder the way the
// provider does, with each line item carrying the product reference that was
// stamped into its metadata at creation time.
type flowGateway struct {
	params payments.SessionParams
}

func (g *flowGateway) FindCustomerByEmail(context.Context, string) (string, error) {
	return "", nil
}

func (g *flowGateway) CreateCheckoutSession(_ context.Context, params payments.SessionParams) (string, error) {
	g.params = params
	return "https://pay.example.com/s/flow", nil
}

func (g *flowGateway) SessionLineItems(context.Context, string) ([]payments.SessionLineItem, error) {
	items := make([]payments.SessionLineItem, 0, len(g.params.LineItems))
	for _, li := range g.params.LineItems {
		items = append(items, payments.SessionLineItem{
			ProductID: li.ProductID,
			Quantity:  li.Quantity,
		})
	}
	return items, nil
}

// completedSession fabricates the webhook view of the captured session. The
// metadata makes the same map round-trip it would through the provider.
func (g *flowGateway) completedSession() *payments.CompletedSession {
	var total int64
	for _, li := range g.params.LineItems {
		total += *li.Price * li.Quantity
	}
	return &payments.CompletedSession{
		ID:              "cs_flow_1",
		AmountTotal:     total,
		Currency:        g.params.Currency,
		Metadata:        g.params.Metadata.ToMap(),
		PaymentIntentID: "pi_flow_1",
	}
}

func amount(v int64) *int64 { return &v }

func TestCheckoutToOrderRoundTrip(t *testing.T) {
	ctx := context.Background()

	products := newMockProductStore()
	products.products["p1"] = &domain.Product{ID: "p1", Name: "Shirt", Price: amount(1000), Stock: amount(10)}
	products.products["p2"] = &domain.Product{ID: "p2", Name: "Hat", Price: amount(500), Stock: amount(3)}

	gateway := &flowGateway{}
	builder := checkout.NewService(products, gateway, checkout.Config{
		BaseURL:  "https://shop.example.com",
		Currency: "XAF",
	})

	metadata := domain.CheckoutMetadata{
		OrderNumber:   "ORD-FLOW-1",
		CustomerName:  "Ada",
		CustomerEmail: "a@b.com",
		UserID:        "user-1",
	}
	entries := []domain.BasketEntry{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 1},
	}

	url, err := builder.CreateSession(ctx, entries, metadata)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/s/flow", url)

	orders := newMockOrderRepo()
	recorder := NewRecorder(gateway, products, orders, nil)

	order, err := recorder.Record(ctx, gateway.completedSession())
	require.NoError(t, err)

	// metadata survives the ToMap/FromMap round trip
	assert.Equal(t, "ORD-FLOW-1", order.OrderNumber)
	assert.Equal(t, "Ada", order.CustomerName)
	assert.Equal(t, "a@b.com", order.CustomerEmail)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.Equal(t, int64(3500), order.TotalPrice)

	// grouped line items come back as order items with the same quantities
	require.Len(t, order.Items, 2)
	assert.Equal(t, "p1", order.Items[0].ProductID)
	assert.Equal(t, int64(3), order.Items[0].Quantity)
	assert.Equal(t, "p2", order.Items[1].ProductID)
	assert.Equal(t, int64(1), order.Items[1].Quantity)

	// and stock was decremented per product
	assert.Equal(t, int64(7), products.stockSet["p1"])
	assert.Equal(t, int64(2), products.stockSet["p2"])
}
