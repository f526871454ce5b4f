package payments

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker/v2"
	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/fefebeatz/moungshop/internal/domain"
)

// fallbackProductName is used when a product document has no name.
const fallbackProductName = "Unnamed product"

// StripeGateway is the process-wide Stripe client. Constructed once at
// startup and injected into the handlers, never re-instantiated per call.
type StripeGateway struct {
	sc *client.API
	cb *gobreaker.CircuitBreaker[any]
}

func NewStripeGateway(apiKey string) *StripeGateway {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name: "stripe",
	})
	return &StripeGateway{
		sc: client.New(apiKey, nil),
		cb: cb,
	}
}

func (g *StripeGateway) FindCustomerByEmail(ctx context.Context, email string) (string, error) {
	v, err := g.cb.Execute(func() (any, error) {
		params := &stripe.CustomerListParams{
			Email: stripe.String(email),
		}
		params.Context = ctx
		params.Limit = stripe.Int64(1)

		iter := g.sc.Customers.List(params)
		if iter.Next() {
			return iter.Customer().ID, nil
		}
		if err := iter.Err(); err != nil {
			return "", fmt.Errorf("failed to list customers: %w", err)
		}
		return "", nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p SessionParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:                stripe.String(string(stripe.CheckoutSessionModePayment)),
		AllowPromotionCodes: stripe.Bool(true),
		SuccessURL:          stripe.String(p.SuccessURL),
		CancelURL:           stripe.String(p.CancelURL),
		LineItems:           buildLineItems(p.Currency, p.LineItems),
	}
	params.Context = ctx

	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	} else {
		params.CustomerCreation = stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways))
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}

	for k, val := range p.Metadata.ToMap() {
		params.AddMetadata(k, val)
	}

	v, err := g.cb.Execute(func() (any, error) {
		session, err := g.sc.CheckoutSessions.New(params)
		if err != nil {
			return "", fmt.Errorf("failed to create checkout session: %w", err)
		}
		return session.URL, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (g *StripeGateway) SessionLineItems(ctx context.Context, sessionID string) ([]SessionLineItem, error) {
	v, err := g.cb.Execute(func() (any, error) {
		params := &stripe.CheckoutSessionListLineItemsParams{
			Session: stripe.String(sessionID),
		}
		params.Context = ctx
		params.AddExpand("data.price.product")

		var items []SessionLineItem
		iter := g.sc.CheckoutSessions.ListLineItems(params)
		for iter.Next() {
			li := iter.LineItem()
			items = append(items, SessionLineItem{
				ProductID: productIDFromLineItem(li),
				Quantity:  li.Quantity,
			})
		}
		if err := iter.Err(); err != nil {
			return nil, fmt.Errorf("failed to list session line items: %w", err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]SessionLineItem), nil
}

func buildLineItems(currency string, items []domain.BasketLineItem) []*stripe.CheckoutSessionLineItemParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = fallbackProductName
		}

		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String(name),
			Description: stripe.String(fmt.Sprintf("Product ID: %s", item.ProductID)),
			Metadata:    map[string]string{"id": item.ProductID},
		}
		if item.ImageURL != "" {
			productData.Images = []*string{stripe.String(item.ImageURL)}
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(currency),
				UnitAmount:  stripe.Int64(*item.Price),
				ProductData: productData,
			},
		})
	}
	return lineItems
}

func productIDFromLineItem(li *stripe.LineItem) string {
	if li.Price == nil || li.Price.Product == nil {
		return ""
	}
	return li.Price.Product.Metadata["id"]
}
