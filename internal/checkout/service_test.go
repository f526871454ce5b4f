package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fefebeatz/moungshop/internal/domain"
	"github.com/fefebeatz/moungshop/internal/payments"
)

type mockResolver struct {
	products map[string]*domain.Product
	err      error
}

func (m *mockResolver) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, errors.New("product not found")
	}
	return p, nil
}

type mockGateway struct {
	customerID   string
	findErr      error
	sessionURL   string
	createErr    error
	findCalls    int
	createCalls  int
	createParams payments.SessionParams
}

func (m *mockGateway) FindCustomerByEmail(context.Context, string) (string, error) {
	m.findCalls++
	return m.customerID, m.findErr
}

func (m *mockGateway) CreateCheckoutSession(_ context.Context, params payments.SessionParams) (string, error) {
	m.createCalls++
	m.createParams = params
	if m.createErr != nil {
		return "", m.createErr
	}
	return m.sessionURL, nil
}

func (m *mockGateway) SessionLineItems(context.Context, string) ([]payments.SessionLineItem, error) {
	return nil, errors.New("not implemented")
}

func price(v int64) *int64 { return &v }

func testMetadata() domain.CheckoutMetadata {
	return domain.CheckoutMetadata{
		OrderNumber:   "X",
		CustomerName:  "Ada",
		CustomerEmail: "a@b.com",
		UserID:        "user-1",
	}
}

func newTestService(resolver *mockResolver, gateway *mockGateway) *Service {
	return NewService(resolver, gateway, Config{
		BaseURL:  "https://shop.example.com",
		Currency: "XAF",
	})
}

func TestCreateSession_EmptyBasket(t *testing.T) {
	gateway := &mockGateway{}
	svc := newTestService(&mockResolver{}, gateway)

	url, err := svc.CreateSession(context.Background(), nil, testMetadata())

	assert.ErrorIs(t, err, ErrEmptyBasket)
	assert.Empty(t, url)
	assert.Zero(t, gateway.createCalls)
}

func TestCreateSession_MissingPrice_NoRemoteCall(t *testing.T) {
	resolver := &mockResolver{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Shirt", Price: price(1000)},
		"p2": {ID: "p2", Name: "Hat"}, // no price set
	}}
	gateway := &mockGateway{}
	svc := newTestService(resolver, gateway)

	entries := []domain.BasketEntry{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 2},
	}

	url, err := svc.CreateSession(context.Background(), entries, testMetadata())

	assert.ErrorIs(t, err, ErrMissingPrice)
	assert.Empty(t, url)
	assert.Zero(t, gateway.findCalls)
	assert.Zero(t, gateway.createCalls)
}

func TestCreateSession_NegativePrice_NoRemoteCall(t *testing.T) {
	resolver := &mockResolver{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Shirt", Price: price(-100)},
	}}
	gateway := &mockGateway{}
	svc := newTestService(resolver, gateway)

	entries := []domain.BasketEntry{{ProductID: "p1", Quantity: 1}}

	url, err := svc.CreateSession(context.Background(), entries, testMetadata())

	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.Empty(t, url)
	assert.Zero(t, gateway.findCalls)
	assert.Zero(t, gateway.createCalls)
}

func TestCreateSession_InvalidMetadata(t *testing.T) {
	gateway := &mockGateway{}
	svc := newTestService(&mockResolver{}, gateway)

	entries := []domain.BasketEntry{{ProductID: "p1", Quantity: 1}}
	metadata := testMetadata()
	metadata.OrderNumber = ""

	_, err := svc.CreateSession(context.Background(), entries, metadata)

	assert.ErrorIs(t, err, domain.ErrInvalidMetadata)
	assert.Zero(t, gateway.createCalls)
}

func TestCreateSession_PreservesQuantityAndPrice(t *testing.T) {
	resolver := &mockResolver{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Shirt", Price: price(1000), ImageURL: "https://img/p1.png"},
	}}
	gateway := &mockGateway{sessionURL: "https://pay.example.com/s/abc"}
	svc := newTestService(resolver, gateway)

	entries := []domain.BasketEntry{{ProductID: "p1", Quantity: 2}}

	url, err := svc.CreateSession(context.Background(), entries, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/s/abc", url)

	require.Equal(t, 1, gateway.createCalls)
	require.Len(t, gateway.createParams.LineItems, 1)
	item := gateway.createParams.LineItems[0]
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, int64(2), item.Quantity)
	require.NotNil(t, item.Price)
	assert.Equal(t, int64(1000), *item.Price)
	assert.Equal(t, "XAF", gateway.createParams.Currency)
}

func TestCreateSession_GroupsDuplicateEntries(t *testing.T) {
	resolver := &mockResolver{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Shirt", Price: price(1000)},
		"p2": {ID: "p2", Name: "Hat", Price: price(500)},
	}}
	gateway := &mockGateway{sessionURL: "https://pay.example.com/s/abc"}
	svc := newTestService(resolver, gateway)

	entries := []domain.BasketEntry{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 3},
	}

	_, err := svc.CreateSession(context.Background(), entries, testMetadata())
	require.NoError(t, err)

	// one line item per distinct product, quantities summed
	require.Len(t, gateway.createParams.LineItems, 2)
	assert.Equal(t, int64(4), gateway.createParams.LineItems[0].Quantity)
	assert.Equal(t, int64(1), gateway.createParams.LineItems[1].Quantity)
}

func TestCreateSession_ExistingCustomer(t *testing.T) {
	resolver := &mockResolver{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Shirt", Price: price(1000)},
	}}
	gateway := &mockGateway{customerID: "cus_123", sessionURL: "https://pay.example.com/s/abc"}
	svc := newTestService(resolver, gateway)

	entries := []domain.BasketEntry{{ProductID: "p1", Quantity: 1}}

	_, err := svc.CreateSession(context.Background(), entries, testMetadata())
	require.NoError(t, err)

	assert.Equal(t, "cus_123", gateway.createParams.CustomerID)
	assert.Empty(t, gateway.createParams.CustomerEmail)
}

func TestCreateSession_NewCustomer(t *testing.T) {
	resolver := &mockResolver{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Shirt", Price: price(1000)},
	}}
	gateway := &mockGateway{sessionURL: "https://pay.example.com/s/abc"}
	svc := newTestService(resolver, gateway)

	entries := []domain.BasketEntry{{ProductID: "p1", Quantity: 1}}

	_, err := svc.CreateSession(context.Background(), entries, testMetadata())
	require.NoError(t, err)

	assert.Empty(t, gateway.createParams.CustomerID)
	assert.Equal(t, "a@b.com", gateway.createParams.CustomerEmail)
}

func TestCreateSession_RedirectURLs(t *testing.T) {
	resolver := &mockResolver{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Shirt", Price: price(1000)},
	}}
	gateway := &mockGateway{sessionURL: "https://pay.example.com/s/abc"}
	svc := newTestService(resolver, gateway)

	entries := []domain.BasketEntry{{ProductID: "p1", Quantity: 1}}

	_, err := svc.CreateSession(context.Background(), entries, testMetadata())
	require.NoError(t, err)

	assert.Equal(t,
		"https://shop.example.com/success?session_id={CHECKOUT_SESSION_ID}&orderNumber=X",
		gateway.createParams.SuccessURL)
	assert.Equal(t, "https://shop.example.com/basket", gateway.createParams.CancelURL)
}

func TestCreateSession_LookupErrorPropagates(t *testing.T) {
	resolver := &mockResolver{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Shirt", Price: price(1000)},
	}}
	gateway := &mockGateway{findErr: errors.New("provider down")}
	svc := newTestService(resolver, gateway)

	entries := []domain.BasketEntry{{ProductID: "p1", Quantity: 1}}

	_, err := svc.CreateSession(context.Background(), entries, testMetadata())

	require.Error(t, err)
	assert.Zero(t, gateway.createCalls)
}

func TestCreateSession_CreateErrorPropagates(t *testing.T) {
	resolver := &mockResolver{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Shirt", Price: price(1000)},
	}}
	gateway := &mockGateway{createErr: errors.New("provider down")}
	svc := newTestService(resolver, gateway)

	entries := []domain.BasketEntry{{ProductID: "p1", Quantity: 1}}

	url, err := svc.CreateSession(context.Background(), entries, testMetadata())

	require.Error(t, err)
	assert.Empty(t, url)
	assert.Equal(t, 1, gateway.createCalls)
}
