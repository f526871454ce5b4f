package payments

import (
	"context"

	"github.com/fefebeatz/moungshop/internal/domain"
)

// EventCheckoutSessionCompleted is the only provider event type this system
// acts on; everything else is acknowledged and ignored.
const EventCheckoutSessionCompleted = "checkout.session.completed"

// SessionParams carries everything needed for one session-creation call.
// Exactly one of CustomerID / CustomerEmail is set: a resolved provider
// customer binds the session, otherwise the email is passed through and
// new-customer creation is requested.
type SessionParams struct {
	CustomerID    string
	CustomerEmail string
	Metadata      domain.CheckoutMetadata
	SuccessURL    string
	CancelURL     string
	Currency      string
	LineItems     []domain.BasketLineItem
}

// SessionLineItem is a line item read back from a completed session with
// nested product expansion. ProductID is empty when the provider product
// carries no content-store reference in its metadata.
type SessionLineItem struct {
	ProductID string
	Quantity  int64
}

// CompletedSession is the session-level view the fulfillment recorder needs,
// extracted from the provider's webhook payload.
type CompletedSession struct {
	ID              string
	AmountTotal     int64
	Currency        string
	Metadata        map[string]string
	PaymentIntentID string
	CustomerID      string
	AmountDiscount  int64
}

// Event is a verified provider notification.
type Event struct {
	Type    string
	Session *CompletedSession // set for checkout.session.completed
}

// Gateway defines the payment-provider operations used by the session
// builder and the fulfillment recorder.
type Gateway interface {
	// FindCustomerByEmail returns the first matching customer id, or ""
	// when no customer exists for that email.
	FindCustomerByEmail(ctx context.Context, email string) (string, error)
	// CreateCheckoutSession creates one hosted session and returns its
	// redirect URL.
	CreateCheckoutSession(ctx context.Context, params SessionParams) (string, error)
	// SessionLineItems re-fetches a session's line items with nested
	// product expansion; the webhook payload alone does not carry them.
	SessionLineItems(ctx context.Context, sessionID string) ([]SessionLineItem, error)
}

// Verifier authenticates a raw webhook delivery against the signing secret.
type Verifier interface {
	VerifyEvent(payload []byte, sigHeader string) (*Event, error)
}
