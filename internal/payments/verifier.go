package payments

import (
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
)

// StripeVerifier checks webhook deliveries against the shared signing secret.
type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

func (v *StripeVerifier) VerifyEvent(payload []byte, sigHeader string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, sigHeader, v.secret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	event := &Event{Type: string(stripeEvent.Type)}
	if event.Type != EventCheckoutSessionCompleted {
		return event, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(stripeEvent.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session payload: %w", err)
	}

	event.Session = completedSessionFromStripe(&session)
	return event, nil
}

func completedSessionFromStripe(s *stripe.CheckoutSession) *CompletedSession {
	cs := &CompletedSession{
		ID:          s.ID,
		AmountTotal: s.AmountTotal,
		Currency:    string(s.Currency),
		Metadata:    s.Metadata,
	}
	if s.PaymentIntent != nil {
		cs.PaymentIntentID = s.PaymentIntent.ID
	}
	if s.Customer != nil {
		cs.CustomerID = s.Customer.ID
	}
	if s.TotalDetails != nil {
		cs.AmountDiscount = s.TotalDetails.AmountDiscount
	}
	return cs
}
