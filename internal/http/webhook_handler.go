package http

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/fefebeatz/moungshop/internal/domain"
	"github.com/fefebeatz/moungshop/internal/payments"
)

// OrderRecorder is the fulfillment entry point invoked for verified
// completed-payment events.
type OrderRecorder interface {
	Record(ctx context.Context, session *payments.CompletedSession) (*domain.Order, error)
}

type WebhookHandler struct {
	verifier  payments.Verifier
	recorder  OrderRecorder
	hasSecret bool
}

func NewWebhookHandler(verifier payments.Verifier, recorder OrderRecorder, hasSecret bool) *WebhookHandler {
	return &WebhookHandler{
		verifier:  verifier,
		recorder:  recorder,
		hasSecret: hasSecret,
	}
}

type WebhookResponseDTO struct {
	Received bool `json:"received"`
}

// POST /webhook
//
// The provider retries deliveries that receive a 5xx, so a fulfillment
// failure is surfaced as 500 and never retried locally.
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable_body", "could not read request body")
		return
	}

	sig := r.Header.Get("Stripe-Signature")
	if sig == "" {
		respondError(w, http.StatusBadRequest, "missing_signature", "no signature header")
		return
	}

	// A missing secret is a deployment defect: reject everything rather
	// than processing a single unverified event.
	if !h.hasSecret {
		log.Printf("webhook signing secret is not configured, rejecting delivery")
		respondError(w, http.StatusBadRequest, "missing_secret", "webhook signing secret is not configured")
		return
	}

	event, err := h.verifier.VerifyEvent(body, sig)
	if err != nil {
		log.Printf("webhook verification failed: %v", err)
		respondError(w, http.StatusBadRequest, "verification_failed", "webhook verification failed")
		return
	}

	if event.Type == payments.EventCheckoutSessionCompleted {
		order, err := h.recorder.Record(r.Context(), event.Session)
		if err != nil {
			log.Printf("failed to record order for session %s: %v", event.Session.ID, err)
			recordOrderOperation("record", false)
			respondError(w, http.StatusInternalServerError, "recording_failed", "failed to record order")
			return
		}
		recordOrderOperation("record", true)
		log.Printf("order %s recorded for session %s", order.OrderNumber, order.SessionID)
	}

	// Unhandled event types are acknowledged, not errors.
	respondJSON(w, http.StatusOK, WebhookResponseDTO{Received: true})
}
