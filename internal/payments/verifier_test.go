package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

// signPayload produces a signature header the way the provider does:
// HMAC-SHA256 over "<timestamp>.<payload>" with the signing secret.
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts.Unix(), payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func completedSessionPayload() []byte {
	return []byte(`{
		"id": "evt_test_1",
		"api_version": "2022-11-15",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_123",
				"object": "checkout.session",
				"amount_total": 5000,
				"currency": "xaf",
				"payment_intent": "pi_123",
				"customer": "cus_123",
				"metadata": {
					"orderNumber": "ORD-1",
					"customerName": "Ada",
					"customerEmail": "a@b.com",
					"userId": "user-1"
				},
				"total_details": {
					"amount_discount": 250
				}
			}
		}
	}`)
}

func TestVerifyEvent_ValidCompletedSession(t *testing.T) {
	verifier := NewStripeVerifier(testSecret)
	payload := completedSessionPayload()

	event, err := verifier.VerifyEvent(payload, signPayload(payload, testSecret, time.Now()))
	require.NoError(t, err)

	assert.Equal(t, EventCheckoutSessionCompleted, event.Type)
	require.NotNil(t, event.Session)
	assert.Equal(t, "cs_test_123", event.Session.ID)
	assert.Equal(t, int64(5000), event.Session.AmountTotal)
	assert.Equal(t, "xaf", event.Session.Currency)
	assert.Equal(t, "pi_123", event.Session.PaymentIntentID)
	assert.Equal(t, "cus_123", event.Session.CustomerID)
	assert.Equal(t, int64(250), event.Session.AmountDiscount)
	assert.Equal(t, "ORD-1", event.Session.Metadata["orderNumber"])
}

func TestVerifyEvent_WrongSecret(t *testing.T) {
	verifier := NewStripeVerifier(testSecret)
	payload := completedSessionPayload()

	_, err := verifier.VerifyEvent(payload, signPayload(payload, "whsec_other", time.Now()))
	assert.Error(t, err)
}

func TestVerifyEvent_TamperedPayload(t *testing.T) {
	verifier := NewStripeVerifier(testSecret)
	payload := completedSessionPayload()
	sig := signPayload(payload, testSecret, time.Now())

	tampered := append([]byte(nil), payload...)
	tampered[len(tampered)-2] = ' '

	_, err := verifier.VerifyEvent(tampered, sig)
	assert.Error(t, err)
}

func TestVerifyEvent_StaleTimestamp(t *testing.T) {
	verifier := NewStripeVerifier(testSecret)
	payload := completedSessionPayload()

	_, err := verifier.VerifyEvent(payload, signPayload(payload, testSecret, time.Now().Add(-time.Hour)))
	assert.Error(t, err)
}

func TestVerifyEvent_OtherEventTypeHasNoSession(t *testing.T) {
	verifier := NewStripeVerifier(testSecret)
	payload := []byte(`{
		"id": "evt_test_2",
		"api_version": "2022-11-15",
		"type": "payment_intent.created",
		"data": {"object": {"id": "pi_123", "object": "payment_intent"}}
	}`)

	event, err := verifier.VerifyEvent(payload, signPayload(payload, testSecret, time.Now()))
	require.NoError(t, err)

	assert.Equal(t, "payment_intent.created", event.Type)
	assert.Nil(t, event.Session)
}
