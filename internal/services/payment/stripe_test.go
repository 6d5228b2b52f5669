package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"
)

const testSecret = "whsec_test"

func signedPayload(t *testing.T, payload string) (string, []byte) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testSecret,
		Timestamp: time.Now(),
	})
	return signed.Header, signed.Payload
}

func TestParseWebhook_CheckoutCompleted(t *testing.T) {
	g := NewStripeGateway("sk_test", testSecret)
	header, body := signedPayload(t, fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"api_version": "%s",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_123", "object": "checkout.session", "client_reference_id": "order-42", "payment_intent": "pi_9"}}
	}`, stripe.APIVersion))

	ev, err := g.ParseWebhook(body, header)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, ev.Kind)
	assert.Equal(t, "cs_123", ev.SessionID)
	assert.Equal(t, uint(42), ev.OrderID)
	assert.Equal(t, "pi_9", ev.PaymentIntentID)
}

func TestParseWebhook_PaymentFailed(t *testing.T) {
	g := NewStripeGateway("sk_test", testSecret)
	header, body := signedPayload(t, fmt.Sprintf(`{
		"id": "evt_2",
		"object": "event",
		"api_version": "%s",
		"type": "payment_intent.payment_failed",
		"data": {"object": {"id": "pi_7", "object": "payment_intent", "transfer_group": "order-5"}}
	}`, stripe.APIVersion))

	ev, err := g.ParseWebhook(body, header)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentFailed, ev.Kind)
	assert.Equal(t, uint(5), ev.OrderID)
	assert.Equal(t, "pi_7", ev.PaymentIntentID)
}

func TestParseWebhook_RejectsBadSignature(t *testing.T) {
	g := NewStripeGateway("sk_test", testSecret)
	_, body := signedPayload(t, `{"id":"evt_3","type":"checkout.session.completed"}`)

	_, err := g.ParseWebhook(body, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = NewStripeGateway("sk_test", "").ParseWebhook(body, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOrderIDFromReference(t *testing.T) {
	assert.Equal(t, uint(17), orderIDFromReference(TransferGroup(17)))
	assert.Zero(t, orderIDFromReference(""))
	assert.Zero(t, orderIDFromReference("order-abc"))
}
