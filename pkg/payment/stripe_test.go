package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

func sign(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompletedPayload() []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"payment_status": "paid",
			"metadata": {"user_id": "user-123", "user_email": "jane@example.com"}
		}}
	}`, stripe.APIVersion))
}

func TestParseWebhookCheckoutCompleted(t *testing.T) {
	c := NewStripeClient(Config{SecretKey: "sk_test", WebhookSecret: testWebhookSecret})
	payload := checkoutCompletedPayload()

	event, err := c.ParseWebhook(payload, sign(payload, testWebhookSecret))
	require.NoError(t, err)

	assert.Equal(t, EventCheckoutCompleted, event.Type)
	require.NotNil(t, event.Session)
	assert.Equal(t, "cs_test_1", event.Session.ID)
	assert.Equal(t, "user-123", event.Session.UserID)
	assert.True(t, event.Session.Paid)
}

func TestParseWebhookRejectsBadSignature(t *testing.T) {
	c := NewStripeClient(Config{SecretKey: "sk_test", WebhookSecret: testWebhookSecret})
	payload := checkoutCompletedPayload()

	_, err := c.ParseWebhook(payload, sign(payload, "whsec_other"))
	assert.Error(t, err)

	_, err = c.ParseWebhook(payload, "")
	assert.ErrorIs(t, err, ErrMissingSignature)
}
