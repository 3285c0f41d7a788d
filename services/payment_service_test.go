package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
	"github.com/shareshelf/shareshelf/ws"
)

const testWebhookSecret = "whsec_test_secret"

func newPaymentService(pub *recordingPublisher) PaymentService {
	sc := &client.API{}
	sc.Init("sk_test_dummy", nil)
	return NewPaymentService(sc, testWebhookSecret, pub)
}

// signWebhookPayload, Stripe'ın webhook imza şemasını üretir:
// Stripe-Signature: t=<unix>,v1=<hex(HMAC-SHA256(secret, "<unix>.<payload>"))>
func signWebhookPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func webhookPayload(eventType, userID string) []byte {
	metadata := "{}"
	if userID != "" {
		metadata = fmt.Sprintf(`{"userId":%q}`, userID)
	}
	return []byte(fmt.Sprintf(
		`{"id":"evt_test_1","type":%q,"api_version":%q,"data":{"object":{"id":"pi_test_1","status":"succeeded","metadata":%s}}}`,
		eventType, stripe.APIVersion, metadata))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newPaymentService(pub)

	payload := webhookPayload("payment_intent.succeeded", "user-1")

	err := svc.HandleWebhook(payload, "t=1,v1=deadbeef")
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	assert.Empty(t, pub.all())

	// Doğru formatta ama yanlış secret ile imzalanmış header da reddedilir.
	err = svc.HandleWebhook(payload, signWebhookPayload(payload, "whsec_wrong"))
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestWebhookPaymentSucceededNotifiesUser(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newPaymentService(pub)

	payload := webhookPayload("payment_intent.succeeded", "user-1")

	err := svc.HandleWebhook(payload, signWebhookPayload(payload, testWebhookSecret))
	require.NoError(t, err)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, ws.OpPaymentSucceeded, events[0].Op)

	data, ok := events[0].Data.(ws.PaymentEventData)
	require.True(t, ok)
	assert.Equal(t, "pi_test_1", data.PaymentIntentID)
	assert.Equal(t, "succeeded", data.Status)
}

func TestWebhookPaymentFailedNotifiesUser(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newPaymentService(pub)

	payload := webhookPayload("payment_intent.payment_failed", "user-1")

	err := svc.HandleWebhook(payload, signWebhookPayload(payload, testWebhookSecret))
	require.NoError(t, err)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, ws.OpPaymentFailed, events[0].Op)
}

func TestWebhookWithoutUserIDIsSilent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newPaymentService(pub)

	// Metadata'da userId yok — bildirim gidecek kullanıcı bilinmiyor.
	// Webhook yine başarılı sayılır, Stripe'a tekrar ettirilmez.
	payload := webhookPayload("payment_intent.succeeded", "")

	err := svc.HandleWebhook(payload, signWebhookPayload(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Empty(t, pub.all())
}

func TestWebhookUnhandledEventType(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newPaymentService(pub)

	payload := webhookPayload("charge.refunded", "user-1")

	err := svc.HandleWebhook(payload, signWebhookPayload(payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Empty(t, pub.all())
}

func TestCreateIntentValidation(t *testing.T) {
	svc := newPaymentService(&recordingPublisher{})

	tests := []struct {
		name string
		req  *models.CreatePaymentIntentRequest
	}{
		{"zero amount", &models.CreatePaymentIntentRequest{Currency: "inr", PaymentMethodType: "card"}},
		{"missing currency", &models.CreatePaymentIntentRequest{Amount: 5000, PaymentMethodType: "card"}},
		{"missing payment method type", &models.CreatePaymentIntentRequest{Amount: 5000, Currency: "inr"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.CreateIntent(context.Background(), tt.req)
			assert.ErrorIs(t, err, pkg.ErrBadRequest)
			assert.Nil(t, resp)
		})
	}
}

func TestGetStatusRequiresID(t *testing.T) {
	svc := newPaymentService(&recordingPublisher{})

	resp, err := svc.GetStatus(context.Background(), "")
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	assert.Nil(t, resp)
}
