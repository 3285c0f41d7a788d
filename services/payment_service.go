package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
	"github.com/shareshelf/shareshelf/ws"
)

// PaymentService — Stripe ile kiralama/satın alma ödemeleri.
//
// Ödeme akışı:
// 1. Frontend create-payment-intent çağırır → client secret alır
// 2. Stripe.js ile kart bilgisi doğrudan Stripe'a gider (bizim sunucu görmez)
// 3. Stripe sonucu webhook ile bildirir → imza doğrulanır, kullanıcıya
//    WS üzerinden payment_succeeded / payment_failed gönderilir
// 4. Frontend istediği an payment-status ile durumu sorgulayabilir
type PaymentService interface {
	CreateIntent(ctx context.Context, req *models.CreatePaymentIntentRequest) (*models.PaymentIntentResponse, error)
	GetStatus(ctx context.Context, paymentIntentID string) (*models.PaymentStatusResponse, error)
	// HandleWebhook, Stripe'tan gelen raw webhook body'sini işler.
	// İmza doğrulanamazsa ErrBadRequest döner — Stripe isteği tekrarlar.
	HandleWebhook(payload []byte, signature string) error
}

type paymentService struct {
	sc            *client.API
	webhookSecret string
	hub           ws.EventPublisher
}

// NewPaymentService, constructor.
//
// client.API enjekte edilir (global stripe.Key set edilmez) — testlerde
// Stripe'ın test backend'ine veya stripe-mock'a yönlendirilebilir.
func NewPaymentService(sc *client.API, webhookSecret string, hub ws.EventPublisher) PaymentService {
	return &paymentService{
		sc:            sc,
		webhookSecret: webhookSecret,
		hub:           hub,
	}
}

// CreateIntent, Stripe payment intent oluşturur ve client secret döner.
//
// Metadata Stripe'a olduğu gibi geçer — webhook geldiğinde hangi
// kullanıcı/kaynak/işlem olduğunu metadata'dan geri okuruz.
func (s *paymentService) CreateIntent(ctx context.Context, req *models.CreatePaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.sc.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &models.PaymentIntentResponse{ClientSecret: pi.ClientSecret}, nil
}

// GetStatus, payment intent'in güncel durumunu Stripe'tan okur.
func (s *paymentService) GetStatus(ctx context.Context, paymentIntentID string) (*models.PaymentStatusResponse, error) {
	if paymentIntentID == "" {
		return nil, fmt.Errorf("%w: payment intent id is required", pkg.ErrBadRequest)
	}

	pi, err := s.sc.PaymentIntents.Get(paymentIntentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}

	return &models.PaymentStatusResponse{
		Status:   string(pi.Status),
		Amount:   pi.Amount,
		Currency: string(pi.Currency),
		Metadata: pi.Metadata,
	}, nil
}

// HandleWebhook, Stripe webhook event'ini doğrular ve işler.
//
// İmza doğrulaması zorunludur: webhook endpoint'i publiktir, imzasız
// POST'larla sahte "ödeme başarılı" event'i üretilebilirdi.
func (s *paymentService) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return fmt.Errorf("%w: webhook signature verification failed", pkg.ErrBadRequest)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		s.notify(event, ws.OpPaymentSucceeded)
	case "payment_intent.payment_failed":
		s.notify(event, ws.OpPaymentFailed)
	case "payment_intent.processing":
		log.Printf("[payment] processing: %s", event.ID)
	default:
		// Stripe dashboard'da abone olunan ama burada işlenmeyen event —
		// 200 dönülür, aksi halde Stripe sürekli tekrarlar.
		log.Printf("[payment] unhandled event type: %s", event.Type)
	}

	return nil
}

// ─── Private Helpers ───

// notify, ödeme sonucunu metadata'daki kullanıcıya WS ile iletir.
// Metadata'da userId yoksa veya payload bozuksa sessizce loglanır —
// webhook yine 200 alır (Stripe'a tekrar ettirmenin faydası yok).
func (s *paymentService) notify(event stripe.Event, op string) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		log.Printf("[payment] failed to parse %s payload: %v", event.Type, err)
		return
	}

	log.Printf("[payment] %s: %s", op, pi.ID)

	userID := pi.Metadata["userId"]
	if userID == "" {
		return
	}

	s.hub.BroadcastToUser(userID, ws.Event{
		Op: op,
		Data: ws.PaymentEventData{
			PaymentIntentID: pi.ID,
			Status:          string(pi.Status),
		},
	})
}
