package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
	"github.com/shareshelf/shareshelf/services"
)

// PaymentHandler, Stripe ödeme endpoint'leri.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler, constructor.
func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentIntent godoc
// POST /api/payment/create-payment-intent
// Session middleware gerektirir.
func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CreatePaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// userId metadata'sı server tarafında yazılır — client kendini başka
	// kullanıcı olarak gösteremez. Webhook bildirimi bu ID'ye gider.
	if req.Metadata == nil {
		req.Metadata = make(map[string]string)
	}
	req.Metadata["userId"] = snapshot.ID

	resp, err := h.paymentService.CreateIntent(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, resp)
}

// Webhook godoc
// POST /api/payment/webhook
//
// Session middleware GEREKTIRMEZ — istek Stripe'tan gelir, kimlik
// doğrulaması Stripe-Signature header'ının HMAC kontrolüyle yapılır.
// Body raw okunmalıdır: imza byte'lar üzerinden hesaplanır, JSON'ı
// parse edip yeniden serialize etmek imzayı bozar.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	const maxBodySize = 65536
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := h.paymentService.HandleWebhook(payload, r.Header.Get("Stripe-Signature")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]bool{"received": true})
}

// PaymentStatus godoc
// GET /api/payment/payment-status/{paymentIntentId}
// Session middleware gerektirir.
func (h *PaymentHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.paymentService.GetStatus(r.Context(), r.PathValue("paymentIntentId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, status)
}
