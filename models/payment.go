package models

import "fmt"

// CreatePaymentIntentRequest, ödeme başlatma isteği.
//
// Amount en küçük para birimi cinsindendir (ör. INR için paise, USD için
// cent). Metadata ödeme sağlayıcısına olduğu gibi geçirilir — webhook
// tarafında hangi kullanıcı/kaynak/işlem olduğunu geri okumak için
// kullanılır (userId, resourceId, transactionType).
type CreatePaymentIntentRequest struct {
	Amount            int64             `json:"amount"`
	Currency          string            `json:"currency"`
	PaymentMethodType string            `json:"paymentMethodType"`
	Metadata          map[string]string `json:"metadata"`
}

// Validate, zorunlu alanları kontrol eder.
func (r *CreatePaymentIntentRequest) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("amount is required")
	}
	if r.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if r.PaymentMethodType == "" {
		return fmt.Errorf("paymentMethodType is required")
	}
	return nil
}

// PaymentIntentResponse, frontend'in Stripe.js ile ödemeyi tamamlaması
// için ihtiyaç duyduğu client secret.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// PaymentStatusResponse, bir payment intent'in güncel durumu.
type PaymentStatusResponse struct {
	Status   string            `json:"status"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}
