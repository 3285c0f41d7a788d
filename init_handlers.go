// Package main — Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Her handler, ihtiyaç duyduğu service interface'lerini constructor'dan alır.
// Handler'lar "thin" dir — sadece HTTP parse + service call + response write.
package main

import (
	"time"

	"github.com/shareshelf/shareshelf/config"
	"github.com/shareshelf/shareshelf/handlers"
	"github.com/shareshelf/shareshelf/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Resource *handlers.ResourceHandler
	Payment  *handlers.PaymentHandler
	WS       *ws.Handler
}

// initHandlers, tüm handler'ları service ve rate limiter dependency'leri ile oluşturur.
//
// CookieWriter burada bir kez kurulur ve hem auth handler'a hem session
// middleware'a aynı instance verilir — cookie attribute'ları (Secure,
// MaxAge) tek yerden yönetilir, iki katman asla farklı cookie yazmaz.
func initHandlers(svcs *Services, limiters *RateLimiters, hub *ws.Hub, cfg *config.Config) (*Handlers, *handlers.CookieWriter) {
	cookies := &handlers.CookieWriter{
		Secure:        cfg.Server.IsProduction(),
		AccessMaxAge:  time.Duration(cfg.JWT.AccessTokenExpiry) * time.Minute,
		RefreshMaxAge: time.Duration(cfg.JWT.RefreshTokenExpiry) * 24 * time.Hour,
	}

	h := &Handlers{
		Auth:     handlers.NewAuthHandler(svcs.Auth, svcs.Upload, limiters.SignIn, cookies),
		Resource: handlers.NewResourceHandler(svcs.Resource, svcs.Upload),
		Payment:  handlers.NewPaymentHandler(svcs.Payment),
		WS:       ws.NewHandler(hub, svcs.Token),
	}

	return h, cookies
}
