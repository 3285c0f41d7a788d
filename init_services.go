// Package main — Service katmanı başlatma.
//
// initServices, business logic katmanını oluşturur. Service'ler
// repository interface'lerini ve birbirlerini constructor'dan alır —
// hiçbiri somut SQLite tipine ya da global state'e dokunmaz.
package main

import (
	"log"
	"time"

	"github.com/stripe/stripe-go/v82/client"

	"github.com/shareshelf/shareshelf/config"
	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg/cache"
	"github.com/shareshelf/shareshelf/pkg/email"
	"github.com/shareshelf/shareshelf/pkg/ratelimit"
	"github.com/shareshelf/shareshelf/services"
	"github.com/shareshelf/shareshelf/ws"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Token    services.TokenService
	Auth     services.AuthService
	Resource services.ResourceService
	Upload   services.UploadService
	Payment  services.PaymentService
}

// RateLimiters, endpoint bazlı rate limiter'ları tutar.
type RateLimiters struct {
	SignIn *ratelimit.SignInRateLimiter
}

// initServices, tüm service'leri repository ve config dependency'leri ile oluşturur.
func initServices(repos *Repositories, hub *ws.Hub, cfg *config.Config) (*Services, *RateLimiters, error) {
	// Token expiry'leri config'te dakika/gün olarak tutulur,
	// service katmanı time.Duration ile çalışır.
	accessExp := time.Duration(cfg.JWT.AccessTokenExpiry) * time.Minute
	refreshExp := time.Duration(cfg.JWT.RefreshTokenExpiry) * 24 * time.Hour

	tokenService := services.NewTokenService(
		repos.User, repos.RefreshToken,
		cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		accessExp, refreshExp,
	)

	// Email servisi opsiyonel: üç config değeri de doluysa aktif olur.
	// Boşsa authService nil sender ile çalışır, welcome email atlanır.
	var emailSender email.EmailSender
	if cfg.Email.ResendAPIKey != "" && cfg.Email.FromEmail != "" && cfg.Email.AppURL != "" {
		emailSender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL)
		log.Printf("[main] email service enabled (from=%s)", cfg.Email.FromEmail)
	} else {
		log.Println("[main] email service disabled (RESEND_API_KEY/RESEND_FROM/APP_URL not fully set)")
	}

	authService := services.NewAuthService(repos.User, tokenService, emailSender)

	uploadService, err := services.NewUploadService(cfg.Upload.Dir, cfg.Upload.MaxSize)
	if err != nil {
		return nil, nil, err
	}

	// Kaynak listesi cache'i: 30sn TTL, 5dk'da bir süresi geçen
	// entry'ler temizlenir. Yeni kayıt geldiğinde Clear ile invalidate edilir.
	listCache := cache.New[models.ResourceType, []models.Resource](30*time.Second, 5*time.Minute)
	resourceService := services.NewResourceService(repos.Resource, hub, listCache)

	// Stripe client — global stripe.Key yerine enjekte edilen client.API.
	// Secret key boşsa da client oluşur; payment endpoint'leri Stripe'a
	// ulaşamayınca hata döner, uygulamanın geri kalanı çalışmaya devam eder.
	sc := &client.API{}
	sc.Init(cfg.Stripe.SecretKey, nil)
	if cfg.Stripe.SecretKey == "" {
		log.Println("[main] stripe secret key not set — payment endpoints will fail")
	}
	paymentService := services.NewPaymentService(sc, cfg.Stripe.WebhookSecret, hub)

	svcs := &Services{
		Token:    tokenService,
		Auth:     authService,
		Resource: resourceService,
		Upload:   uploadService,
		Payment:  paymentService,
	}

	// Sign-in brute-force koruması: IP başına 2 dakikada 5 deneme.
	limiters := &RateLimiters{
		SignIn: ratelimit.NewSignInRateLimiter(5, 2*time.Minute),
	}

	return svcs, limiters, nil
}
