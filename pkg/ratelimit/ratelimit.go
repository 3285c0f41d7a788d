// Package ratelimit — SignInRateLimiter: brute-force parola denemelerine karşı
// IP bazlı sign-in rate limiting.
//
// Tasarım:
// - Her IP adresi için sliding window ile deneme sayısı tutulur.
// - Window içinde maxAttempts aşılırsa istek reddedilir (429).
// - Başarılı giriş sonrası Reset() ile sayaç temizlenir.
// - Background goroutine süresi dolmuş bucket'ları siler (memory leak engeli).
//
// Neden in-memory?
// Tek instance deploy için Redis gibi harici bir bağımlılık gereksiz;
// SQLite'a her denemede yazmak da I/O + contention yaratır.
// sync.Mutex ile thread-safe.
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency) —
// handlers ↔ middleware arasında import cycle oluşmaz.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// bucket, bir IP için deneme sayacı ve window başlangıcını tutar.
type bucket struct {
	count       int
	windowStart time.Time
}

// SignInRateLimiter, IP bazlı sign-in rate limiting.
//
// Kullanım:
//
//	limiter := NewSignInRateLimiter(5, 2*time.Minute)
//	// Sign-in handler'da:
//	if !limiter.Allow(ip) { return 429 }
//	// Başarılı girişte:
//	limiter.Reset(ip)
type SignInRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	stopCleanup chan struct{}
}

// NewSignInRateLimiter, yeni limiter oluşturur ve arka plan temizleme
// goroutine'ini başlatır.
//
// maxAttempts: window başına izin verilen deneme sayısı (ör: 5).
// window: pencere süresi (ör: 2*time.Minute → 2 dakikada 5 deneme).
func NewSignInRateLimiter(maxAttempts int, window time.Duration) *SignInRateLimiter {
	rl := &SignInRateLimiter{
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		stopCleanup: make(chan struct{}),
	}

	// Süresi dolmuş bucket'lar dakikada bir temizlenir — uzun süre çalışan
	// sunucuda map sınırsız büyümesin diye.
	go rl.cleanupLoop()

	return rl
}

// Allow, IP'nin sign-in denemesine izin verilip verilmediğini kontrol eder.
// Her çağrı sayacı artırır; başarılı girişte caller Reset() çağırmalıdır.
func (rl *SignInRateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true
	}

	// Window süresi dolmuşsa yeni pencere başlat
	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset, başarılı giriş sonrası IP sayacını sıfırlar.
// Temizlenmezse meşru kullanıcı sonraki denemelerinde bloke olabilir.
func (rl *SignInRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, ip)
}

// RetryAfterSeconds, limit aşıldığında kalan bekleme süresini saniye cinsinden
// döner. HTTP Retry-After header değeri olarak kullanılır.
func (rl *SignInRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[ip]
	if !exists {
		return 0
	}

	remaining := rl.window - time.Since(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1 // +1 yuvarlama — client tam süreyi beklesin
}

func (rl *SignInRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *SignInRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// ExtractIP, HTTP request'ten client IP adresini çıkarır.
//
// Öncelik sırası:
// 1. X-Forwarded-For (reverse proxy arkasındaysa, ilk IP gerçek client)
// 2. X-Real-IP (nginx gibi proxy'ler ekler)
// 3. RemoteAddr (doğrudan bağlantı)
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// "client, proxy1, proxy2" — ilk değer gerçek client
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, kalan süreyi okunabilir formata çevirir.
// Örn: 120 → "2 minute(s)", 45 → "45 second(s)"
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
