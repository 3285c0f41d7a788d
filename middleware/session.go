// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Middleware Pattern nedir?
// Her HTTP request, handler'a ulaşmadan önce bir veya daha fazla middleware'dan geçer.
// Go'da middleware bir fonksiyondur:
//
//	func(next http.Handler) http.Handler
//
// "next" zincirdeki bir sonraki handler'dır. Middleware kendi işini yapar
// (token doğrula), sonra next'i çağırır. Hata varsa next çağrılmaz —
// request burada durur.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/shareshelf/shareshelf/handlers"
	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
	"github.com/shareshelf/shareshelf/services"
)

// SessionMiddleware, cookie tabanlı oturum doğrulama.
//
// İki yol vardır:
//
// Fast path — accessToken cookie'si geçerliyse:
// İmza + expiry kontrolü yapılır, token'daki kullanıcı snapshot'ı context'e
// eklenir ve request devam eder. DB'ye HİÇ gidilmez — korumalı endpoint'lerin
// olağan maliyeti budur (15 dakikada bir hariç her istek).
//
// Slow path — access token yok/süresi dolmuş/geçersizse:
// refreshToken cookie'siyle rotation denenir. Başarılıysa iki cookie de
// YENİ çiftle değiştirilir ve request devam eder; kullanıcı 15 dakikalık
// sınırı hiç fark etmez. Başarısızsa cookie'ler temizlenir ve 401 döner —
// client yeniden sign-in yapmalıdır.
type SessionMiddleware struct {
	tokenSvc services.TokenService
	cookies  *handlers.CookieWriter
}

// NewSessionMiddleware, constructor.
func NewSessionMiddleware(tokenSvc services.TokenService, cookies *handlers.CookieWriter) *SessionMiddleware {
	return &SessionMiddleware{
		tokenSvc: tokenSvc,
		cookies:  cookies,
	}
}

// Require, oturum zorunlu kılan middleware.
func (m *SessionMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// ─── Fast path ───
		if cookie, err := r.Cookie(handlers.AccessTokenCookie); err == nil && cookie.Value != "" {
			claims, err := m.tokenSvc.VerifyAccessToken(cookie.Value)
			if err == nil {
				serveWithUser(next, w, r, &claims.User)
				return
			}
			// Geçersiz veya süresi dolmuş access token — slow path'e düş.
			// Ayrım yapılmaz: her iki durumda da refresh token tek umuttur.
		}

		// ─── Slow path ───
		refreshCookie, err := r.Cookie(handlers.RefreshTokenCookie)
		if err != nil || refreshCookie.Value == "" {
			// Refresh cookie hiç yoksa client muhtemelen hiç giriş yapmamış —
			// "token'ın geçersiz" (401) değil "buraya giremezsin" (403).
			pkg.ErrorWithMessage(w, http.StatusForbidden, "authentication required")
			return
		}

		user, pair, err := m.tokenSvc.Rotate(r.Context(), refreshCookie.Value)
		if err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				// Rotation geçerliydi ama kullanıcı silinmiş.
				pkg.ErrorWithMessage(w, http.StatusNotFound, "user not found")
				return
			}
			if errors.Is(err, pkg.ErrInvalidToken) ||
				errors.Is(err, pkg.ErrExpiredToken) ||
				errors.Is(err, pkg.ErrTokenNotFound) {
				// Token reddedildi — ölü cookie'leri temizle ki client her
				// istekte aynı kaybedilmiş rotation'ı denemesin.
				m.cookies.ClearAuthCookies(w)
				pkg.ErrorWithMessage(w, http.StatusUnauthorized, "session expired, please sign in again")
				return
			}
			// DB hatası gibi iç sorunlar 401 DEĞİLDİR — client'ın oturumu
			// geçerli olabilir, cookie'lere dokunulmaz.
			pkg.Error(w, err)
			return
		}

		// Rotation başarılı — cookie çifti yenilenir, request devam eder.
		m.cookies.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken)

		snapshot := models.NewUserSnapshot(user)
		serveWithUser(next, w, r, &snapshot)
	})
}

// serveWithUser, kimliği context'e ekleyip zinciri devam ettirir.
func serveWithUser(next http.Handler, w http.ResponseWriter, r *http.Request, user *models.UserSnapshot) {
	ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
	next.ServeHTTP(w, r.WithContext(ctx))
}
