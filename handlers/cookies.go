package handlers

import (
	"net/http"
	"time"
)

// Auth cookie isimleri. Frontend bu cookie'leri hiç okumaz (HttpOnly) —
// tarayıcı her istekte otomatik gönderir.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieWriter, auth cookie'lerini tek noktadan yazar/siler.
//
// Hem auth handler'ları (signin/signup/signout) hem session middleware
// (slow path'te çifti yeniler) cookie yazar — ayarların tek kaynağı burası.
//
// Cookie güvenlik ayarları:
//   - HttpOnly: JavaScript cookie'yi okuyamaz (XSS token çalamaz)
//   - SameSite=Lax: cross-site POST'larda cookie gönderilmez (CSRF azaltma)
//   - Secure: production'da sadece HTTPS üzerinden
//   - Path=/: tüm endpoint'lerde geçerli
type CookieWriter struct {
	// Secure, production'da true — cookie sadece HTTPS ile gider.
	Secure bool
	// AccessMaxAge / RefreshMaxAge, token expiry'leriyle aynı tutulur.
	// Cookie token'dan uzun yaşarsa her istek ölü token taşır,
	// kısa yaşarsa geçerli token kaybolur.
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// SetAuthCookies, access+refresh çiftini cookie olarak yazar.
func (c *CookieWriter) SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	c.SetAccessCookie(w, accessToken)
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(c.RefreshMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetAccessCookie, sadece access cookie'sini yazar.
//
// Sign-in'de mevcut oturum korunduğunda (geçerli refresh cookie sunulmuşsa)
// refresh cookie'ye DOKUNULMAZ: yeniden yazmak Max-Age'i tazeler ve
// tarayıcıdaki cookie, içindeki token'ın kendi expiry'sinden uzun yaşardı.
func (c *CookieWriter) SetAccessCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(c.AccessMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookies, iki cookie'yi de siler (MaxAge=-1 → tarayıcı hemen atar).
// Signout'ta ve slow path'te rotation reddedildiğinde çağrılır —
// ölü cookie'lerin her istekte tekrar denenmesinin anlamı yok.
func (c *CookieWriter) ClearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   c.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
