package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
	"github.com/shareshelf/shareshelf/pkg/ratelimit"
	"github.com/shareshelf/shareshelf/services"
)

// AuthHandler, auth endpoint'lerini yöneten struct.
//
// Token'lar response body'de DÖNÜLMEZ — HttpOnly cookie olarak yazılır.
// Body'de sadece kullanıcı profili vardır. Frontend token'ları hiç görmez.
type AuthHandler struct {
	authService   services.AuthService
	uploadService services.UploadService
	signInLimiter *ratelimit.SignInRateLimiter
	cookies       *CookieWriter
}

// NewAuthHandler, constructor.
// signInLimiter: brute-force koruması. nil ise rate limiting devre dışı kalır.
func NewAuthHandler(
	authService services.AuthService,
	uploadService services.UploadService,
	signInLimiter *ratelimit.SignInRateLimiter,
	cookies *CookieWriter,
) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		uploadService: uploadService,
		signInLimiter: signInLimiter,
		cookies:       cookies,
	}
}

// SignUp godoc
// POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest

	// json.NewDecoder: body stream olarak okunur, hepsi belleğe alınmaz.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, pair, err := h.authService.SignUp(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	h.cookies.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken)
	pkg.JSON(w, http.StatusCreated, user)
}

// SignIn godoc
// POST /api/auth/signin
//
// Rate limiting: IP bazlı brute-force koruması. Limit aşıldığında
// 429 Too Many Requests + Retry-After header döner. Başarılı giriş
// sayacı sıfırlar — meşru kullanıcı bloke olmaz.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ExtractIP(r)
	if h.signInLimiter != nil && !h.signInLimiter.Allow(ip) {
		retryAfter := h.signInLimiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many sign-in attempts, please try again in %s",
				ratelimit.FormatRetryMessage(retryAfter)))
		return
	}

	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Mevcut refresh cookie — imzası geçerliyse oturum korunur,
	// yeni refresh kaydı açılmaz (service karar verir).
	presentedRefresh := ""
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		presentedRefresh = cookie.Value
	}

	user, pair, err := h.authService.SignIn(r.Context(), &req, presentedRefresh)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if h.signInLimiter != nil {
		h.signInLimiter.Reset(ip)
	}

	// Oturum korunduysa (service sunulan refresh token'ı aynen geri verdi)
	// sadece access cookie yenilenir. Refresh cookie yeniden yazılsaydı
	// Max-Age tazelenir, cookie içindeki token'dan uzun yaşardı.
	if presentedRefresh != "" && pair.RefreshToken == presentedRefresh {
		h.cookies.SetAccessCookie(w, pair.AccessToken)
	} else {
		h.cookies.SetAuthCookies(w, pair.AccessToken, pair.RefreshToken)
	}
	pkg.JSON(w, http.StatusOK, user)
}

// SignOut godoc
// POST /api/auth/signout
//
// Her zaman 200 döner — cookie yok, token sahte, kayıt zaten silinmiş
// fark etmez. Signout idempotent'tir: amaç client'ı oturumsuz bırakmak,
// bu her durumda başarılır.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		h.authService.SignOut(r.Context(), cookie.Value)
	}

	h.cookies.ClearAuthCookies(w)
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// User godoc
// GET /api/auth/user
// Session middleware gerektirir — context'te kimlik snapshot'ı olur.
// Tam profil (bio, location, rating) DB'den okunur; snapshot'ta sadece
// token'a gömülen alanlar vardır.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	user, err := h.authService.GetUser(r.Context(), snapshot.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// UpdateUser godoc
// POST /api/auth/update-user
// Session middleware gerektirir. Content-Type: multipart/form-data —
// profil alanları form field'ları, avatar opsiyonel dosya olarak gelir.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := UserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	// 10MB form belleği — aşan kısım geçici dosyaya yazılır.
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req := &models.UpdateUserRequest{
		Name:          formValue(r, "name"),
		Username:      formValue(r, "username"),
		Password:      formValue(r, "password"),
		ContactNumber: formValue(r, "contactNumber"),
		Bio:           formValue(r, "bio"),
		ResponseTime:  formValue(r, "responseTime"),
	}

	// Location alanlarından herhangi biri geldiyse Location güncellenir.
	city := formValue(r, "city")
	state := formValue(r, "state")
	country := formValue(r, "country")
	zipcode := formValue(r, "zipcode")
	landmark := formValue(r, "landmark")
	if city != nil || state != nil || country != nil || zipcode != nil || landmark != nil {
		req.Location = &models.Location{
			City:     deref(city),
			State:    deref(state),
			Country:  deref(country),
			Zipcode:  deref(zipcode),
			Landmark: deref(landmark),
		}
	}

	// Opsiyonel avatar dosyası
	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		url, err := h.uploadService.Save(file, header)
		if err != nil {
			pkg.Error(w, err)
			return
		}
		req.AvatarURL = &url
	}

	user, err := h.authService.UpdateUser(r.Context(), snapshot.ID, req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// ─── Private Helpers ───

// formValue, form field'ı gönderilmişse pointer döner, gönderilmemişse nil.
// "Gönderilmedi" ile "boş gönderildi" ayrımı partial update için gereklidir.
func formValue(r *http.Request, key string) *string {
	if values, ok := r.MultipartForm.Value[key]; ok && len(values) > 0 {
		v := values[0]
		return &v
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
