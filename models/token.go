package models

import "github.com/golang-jwt/jwt/v5"

// UserSnapshot, access token'ın içine gömülen kullanıcı özeti.
//
// Neden ayrı bir struct?
// Access token imzalı ama ŞİFRELİ DEĞİLDİR — payload'ı herkes okuyabilir.
// User struct'ını olduğu gibi gömmek, ileride eklenen hassas bir alanın
// (ör. şifre hash'i) sessizce token'a sızması riskini taşır.
// Bu yüzden alanlar explicit bir allow-list'tir: buraya yazılmayan
// hiçbir şey token'a giremez. "User'ı koy, hassas alanları sil"
// yaklaşımı (strip-list) bilinçli olarak KULLANILMAZ.
type UserSnapshot struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// NewUserSnapshot, User'dan token'a gömülecek özeti üretir.
// Tek üretim noktası burasıdır — snapshot'a alan eklemek bilinçli
// bir kod değişikliği gerektirir.
func NewUserSnapshot(u *User) UserSnapshot {
	return UserSnapshot{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

// AccessTokenClaims, access token'ın payload'ı.
//
// Ver: claim şemasının versiyonu. Şema değişirse (alan eklenir/çıkarsa)
// versiyon artırılır — eski token'lar expiry ile kendiliğinden ölür,
// doğrulama tarafı versiyonu kontrol ederek uyumsuz şemayı reddedebilir.
//
// Bu struct models paketinde tanımlanır çünkü birden fazla katman
// (services, middleware, ws) tarafından kullanılır — circular
// dependency'yi önler.
type AccessTokenClaims struct {
	Ver  int          `json:"ver"`
	User UserSnapshot `json:"user"`
	jwt.RegisteredClaims
}

// ClaimsVersion, AccessTokenClaims şemasının güncel versiyonu.
const ClaimsVersion = 1

// RefreshTokenClaims, refresh token'ın payload'ı.
// Sadece kullanıcı ID'si taşır — refresh token bir kimlik belgesi değil,
// yeni bir access/refresh çifti almak için kullanılan tek seferlik bilettir.
type RefreshTokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
