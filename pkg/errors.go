// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Go'da error'lar basit değerlerdir (string taşıyan struct'lar).
// errors.New() ile sabit error değişkenleri tanımlarız.
// Böylece error karşılaştırması string yerine referans ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
//
// Bu, typo'ya açık string karşılaştırmasından çok daha güvenlidir.
package pkg

import "errors"

// Domain-level error'lar.
// Handler katmanı bu error'ları HTTP status code'larına map'ler.
// Service katmanı bunları döner, handler yakalar.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)

// Token akışına özel error'lar.
//
// İlk üçü caller için tek bir "authentication failed" sonucuna
// indirgenir, ama log'larda ayırt edilebilir olmaları önemlidir:
// bozuk imza bir saldırı işareti olabilir, expiry ise normal akıştır.
var (
	// ErrInvalidToken: imza doğrulanamadı veya claim'ler bozuk.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken: imza geçerli ama token'ın süresi dolmuş.
	ErrExpiredToken = errors.New("token expired")
	// ErrTokenNotFound: imza geçerli ama credential store'da kayıt yok —
	// token daha önce rotate edilmiş (tüketilmiş) veya signout ile silinmiş.
	ErrTokenNotFound = errors.New("refresh token not found")
	// ErrTokenPersistence: token üretildi ama kaydı yazılamadı.
	// Bu durumda token GEÇERSİZ sayılmalıdır — caller client'a vermemeli.
	ErrTokenPersistence = errors.New("failed to persist refresh token")
)
