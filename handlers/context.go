// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi çok basit ve "ince" (thin) olmalı:
// 1. Request body'yi parse et (JSON/multipart → struct)
// 2. Service katmanını çağır
// 3. Sonucu HTTP response olarak döndür
//
// Handler ASLA iş mantığı (business logic) içermez.
// Handler ASLA doğrudan DB'ye erişmez.
// Tüm akıl service'de, handler sadece köprü.
package handlers

import (
	"context"

	"github.com/shareshelf/shareshelf/models"
)

// contextKey — context.Value() any tip kabul eder, string key kullanmak
// paketler arası çakışmaya neden olabilir. Özel tip namespace collision'ı önler.
type contextKey string

// UserContextKey, session middleware'ın context'e eklediği kimlik.
//
// Değer *models.UserSnapshot'tır, *models.User DEĞİL: fast path'te DB'ye
// gidilmez, elimizde sadece access token'daki snapshot vardır. Handler
// tam kullanıcı kaydına ihtiyaç duyuyorsa snapshot'taki ID ile kendisi yükler.
const UserContextKey contextKey = "user"

// UserFromContext, session middleware'ın eklediği kimliği okur.
// Middleware'dan geçmemiş bir route'ta false döner.
func UserFromContext(ctx context.Context) (*models.UserSnapshot, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.UserSnapshot)
	return user, ok
}
