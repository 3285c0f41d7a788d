// Package repository, veritabanı erişim katmanını tanımlar.
//
// Repository Pattern nedir?
// Veritabanı işlemlerini (CRUD) soyutlayan bir tasarım kalıbıdır.
// Service katmanı doğrudan SQL yazmaz — repository interface'i üzerinden çalışır.
//
// Neden interface?
// 1. Test: Mock repository yazarak DB olmadan test edebilirsin
// 2. Esneklik: SQLite'tan PostgreSQL'e geçiş sadece yeni implementasyon ister
// 3. SOLID (Dependency Inversion): Service, concrete struct'a değil interface'e bağımlı
package repository

import (
	"context"

	"github.com/shareshelf/shareshelf/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
//
// context.Context, goroutine'ler arası iptal sinyali ve deadline taşır.
// Client bağlantıyı koparırsa devam eden DB sorgusu da durur.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetByID, session middleware'ın slow path'inde kullanılır —
	// rotation başarılı olsa bile kullanıcı silinmiş olabilir.
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update, nil olmayan alanları günceller (partial update).
	Update(ctx context.Context, userID string, req *models.UpdateUserRequest) error
}
