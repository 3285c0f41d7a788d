package repository

import (
	"context"

	"github.com/shareshelf/shareshelf/models"
)

// RefreshTokenRepository, credential store — canlı refresh token kayıtları.
//
// Store'daki bir kayıt "bu token henüz tüketilmedi" demektir.
// Rotation'daki at-most-once tüketim garantisi bu interface'in Consume
// operasyonuna dayanır: SQLite'ın tek-statement DELETE'i atomiktir ve
// kaç satır sildiğini raporlar — başka bir kilide gerek yoktur.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	// Consume, kaydı atomik olarak siler ve GERÇEKTEN silinip silinmediğini
	// döner. false → kayıt yoktu (token zaten tüketilmiş, signout edilmiş
	// veya hiç var olmamış). Eşzamanlı rotation yarışında arbitrasyon
	// noktası budur: aynı token için yalnızca bir çağrı true alır.
	// "Sıfır satır silindi" ile "kayıt bulunamadı" aynı şeydir.
	Consume(ctx context.Context, token string) (bool, error)
	// DeleteExpired, süresi geçmiş kayıtları temizler. Zorunlu değildir
	// (kayıtlar 7 günde kendiliğinden ölü sayılır) — startup'ta fırsatçı
	// olarak çağrılır.
	DeleteExpired(ctx context.Context) error
}
