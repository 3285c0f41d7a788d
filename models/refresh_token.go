package models

import "time"

// RefreshToken, credential store'daki tek bir refresh token kaydını temsil eder.
//
// Neden refresh token ayrı tabloda?
// Access token kısa ömürlü (15dk) ve stateless — DB'ye hiç uğramaz.
// Refresh token uzun ömürlü (7 gün) ve imzalı olmasına rağmen tek başına
// yeterli DEĞİLDİR: rotation sırasında ancak store'da kaydı varsa kabul
// edilir. Kayıt tam bir kez silinir — ya başarılı rotation'da (tüketim)
// ya da signout'ta. Kayıt hiçbir zaman update edilmez; rotation
// "eskiyi sil + yeniyi ekle"dir, in-place mutasyon değil.
//
// Bu yapı token'ı tek kullanımlık yapar: imzası hâlâ geçerli olan ama
// daha önce kullanılmış bir token, store'da kaydı olmadığı için reddedilir.
type RefreshToken struct {
	// Token, imzalı JWT string'in kendisi — tablonun primary key'i.
	// Aynı token string'i için en fazla bir canlı kayıt bulunabilir.
	Token string `json:"-"`
	// UserID, token'ın ait olduğu kullanıcı.
	UserID string `json:"user_id"`
	// ExpiresAt, imzalı token'ın kendi exp claim'inden türetilir —
	// bağımsız hesaplanmaz, kayıt ile token asla çelişmez.
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
