// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
// - Hub: Tüm bağlantıları yöneten merkezi yapı (Observer pattern)
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
// 1. Kullanıcı yeni resource yükler → HTTP POST → Service → DB kayıt
// 2. Service, Hub'ın BroadcastToAll metodunu çağırır
// 3. Hub, event'i tüm bağlı client'lara iletir
// 4. Her client'ın WritePump'ı event'i WebSocket'e yazar
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op (operation): Event türü — "resource_create", "heartbeat" vb.
// Data: Event'e özgü payload.
// Seq: Her outbound event'e verilen artan sayı — frontend eksik event
// tespiti için takip eder (seq 5'ten sonra 7 gelirse 6 kaybolmuştur).
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat = "heartbeat" // Client her 30sn'de gönderir — "hâlâ bağlıyım" sinyali
)

// Server → Client operasyonları
const (
	OpReady        = "ready"         // Bağlantı kurulduğunda ilk gönderilen
	OpHeartbeatAck = "heartbeat_ack" // Heartbeat'e yanıt

	OpResourceCreate = "resource_create" // Yeni resource listelendi — tüm kullanıcılara

	// Payment event'leri — sadece ödemenin sahibine gönderilir.
	OpPaymentSucceeded = "payment_succeeded"
	OpPaymentFailed    = "payment_failed"
)

// ReadyData, bağlantı kurulduğunda client'a gönderilen ilk event'in payload'ı.
type ReadyData struct {
	OnlineUserIDs []string `json:"online_user_ids"`
}

// PaymentEventData, payment_succeeded / payment_failed payload'ı.
// Stripe webhook'u işlendiğinde ödemenin sahibine gönderilir.
type PaymentEventData struct {
	PaymentIntentID string `json:"payment_intent_id"`
	Status          string `json:"status"`
}
