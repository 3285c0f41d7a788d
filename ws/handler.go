package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/shareshelf/shareshelf/models"
)

// TokenVerifier, WebSocket handler'ın JWT doğrulaması için kullandığı interface.
//
// Neden services.TokenService yerine kendi interface'imiz?
// Circular dependency'yi önlemek için:
// - services paketi ws.EventPublisher'ı kullanıyor (broadcast için)
// - ws paketi services'i import etseydi ws → services → ws döngüsü oluşurdu
//
// Interface Segregation: WS handler'ın ihtiyacı sadece access token
// doğrulamak. main.go'daki tokenService bu interface'i implicit karşılar.
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (*models.AccessTokenClaims, error)
}

// upgrader, HTTP bağlantısını WebSocket bağlantısına yükseltir.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin: Production'da domain kontrolü yapılmalı.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub      *Hub
	verifier TokenVerifier
}

// NewHandler, yeni bir WebSocket handler oluşturur.
func NewHandler(hub *Hub, verifier TokenVerifier) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// Tarayıcı WS bağlantısında custom header gönderemez — token URL query
// parameter olarak gelir:
//
//	ws://server/ws?token=ACCESS_TOKEN
//
// Flow:
// 1. Query'den token al, doğrula (imza + expiry, DB'ye uğramaz)
// 2. HTTP → WebSocket upgrade
// 3. Client oluştur, Hub'a kaydet, ready event gönder
// 4. WritePump goroutine'de, ReadPump bu goroutine'de çalışır
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.verifier.VerifyAccessToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for user %s: %v", claims.User.ID, err)
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: claims.User.ID,
		send:   make(chan []byte, sendBufferSize),
	}

	h.hub.register <- client

	// İlk event: ready — client, online kullanıcı listesiyle başlar.
	client.sendEvent(Event{
		Op:   OpReady,
		Data: ReadyData{OnlineUserIDs: h.hub.GetOnlineUserIDs()},
	})

	// ReadPump bu goroutine'de kalmalı — aksi halde handler hemen döner.
	go client.WritePump()
	client.ReadPump()
}
