package ws

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareshelf/shareshelf/models"
)

// stubVerifier: "user:{id}" formatındaki token'ları kabul eder.
type stubVerifier struct{}

func (stubVerifier) VerifyAccessToken(tokenString string) (*models.AccessTokenClaims, error) {
	id, ok := strings.CutPrefix(tokenString, "user:")
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &models.AccessTokenClaims{
		Ver:  models.ClaimsVersion,
		User: models.UserSnapshot{ID: id, Username: "u-" + id},
	}, nil
}

// wsTestServer, hub + handler'ı gerçek bir HTTP server arkasında başlatır.
func wsTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	go hub.Run()

	handler := NewHandler(hub, stubVerifier{})
	srv := httptest.NewServer(http.HandlerFunc(handler.HandleConnection))
	t.Cleanup(srv.Close)

	return hub, srv
}

// dial, test server'a verilen token ile WS bağlantısı kurar.
func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestHandleConnectionRejectsMissingToken(t *testing.T) {
	_, srv := wsTestServer(t)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandleConnectionRejectsInvalidToken(t *testing.T) {
	_, srv := wsTestServer(t)

	resp, err := http.Get(srv.URL + "?token=forged")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConnectReceivesReady(t *testing.T) {
	hub, srv := wsTestServer(t)

	conn := dial(t, srv, "user:alice")

	event := readEvent(t, conn)
	assert.Equal(t, OpReady, event.Op)

	// Register işlendikten sonra kullanıcı online listesindedir.
	assert.Eventually(t, func() bool {
		ids := hub.GetOnlineUserIDs()
		return len(ids) == 1 && ids[0] == "alice"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHeartbeatGetsAck(t *testing.T) {
	_, srv := wsTestServer(t)

	conn := dial(t, srv, "user:bob")
	readEvent(t, conn) // ready

	require.NoError(t, conn.WriteJSON(Event{Op: OpHeartbeat}))

	event := readEvent(t, conn)
	assert.Equal(t, OpHeartbeatAck, event.Op)
}

func TestBroadcastToAllReachesEveryClient(t *testing.T) {
	hub, srv := wsTestServer(t)

	c1 := dial(t, srv, "user:one")
	c2 := dial(t, srv, "user:two")
	readEvent(t, c1)
	readEvent(t, c2)

	// İki client da kayıtlı olana kadar bekle.
	require.Eventually(t, func() bool {
		return len(hub.GetOnlineUserIDs()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	hub.BroadcastToAll(Event{Op: OpResourceCreate, Data: map[string]string{"id": "r1"}})

	e1 := readEvent(t, c1)
	e2 := readEvent(t, c2)
	assert.Equal(t, OpResourceCreate, e1.Op)
	assert.Equal(t, OpResourceCreate, e2.Op)
	// Seq atanmış durumda.
	assert.Greater(t, e1.Seq, int64(0))
}

func TestBroadcastToUserIsTargeted(t *testing.T) {
	hub, srv := wsTestServer(t)

	target := dial(t, srv, "user:payer")
	other := dial(t, srv, "user:bystander")
	readEvent(t, target)
	readEvent(t, other)

	require.Eventually(t, func() bool {
		return len(hub.GetOnlineUserIDs()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	hub.BroadcastToUser("payer", Event{
		Op:   OpPaymentSucceeded,
		Data: PaymentEventData{PaymentIntentID: "pi_123", Status: "succeeded"},
	})

	event := readEvent(t, target)
	assert.Equal(t, OpPaymentSucceeded, event.Op)

	// Diğer client'a HİÇBİR şey gelmez — kısa deadline ile doğrula.
	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var unexpected Event
	err := other.ReadJSON(&unexpected)
	assert.Error(t, err) // timeout beklenir
}

func TestDisconnectRemovesFromOnlineList(t *testing.T) {
	hub, srv := wsTestServer(t)

	conn := dial(t, srv, "user:leaver")
	readEvent(t, conn)

	require.Eventually(t, func() bool {
		return len(hub.GetOnlineUserIDs()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return len(hub.GetOnlineUserIDs()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
