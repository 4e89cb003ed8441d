package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("owner"))
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, hub *Hub, url, owner string) *websocket.Conn {
	t.Helper()
	before := hub.Count(owner)
	conn, _, err := websocket.DefaultDialer.Dial(url+"?owner="+owner, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return hub.Count(owner) == before+1 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestHub_DeliversToOwnerOnly(t *testing.T) {
	hub, url := startHub(t)
	mine1 := dial(t, hub, url, "owner-1")
	mine2 := dial(t, hub, url, "owner-1")
	theirs := dial(t, hub, url, "owner-2")

	event := models.Event{Type: models.EventDeliveryUpdated, OwnerID: "owner-1", DeliveryID: "d1", Status: "concluida", At: time.Now().UTC()}
	hub.Publish(context.Background(), event)

	for _, conn := range []*websocket.Conn{mine1, mine2} {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		var got models.Event
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, event.Type, got.Type)
		assert.Equal(t, "d1", got.DeliveryID)
		assert.True(t, event.At.Equal(got.At))
	}

	_ = theirs.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := theirs.ReadMessage()
	assert.Error(t, err, "other owners receive nothing")
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url, "owner-1")
	assert.Equal(t, 1, hub.Count("owner-1"))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Count("owner-1") == 0 }, time.Second, 10*time.Millisecond)

	// Publishing with nobody listening is a no-op.
	hub.Publish(context.Background(), models.Event{Type: models.EventJourneyStarted, OwnerID: "owner-1"})
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{ID: "slow", OwnerID: "owner-1", send: make(chan []byte, 1), hub: hub}
	hub.register(slow)

	hub.Publish(context.Background(), models.Event{Type: models.EventJourneyStarted, OwnerID: "owner-1"})
	assert.Equal(t, 1, hub.Count("owner-1"))
	hub.Publish(context.Background(), models.Event{Type: models.EventJourneyFinished, OwnerID: "owner-1"})
	assert.Equal(t, 0, hub.Count("owner-1"))

	_, ok := <-slow.send
	assert.True(t, ok, "buffered message is still readable")
	_, ok = <-slow.send
	assert.False(t, ok, "channel is closed after the drop")

	// A late unregister from the read pump must not close the channel twice.
	hub.unregister(slow)
}
