// Package live pushes journey and delivery events to the dashboards of an owner over
// websockets.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

const (
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Tokens are checked before the upgrade, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection of an owner.
type Client struct {
	ID      string
	OwnerID string
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
}

// Hub tracks the connected clients of every owner.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// ServeWS upgrades the request and subscribes the connection to the owner's events. The
// caller has already authenticated the owner.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, ownerID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("owner_id", ownerID).Warn("Websocket upgrade failed")
		return
	}
	client := &Client{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		hub:     h,
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	log.WithFields(log.Fields{"client_id": c.ID, "owner_id": c.OwnerID}).Info("Websocket client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		close(c.send)
		log.WithFields(log.Fields{"client_id": c.ID, "owner_id": c.OwnerID}).Info("Websocket client disconnected")
	}
}

// Publish sends event to every client of its owner. A client whose buffer is full is
// dropped.
func (h *Hub) Publish(_ context.Context, event models.Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("type", event.Type).Error("Failed to encode event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		if c.OwnerID != event.OwnerID {
			continue
		}
		select {
		case c.send <- msg:
		default:
			delete(h.clients, id)
			close(c.send)
			log.WithFields(log.Fields{"client_id": id, "owner_id": c.OwnerID}).Warn("Dropping slow websocket client")
		}
	}
}

// Count returns the number of connected clients of an owner.
func (h *Hub) Count(ownerID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.clients {
		if c.OwnerID == ownerID {
			n++
		}
	}
	return n
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

// readPump discards client messages and keeps the read deadline moving on pongs.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).WithField("client_id", c.ID).Debug("Websocket read error")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
