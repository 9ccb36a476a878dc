package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kimhsiao/promptvault/internal/logging"
	"github.com/kimhsiao/promptvault/internal/query"
	"github.com/kimhsiao/promptvault/internal/uuid"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Only allow connections from localhost
		return strings.HasPrefix(r.Host, "localhost") || strings.HasPrefix(r.Host, "127.0.0.1")
	},
}

// Client represents a WebSocket client connection.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub maintains active client connections and broadcasts messages.
type Hub struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// Envelope wraps all WebSocket messages.
type Envelope struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}

// Server-to-client event types.
const (
	EventVisibleSet    = "prompts.visible"
	EventNotifications = "notifications.updated"
)

// Client-to-server message types driving the query pipeline.
const (
	MsgSearchTerm     = "search.term"
	MsgSearchCategory = "search.category"
	MsgSearchSort     = "search.sort"
	MsgSearchReset    = "search.reset"
)

// NewHub creates a new WebSocket hub and starts its dispatch loop.
func NewHub() *Hub {
	hub := &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
	go hub.run()
	return hub
}

// run manages client connections and broadcasts.
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()
			logging.Debug("ws client connected", map[string]interface{}{
				"client": client.id, "total": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client send buffer is full, drop the connection.
					close(client.send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to all connected clients.
func (h *Hub) Broadcast(eventType string, data map[string]interface{}) {
	envelope := Envelope{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		logging.Error("failed to marshal ws message", err)
		return
	}

	h.broadcast <- payload
}

// handleWebSocket upgrades the connection and attaches the client to the
// hub. Inbound messages drive the query pipeline's search inputs; the
// debounced recompute comes back to every client as a prompts.visible
// event.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("ws upgrade failed", err)
		return
	}

	client := &Client{
		id:   uuid.NewShort(),
		conn: conn,
		send: make(chan []byte, 64),
		hub:  s.hub,
	}
	s.hub.register <- client

	go client.writeLoop()
	go s.readLoop(client)
}

// readLoop consumes pipeline-input messages from a client until the
// connection drops.
func (s *Server) readLoop(client *Client) {
	defer func() {
		client.hub.unregister <- client
		client.conn.Close()
	}()

	for {
		_, payload, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(payload, &envelope); err != nil {
			logging.Warn("ignoring malformed ws message", map[string]interface{}{
				"client": client.id,
			})
			continue
		}

		s.dispatch(&envelope)
	}
}

// dispatch routes a client message into the query pipeline.
func (s *Server) dispatch(envelope *Envelope) {
	str := func(key string) string {
		v, _ := envelope.Data[key].(string)
		return v
	}

	switch envelope.Type {
	case MsgSearchTerm:
		s.pipeline.SetSearchTerm(str("term"))
	case MsgSearchCategory:
		s.pipeline.SetCategoryFilter(str("category"))
	case MsgSearchSort:
		key := query.SortKey(str("sort"))
		if !query.ValidSortKey(key) {
			key = query.DefaultSortKey
		}
		order := query.SortOrder(str("order"))
		if order != query.OrderAsc {
			order = query.OrderDesc
		}
		s.pipeline.SetSort(key, order)
	case MsgSearchReset:
		s.pipeline.Reset()
	}
}

// writeLoop pushes hub messages out to the peer.
func (c *Client) writeLoop() {
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
